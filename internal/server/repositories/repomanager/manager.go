package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/moodiary/internal/dbx"
	"github.com/dmitrijs2005/moodiary/internal/server/repositories/entries"
	"github.com/dmitrijs2005/moodiary/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/moodiary/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/moodiary/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX, so services can
// run several repositories inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Entries(db dbx.DBTX) entries.Repository
}
