package client

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/moodiary/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/moodiary/internal/dbx"
)

const (
	keyAccessToken  = "session.access_token"
	keyRefreshToken = "session.refresh_token"
)

// Tokens is the persisted part of a session.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

func (t Tokens) Empty() bool { return t.AccessToken == "" && t.RefreshToken == "" }

type TokenStore interface {
	Load(ctx context.Context) (Tokens, error)
	Save(ctx context.Context, t Tokens) error
	Clear(ctx context.Context) error
}

// MetadataTokenStore keeps tokens in the metadata table. Both tokens are
// written in one transaction.
type MetadataTokenStore struct {
	db   *sql.DB
	repo func(dbx.DBTX) metadata.Repository
}

func NewMetadataTokenStore(db *sql.DB) *MetadataTokenStore {
	return &MetadataTokenStore{
		db: db,
		repo: func(tx dbx.DBTX) metadata.Repository {
			return metadata.NewSQLiteRepository(tx)
		},
	}
}

// Load returns ErrNoSession when nothing is stored.
func (s *MetadataTokenStore) Load(ctx context.Context) (Tokens, error) {
	m, err := s.repo(s.db).List(ctx, "session.")
	if err != nil {
		return Tokens{}, err
	}
	t := Tokens{AccessToken: m[keyAccessToken], RefreshToken: m[keyRefreshToken]}
	if t.Empty() {
		return Tokens{}, ErrNoSession
	}
	return t, nil
}

func (s *MetadataTokenStore) Save(ctx context.Context, t Tokens) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, keyAccessToken, t.AccessToken); err != nil {
			return err
		}
		return r.Set(ctx, keyRefreshToken, t.RefreshToken)
	})
}

func (s *MetadataTokenStore) Clear(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, keyAccessToken, keyRefreshToken)
}

// memoryTokenStore is used when no persistent store is configured.
type memoryTokenStore struct{ t Tokens }

func (m *memoryTokenStore) Load(context.Context) (Tokens, error) {
	if m.t.Empty() {
		return Tokens{}, ErrNoSession
	}
	return m.t, nil
}
func (m *memoryTokenStore) Save(_ context.Context, t Tokens) error { m.t = t; return nil }
func (m *memoryTokenStore) Clear(context.Context) error            { m.t = Tokens{}; return nil }
