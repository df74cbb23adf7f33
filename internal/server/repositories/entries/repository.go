package entries

import (
	"context"

	"github.com/dmitrijs2005/moodiary/internal/server/models"
)

// Repository stores diary entries. Every method is scoped to one owner.
type Repository interface {
	// Create inserts e and fills its timestamps. An existing row with the same
	// id yields common.ErrorAlreadyExists and leaves the table untouched.
	Create(ctx context.Context, e *models.Entry) (*models.Entry, error)
	Get(ctx context.Context, userID, id string) (*models.Entry, error)
	// List returns the owner's live entries, newest first.
	List(ctx context.Context, userID string) ([]*models.Entry, error)
	Update(ctx context.Context, e *models.Entry) (*models.Entry, error)
	// MarkDeleted turns the row into a tombstone carrying version.
	MarkDeleted(ctx context.Context, userID, id string, version int64) error
	// SelectUpdated returns rows, tombstones included, with version > minVersion
	// in ascending version order.
	SelectUpdated(ctx context.Context, userID string, minVersion int64) ([]*models.Entry, error)
}
