// Package profiles stores the per-user display identity and settings.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/moodiary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.Profile) error
	// Get returns common.ErrorNotFound when the user has no profile.
	Get(ctx context.Context, userID string) (*models.Profile, error)
	UpdateSettings(ctx context.Context, profile *models.Profile) (*models.Profile, error)
}
