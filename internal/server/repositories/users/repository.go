// Package users declares and implements storage for authentication
// identities and their per-user change counter.
package users

import (
	"context"

	"github.com/dmitrijs2005/moodiary/internal/server/models"
)

type Repository interface {
	// Create inserts the identity and fills ID and CreatedAt. A duplicate
	// email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// IncrementCurrentVersion bumps and returns the user's change counter.
	IncrementCurrentVersion(ctx context.Context, userID string) (int64, error)
}
