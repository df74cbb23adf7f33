// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Consume atomically removes a refresh token and returns its metadata.
	// An absent token yields a not-found error.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete revokes userID's refresh token. Tokens that do not exist or
	// belong to someone else are ignored.
	Delete(ctx context.Context, userID, token string) error

	// DeleteExpired purges tokens that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
