package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodiary/internal/common"
	"github.com/dmitrijs2005/moodiary/internal/dbx"
	"github.com/dmitrijs2005/moodiary/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, username, theme, color, font, private)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query, p.UserID, p.Username, p.Theme, p.Color, p.Font, p.Private); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT user_id, username, theme, color, font, private, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.UserID, &p.Username, &p.Theme, &p.Color, &p.Font, &p.Private, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// UpdateSettings overwrites theme, color, font and private for p.UserID.
func (r *PostgresRepository) UpdateSettings(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET theme = $2, color = $3, font = $4, private = $5, updated_at = now()
		WHERE user_id = $1
		RETURNING username, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, p.UserID, p.Theme, p.Color, p.Font, p.Private).
		Scan(&p.Username, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
