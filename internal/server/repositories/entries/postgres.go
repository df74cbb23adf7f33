// Package entries provides the PostgreSQL-backed repository for diary
// entries and the change replay query.
package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodiary/internal/common"
	"github.com/dmitrijs2005/moodiary/internal/dbx"
	"github.com/dmitrijs2005/moodiary/internal/server/models"
)

const entryColumns = `id, user_id, title, content, mood, tags, deleted, version, created_at, updated_at`

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.Entry, error) {
	var (
		e    models.Entry
		tags []byte
	)
	if err := s.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.Mood, &tags,
		&e.Deleted, &e.Version, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &e.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	if len(e.Tags) == 0 {
		e.Tags = nil
	}
	return &e, nil
}

func (r *PostgresRepository) Create(ctx context.Context, e *models.Entry) (*models.Entry, error) {
	tags, err := encodeTags(e.Tags)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO entries (id, user_id, title, content, mood, tags, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query, e.ID, e.UserID, e.Title, e.Content, e.Mood, tags, e.Version).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE id = $1 AND user_id = $2 AND NOT deleted
	`
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE user_id = $1 AND NOT deleted
		ORDER BY created_at DESC, id DESC
	`
	return r.selectMany(ctx, query, userID)
}

func (r *PostgresRepository) Update(ctx context.Context, e *models.Entry) (*models.Entry, error) {
	tags, err := encodeTags(e.Tags)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE entries
		SET title = $3, content = $4, mood = $5, tags = $6, version = $7, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND NOT deleted
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query, e.ID, e.UserID, e.Title, e.Content, e.Mood, tags, e.Version).
		Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) MarkDeleted(ctx context.Context, userID, id string, version int64) error {
	query := `
		UPDATE entries
		SET deleted = true, version = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND NOT deleted
	`
	res, err := r.db.ExecContext(ctx, query, id, userID, version)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) SelectUpdated(ctx context.Context, userID string, minVersion int64) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE user_id = $1 AND version > $2
		ORDER BY version
	`
	return r.selectMany(ctx, query, userID, minVersion)
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
