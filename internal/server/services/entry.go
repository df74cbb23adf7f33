package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodiary/internal/common"
	"github.com/dmitrijs2005/moodiary/internal/dbx"
	"github.com/dmitrijs2005/moodiary/internal/domain"
	sc "github.com/dmitrijs2005/moodiary/internal/server/config"
	"github.com/dmitrijs2005/moodiary/internal/server/models"
	"github.com/dmitrijs2005/moodiary/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Publisher receives change events after the transaction that produced them
// has committed.
type Publisher interface {
	Publish(ev domain.ChangeEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(domain.ChangeEvent) {}

// EntryService implements diary entry operations. Every mutation bumps the
// owner's version counter in the same transaction as the row change.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	publisher   Publisher
}

func NewEntryService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config, publisher Publisher) *EntryService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &EntryService{
		db:          db,
		repomanager: repomanager,
		config:      config,
		publisher:   publisher,
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func toDomain(rows []*models.Entry) []domain.Entry {
	out := make([]domain.Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToDomain())
	}
	return out
}

// List returns the user's entries newest first together with the version
// counter read before the list. A subscriber that replays from that version
// cannot miss a change made in between.
func (s *EntryService) List(ctx context.Context, userID string) ([]domain.Entry, int64, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.repomanager.Entries(s.db).List(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return toDomain(rows), user.CurrentVersion, nil
}

func (s *EntryService) Get(ctx context.Context, userID, id string) (*domain.Entry, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	e, err := s.repomanager.Entries(s.db).Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	d := e.ToDomain()
	return &d, nil
}

// Create inserts a new entry. id is the client's idempotency key: repeating
// a create with an id the user already owns returns the stored entry.
func (s *EntryService) Create(ctx context.Context, userID, id string, in domain.EntryInput) (*domain.Entry, error) {
	if id == "" {
		id = uuid.NewString()
	} else if !validID(id) {
		return nil, common.Validationf("invalid entry id %q", id)
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	created, err := dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Entry, error) {
		version, err := s.repomanager.Users(tx).IncrementCurrentVersion(ctx, userID)
		if err != nil {
			return nil, err
		}
		e := models.NewEntry(id, userID, in)
		e.Version = version
		return s.repomanager.Entries(tx).Create(ctx, e)
	})

	if errors.Is(err, common.ErrorAlreadyExists) {
		// Either a retry of our own create or an id owned by someone else.
		existing, getErr := s.repomanager.Entries(s.db).Get(ctx, userID, id)
		if getErr != nil {
			return nil, common.ErrorAlreadyExists
		}
		d := existing.ToDomain()
		return &d, nil
	}
	if err != nil {
		return nil, err
	}

	d := created.ToDomain()
	s.publisher.Publish(domain.ChangeEvent{Kind: domain.EventInsert, Entry: d})
	return &d, nil
}

func (s *EntryService) Update(ctx context.Context, userID, id string, in domain.EntryInput) (*domain.Entry, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	updated, err := dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Entry, error) {
		version, err := s.repomanager.Users(tx).IncrementCurrentVersion(ctx, userID)
		if err != nil {
			return nil, err
		}
		e := models.NewEntry(id, userID, in)
		e.Version = version
		return s.repomanager.Entries(tx).Update(ctx, e)
	})
	if err != nil {
		return nil, err
	}

	d := updated.ToDomain()
	s.publisher.Publish(domain.ChangeEvent{Kind: domain.EventUpdate, Entry: d})
	return &d, nil
}

// Delete turns the entry into a tombstone and returns the version of the
// deletion. Unknown ids yield common.ErrorNotFound.
func (s *EntryService) Delete(ctx context.Context, userID, id string) (int64, error) {
	if !validID(id) {
		return 0, common.ErrorNotFound
	}

	version, err := dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (int64, error) {
		version, err := s.repomanager.Users(tx).IncrementCurrentVersion(ctx, userID)
		if err != nil {
			return 0, err
		}
		if err := s.repomanager.Entries(tx).MarkDeleted(ctx, userID, id, version); err != nil {
			return 0, err
		}
		return version, nil
	})
	if err != nil {
		return 0, err
	}

	s.publisher.Publish(domain.ChangeEvent{
		Kind:  domain.EventDelete,
		Entry: domain.Entry{ID: id, UserID: userID, Version: version},
	})
	return version, nil
}

// Changes returns the events a subscriber missed after sinceVersion, in
// version order.
func (s *EntryService) Changes(ctx context.Context, userID string, sinceVersion int64) ([]domain.ChangeEvent, error) {
	rows, err := s.repomanager.Entries(s.db).SelectUpdated(ctx, userID, sinceVersion)
	if err != nil {
		return nil, fmt.Errorf("error selecting changes: %w", err)
	}
	events := make([]domain.ChangeEvent, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.ChangeEvent())
	}
	return events, nil
}

// Export returns the user's entries as a pretty-printed JSON array.
func (s *EntryService) Export(ctx context.Context, userID string) ([]byte, int, error) {
	rows, err := s.repomanager.Entries(s.db).List(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	data, err := domain.MarshalExport(toDomain(rows))
	if err != nil {
		return nil, 0, fmt.Errorf("error encoding export: %w", err)
	}
	return data, len(rows), nil
}
