package models

import (
	"time"

	"github.com/dmitrijs2005/moodiary/internal/domain"
)

// Entry is a diary row. Deleted rows are kept as tombstones so that change
// replay can report them.
type Entry struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	Mood      string
	Tags      []string
	Deleted   bool
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewEntry(id, userID string, in domain.EntryInput) *Entry {
	return &Entry{
		ID:      id,
		UserID:  userID,
		Title:   in.Title,
		Content: in.Content,
		Mood:    string(in.Mood),
		Tags:    in.Tags,
	}
}

func (e *Entry) ToDomain() domain.Entry {
	return domain.Entry{
		ID:        e.ID,
		UserID:    e.UserID,
		Title:     e.Title,
		Content:   e.Content,
		Mood:      domain.Mood(e.Mood),
		Tags:      e.Tags,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		Version:   e.Version,
	}
}

// ChangeEvent converts a row read during replay into the event a live
// subscriber would have seen.
func (e *Entry) ChangeEvent() domain.ChangeEvent {
	if e.Deleted {
		return domain.ChangeEvent{
			Kind:  domain.EventDelete,
			Entry: domain.Entry{ID: e.ID, UserID: e.UserID, Version: e.Version},
		}
	}
	kind := domain.EventUpdate
	if e.CreatedAt.Equal(e.UpdatedAt) {
		kind = domain.EventInsert
	}
	return domain.ChangeEvent{Kind: kind, Entry: e.ToDomain()}
}
