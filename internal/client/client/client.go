package client

import (
	"context"

	"github.com/dmitrijs2005/moodiary/internal/api"
	"github.com/dmitrijs2005/moodiary/internal/domain"
)

// EventStream yields change events until the stream fails or its context
// is cancelled.
type EventStream interface {
	Recv() (*domain.ChangeEvent, error)
}

type Client interface {
	Close() error
	Ping(ctx context.Context) error

	// HasSession reports whether tokens from an earlier login are loaded.
	HasSession() bool
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Logout(ctx context.Context) error

	GetProfile(ctx context.Context) (*domain.User, error)
	UpdateSettings(ctx context.Context, settings domain.Settings) (*domain.User, error)

	ListEntries(ctx context.Context) ([]domain.Entry, int64, error)
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	CreateEntry(ctx context.Context, id string, in domain.EntryInput) (*domain.Entry, error)
	UpdateEntry(ctx context.Context, id string, in domain.EntryInput) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, id string) (int64, error)
	ArchiveEntries(ctx context.Context) (*api.ArchiveResponse, error)

	Subscribe(ctx context.Context, sinceVersion int64) (EventStream, error)
}
