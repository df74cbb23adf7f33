package state

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/api"
	"github.com/dmitrijs2005/moodiary/internal/client/client"
	"github.com/dmitrijs2005/moodiary/internal/common"
	"github.com/dmitrijs2005/moodiary/internal/domain"
	"github.com/dmitrijs2005/moodiary/internal/logging"
)

var errBoom = fmt.Errorf("boom: %w", client.ErrUnavailable)

type toastRecorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *toastRecorder) Notify(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

func (r *toastRecorder) last() Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}
	}
	return r.toasts[len(r.toasts)-1]
}

func (r *toastRecorder) has(t Toast) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, got := range r.toasts {
		if got == t {
			return true
		}
	}
	return false
}

type account struct {
	user     domain.User
	password string
}

// fakeClient is an in-memory stand-in for the diary service.
type fakeClient struct {
	mu       sync.Mutex
	accounts map[string]*account
	current  *domain.User
	entries  map[string]domain.Entry
	versions map[string]int64
	clock    time.Time
	calls    int

	registerErr error
	loginErr    error
	logoutErr   error
	profileErr  error
	settingsErr error
	listErr     error
	createErr   error
	archiveErr  error
	subErr      error

	subscribed []int64
	streams    chan *fakeStream
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		accounts: make(map[string]*account),
		entries:  make(map[string]domain.Entry),
		versions: make(map[string]int64),
		clock:    time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		streams:  make(chan *fakeStream, 16),
	}
}

func (f *fakeClient) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fakeClient) bump(userID string) int64 {
	f.versions[userID]++
	return f.versions[userID]
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func (f *fakeClient) HasSession() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current != nil
}

func (f *fakeClient) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if _, ok := f.accounts[email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u := domain.User{
		ID:        fmt.Sprintf("user-%d", len(f.accounts)+1),
		Username:  username,
		Email:     email,
		CreatedAt: f.tick(),
		Settings:  domain.DefaultSettings(),
	}
	f.accounts[email] = &account{user: u, password: password}
	f.current = &u
	cp := u
	return &cp, nil
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	a, ok := f.accounts[email]
	if !ok || a.password != password {
		return nil, client.ErrUnauthorized
	}
	u := a.user
	f.current = &u
	cp := u
	return &cp, nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.current = nil
	return f.logoutErr
}

func (f *fakeClient) me() (*domain.User, error) {
	if f.current == nil {
		return nil, client.ErrUnauthorized
	}
	return f.current, nil
}

func (f *fakeClient) GetProfile(ctx context.Context) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	u, err := f.me()
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (f *fakeClient) UpdateSettings(ctx context.Context, settings domain.Settings) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	u, err := f.me()
	if err != nil {
		return nil, err
	}
	u.Settings = settings
	f.accounts[u.Email].user.Settings = settings
	cp := *u
	return &cp, nil
}

func (f *fakeClient) ListEntries(ctx context.Context) ([]domain.Entry, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	u, err := f.me()
	if err != nil {
		return nil, 0, err
	}
	var out []domain.Entry
	for _, e := range f.entries {
		if e.UserID == u.ID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, f.versions[u.ID], nil
}

func (f *fakeClient) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.me()
	if err != nil {
		return nil, err
	}
	e, ok := f.entries[id]
	if !ok || e.UserID != u.ID {
		return nil, common.ErrorNotFound
	}
	return &e, nil
}

func (f *fakeClient) CreateEntry(ctx context.Context, id string, in domain.EntryInput) (*domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	u, err := f.me()
	if err != nil {
		return nil, err
	}
	if e, ok := f.entries[id]; ok {
		if e.UserID != u.ID {
			return nil, common.ErrorAlreadyExists
		}
		return &e, nil
	}
	now := f.tick()
	e := domain.Entry{
		ID: id, UserID: u.ID,
		Title: in.Title, Content: in.Content, Mood: in.Mood, Tags: in.Tags,
		CreatedAt: now, UpdatedAt: now,
		Version: f.bump(u.ID),
	}
	f.entries[id] = e
	return &e, nil
}

func (f *fakeClient) UpdateEntry(ctx context.Context, id string, in domain.EntryInput) (*domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	u, err := f.me()
	if err != nil {
		return nil, err
	}
	e, ok := f.entries[id]
	if !ok || e.UserID != u.ID {
		return nil, common.ErrorNotFound
	}
	e.Title, e.Content, e.Mood, e.Tags = in.Title, in.Content, in.Mood, in.Tags
	e.UpdatedAt = f.tick()
	e.Version = f.bump(u.ID)
	f.entries[id] = e
	return &e, nil
}

func (f *fakeClient) DeleteEntry(ctx context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	u, err := f.me()
	if err != nil {
		return 0, err
	}
	e, ok := f.entries[id]
	if !ok || e.UserID != u.ID {
		return 0, common.ErrorNotFound
	}
	delete(f.entries, id)
	return f.bump(u.ID), nil
}

func (f *fakeClient) ArchiveEntries(ctx context.Context) (*api.ArchiveResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.archiveErr != nil {
		return nil, f.archiveErr
	}
	return &api.ArchiveResponse{
		Key:   "exports/user-1/diary-export-2025-03-01-abc.json",
		URL:   "https://storage.example/presigned",
		Count: 2,
	}, nil
}

func (f *fakeClient) Subscribe(ctx context.Context, sinceVersion int64) (client.EventStream, error) {
	f.mu.Lock()
	f.subscribed = append(f.subscribed, sinceVersion)
	err := f.subErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s := &fakeStream{ctx: ctx, ch: make(chan domain.ChangeEvent, 16)}
	f.streams <- s
	return s, nil
}

func (f *fakeClient) subscriptions() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.subscribed...)
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStream struct {
	ctx context.Context
	ch  chan domain.ChangeEvent
}

func (s *fakeStream) Recv() (*domain.ChangeEvent, error) {
	select {
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	case ev, ok := <-s.ch:
		if !ok {
			return nil, client.ErrUnavailable
		}
		return &ev, nil
	}
}

func nopLogger() logging.Logger { return logging.NewNop() }
