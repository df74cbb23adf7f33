package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/moodiary/internal/common"
	"github.com/dmitrijs2005/moodiary/internal/dbx"
	"github.com/dmitrijs2005/moodiary/internal/domain"
	"github.com/dmitrijs2005/moodiary/internal/server/models"
	"github.com/dmitrijs2005/moodiary/internal/server/repositories/entries"
	"github.com/dmitrijs2005/moodiary/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/moodiary/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/moodiary/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// memStore is an in-memory stand-in for the Postgres schema. Transactions
// are not modelled: sqlmock covers begin/commit/rollback separately.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	profiles map[string]*models.Profile
	tokens   map[string]*models.RefreshToken
	entries  map[string]*models.Entry
	clock    time.Time
	nextID   int

	// injected failures
	createUserErr    error
	createProfileErr error
	createTokenErr   error
	incrementErr     error
	listErr          error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*models.User{},
		profiles: map[string]*models.Profile{},
		tokens:   map[string]*models.RefreshToken{},
		entries:  map[string]*models.Entry{},
		clock:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

type memRepoManager struct{ s *memStore }

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(dbx.DBTX) users.Repository             { return &memUsers{m.s} }
func (m *memRepoManager) Profiles(dbx.DBTX) profiles.Repository       { return &memProfiles{m.s} }
func (m *memRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return &memTokens{m.s}
}
func (m *memRepoManager) Entries(dbx.DBTX) entries.Repository { return &memEntries{m.s} }

type memUsers struct{ s *memStore }

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createUserErr != nil {
		return nil, r.s.createUserErr
	}
	for _, x := range r.s.users {
		if x.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	r.s.nextID++
	cp := *u
	cp.ID = fmt.Sprintf("user-%d", r.s.nextID)
	cp.CreatedAt = r.s.tick()
	r.s.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) IncrementCurrentVersion(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.incrementErr != nil {
		return 0, r.s.incrementErr
	}
	u, ok := r.s.users[userID]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.CurrentVersion++
	return u.CurrentVersion, nil
}

type memProfiles struct{ s *memStore }

func (r *memProfiles) Create(_ context.Context, p *models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createProfileErr != nil {
		return r.s.createProfileErr
	}
	cp := *p
	r.s.profiles[p.UserID] = &cp
	return nil
}

func (r *memProfiles) Get(_ context.Context, userID string) (*models.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProfiles) UpdateSettings(_ context.Context, p *models.Profile) (*models.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.profiles[p.UserID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cur.Theme, cur.Color, cur.Font, cur.Private = p.Theme, p.Color, p.Font, p.Private
	cur.UpdatedAt = r.s.tick()
	cp := *cur
	return &cp, nil
}

type memTokens struct{ s *memStore }

func (r *memTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createTokenErr != nil {
		return r.s.createTokenErr
	}
	r.s.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, ExpiresAt: time.Now().Add(validity)}
	return nil
}

func (r *memTokens) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.s.tokens, token)
	cp := *t
	return &cp, nil
}

func (r *memTokens) Delete(_ context.Context, userID, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.tokens[token]; ok && t.UserID == userID {
		delete(r.s.tokens, token)
	}
	return nil
}

func (r *memTokens) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k, t := range r.s.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.s.tokens, k)
			n++
		}
	}
	return n, nil
}

type memEntries struct{ s *memStore }

func (r *memEntries) Create(_ context.Context, e *models.Entry) (*models.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entries[e.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	cp := *e
	cp.CreatedAt = r.s.tick()
	cp.UpdatedAt = cp.CreatedAt
	r.s.entries[e.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memEntries) Get(_ context.Context, userID, id string) (*models.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entries[id]
	if !ok || e.UserID != userID || e.Deleted {
		return nil, common.ErrorNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *memEntries) List(_ context.Context, userID string) ([]*models.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.listErr != nil {
		return nil, r.s.listErr
	}
	var out []*models.Entry
	for _, e := range r.s.entries {
		if e.UserID == userID && !e.Deleted {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memEntries) Update(_ context.Context, e *models.Entry) (*models.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.entries[e.ID]
	if !ok || cur.UserID != e.UserID || cur.Deleted {
		return nil, common.ErrorNotFound
	}
	cur.Title, cur.Content, cur.Mood, cur.Tags = e.Title, e.Content, e.Mood, e.Tags
	cur.Version = e.Version
	cur.UpdatedAt = r.s.tick()
	cp := *cur
	return &cp, nil
}

func (r *memEntries) MarkDeleted(_ context.Context, userID, id string, version int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.entries[id]
	if !ok || cur.UserID != userID || cur.Deleted {
		return common.ErrorNotFound
	}
	cur.Deleted = true
	cur.Version = version
	return nil
}

func (r *memEntries) SelectUpdated(_ context.Context, userID string, minVersion int64) ([]*models.Entry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Entry
	for _, e := range r.s.entries {
		if e.UserID == userID && e.Version > minVersion {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (p *recordingPublisher) Publish(ev domain.ChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) Events() []domain.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ChangeEvent(nil), p.events...)
}
