package client

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataTokenStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repos, err := InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	s := NewMetadataTokenStore(repos.DB)

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	want := Tokens{AccessToken: "a", RefreshToken: "r"}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestNewDiaryClient_RestoresStoredTokens(t *testing.T) {
	ctx := context.Background()
	store := &memoryTokenStore{t: Tokens{AccessToken: "a", RefreshToken: "r"}}

	c, err := NewDiaryClient(ctx, "127.0.0.1:1", "key", store)
	require.NoError(t, err)
	defer c.Close()

	assert.True(t, c.HasSession())
}

type brokenStore struct{ memoryTokenStore }

func (brokenStore) Load(context.Context) (Tokens, error) { return Tokens{}, errors.New("disk gone") }

func TestNewDiaryClient_StoreError(t *testing.T) {
	_, err := NewDiaryClient(context.Background(), "127.0.0.1:1", "key", &brokenStore{})
	assert.ErrorContains(t, err, "load session")
}

func TestRunMigrations_Error(t *testing.T) {
	old := gooseUpContext
	t.Cleanup(func() { gooseUpContext = old })
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error { return errors.New("boom") }

	_, err := InitDatabase(context.Background(), ":memory:")
	assert.ErrorContains(t, err, "boom")
}
