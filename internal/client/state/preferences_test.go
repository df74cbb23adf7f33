package state

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/moodiary/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferences_AnonymousSeededFromOSHint(t *testing.T) {
	fc := newFakeClient()

	light := NewPreferences(fc, nil, nopLogger(), false)
	assert.Equal(t, domain.DefaultSettings(), light.Current())

	dark := NewPreferences(fc, nil, nopLogger(), true)
	assert.Equal(t, domain.ThemeDark, dark.Current().Theme)
	assert.Equal(t, domain.ColorPink, dark.Current().Color)
}

func TestPreferences_AnonymousChangesStayLocal(t *testing.T) {
	fc := newFakeClient()
	p := NewPreferences(fc, nil, nopLogger(), false)

	got := p.ToggleTheme(context.Background())
	assert.Equal(t, domain.ThemeDark, got.Theme)
	assert.Equal(t, got, p.Current())
	assert.Equal(t, 0, fc.callCount())
}

func TestPreferences_SignedInChangesArePersisted(t *testing.T) {
	fc := newFakeClient()
	s, _ := newTestState(t, fc)
	ctx := context.Background()

	require.True(t, s.Session.Register(ctx, ana()))

	got := s.Preferences.SetColor(ctx, domain.ColorPurple)
	assert.Equal(t, domain.ColorPurple, got.Color)

	got = s.Preferences.SetFont(ctx, domain.FontKawaii)
	assert.Equal(t, domain.FontKawaii, got.Font)

	got = s.Preferences.SetPrivate(ctx, true)
	assert.True(t, got.Private)
	assert.Equal(t, domain.ColorPurple, got.Color)

	stored, err := fc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, stored.Settings)
	assert.Equal(t, got, s.Session.CurrentUser().Settings)
}

func TestPreferences_FailedSaveKeepsLocalValue(t *testing.T) {
	fc := newFakeClient()
	s, rec := newTestState(t, fc)
	ctx := context.Background()

	require.True(t, s.Session.Register(ctx, ana()))
	fc.mu.Lock()
	fc.settingsErr = errBoom
	fc.mu.Unlock()

	got := s.Preferences.SetTheme(ctx, domain.ThemeDark)
	assert.Equal(t, domain.ThemeDark, got.Theme)
	assert.Equal(t, domain.ThemeDark, s.Preferences.Current().Theme)
	assert.Equal(t, LevelError, rec.last().Level)

	stored, err := fc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, stored.Settings.Theme)
}

func TestPreferences_InvalidValueRejected(t *testing.T) {
	fc := newFakeClient()
	rec := &toastRecorder{}
	p := NewPreferences(fc, rec, nopLogger(), false)

	got := p.SetColor(context.Background(), domain.Color("neon"))
	assert.Equal(t, domain.ColorPink, got.Color)
	assert.Equal(t, domain.ColorPink, p.Current().Color)
	assert.Equal(t, LevelError, rec.last().Level)
}

func TestPreferences_ReseededOnUserChange(t *testing.T) {
	fc := newFakeClient()
	p := NewPreferences(fc, nil, nopLogger(), true)

	stored := domain.Settings{Theme: domain.ThemeLight, Color: domain.ColorBlue, Font: domain.FontKawaii}
	p.SetUser(&domain.User{ID: "user-1", Settings: stored})
	assert.Equal(t, stored, p.Current())

	p.SetUser(nil)
	assert.Equal(t, domain.ThemeDark, p.Current().Theme)
	assert.Equal(t, domain.ColorPink, p.Current().Color)
}
