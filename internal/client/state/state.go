package state

import (
	"context"

	"github.com/dmitrijs2005/moodiary/internal/client/client"
	"github.com/dmitrijs2005/moodiary/internal/client/config"
	"github.com/dmitrijs2005/moodiary/internal/domain"
	"github.com/dmitrijs2005/moodiary/internal/logging"
)

// State bundles the session, preferences and diary and propagates user
// changes between them.
type State struct {
	Session     *Session
	Preferences *Preferences
	Diary       *Diary
}

func New(c client.Client, cfg *config.Config, n Notifier, l logging.Logger) *State {
	s := &State{
		Session:     NewSession(c, n, l),
		Preferences: NewPreferences(c, n, l, cfg.PrefersDark()),
		Diary:       NewDiary(c, n, l, cfg.ExportDir, cfg.ResubscribeDelay),
	}

	s.Preferences.onSaved = s.Session.updateProfile
	s.Session.OnUserChange(func(ctx context.Context, u *domain.User) {
		s.Preferences.SetUser(u)
		s.Diary.SetUser(ctx, u)
	})
	return s
}

// Close stops background work. The session itself stays persisted.
func (s *State) Close() {
	s.Diary.Close()
}
