package state

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/moodiary/internal/client/client"
	"github.com/dmitrijs2005/moodiary/internal/domain"
	"github.com/dmitrijs2005/moodiary/internal/logging"
)

// Preferences holds the display settings in effect.
//
// Setters update the local value first and then persist it for a signed-in
// user. A failed save is reported but the local value is kept, so local
// and stored settings may drift until the next login.
type Preferences struct {
	client      client.Client
	notifier    Notifier
	logger      logging.Logger
	prefersDark bool

	mu            sync.Mutex
	settings      domain.Settings
	authenticated bool
	onSaved       func(*domain.User)
}

func NewPreferences(c client.Client, n Notifier, l logging.Logger, prefersDark bool) *Preferences {
	if n == nil {
		n = nopNotifier{}
	}
	p := &Preferences{
		client:      c,
		notifier:    n,
		logger:      l.With("module", "preferences"),
		prefersDark: prefersDark,
	}
	p.settings = p.anonymous()
	return p
}

func (p *Preferences) anonymous() domain.Settings {
	s := domain.DefaultSettings()
	if p.prefersDark {
		s.Theme = domain.ThemeDark
	}
	return s
}

// SetUser re-seeds the settings from u, or from the defaults and the OS
// color-scheme hint when u is nil.
func (p *Preferences) SetUser(u *domain.User) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if u == nil {
		p.settings = p.anonymous()
		p.authenticated = false
		return
	}
	p.settings = u.Settings
	p.authenticated = true
}

func (p *Preferences) Current() domain.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

func (p *Preferences) ToggleTheme(ctx context.Context) domain.Settings {
	return p.apply(ctx, func(s *domain.Settings) { s.Theme = s.Theme.Toggle() })
}

func (p *Preferences) SetTheme(ctx context.Context, t domain.Theme) domain.Settings {
	return p.apply(ctx, func(s *domain.Settings) { s.Theme = t })
}

func (p *Preferences) SetColor(ctx context.Context, c domain.Color) domain.Settings {
	return p.apply(ctx, func(s *domain.Settings) { s.Color = c })
}

func (p *Preferences) SetFont(ctx context.Context, f domain.Font) domain.Settings {
	return p.apply(ctx, func(s *domain.Settings) { s.Font = f })
}

// SetPrivate stores the private-mode flag. Nothing reads it yet.
func (p *Preferences) SetPrivate(ctx context.Context, private bool) domain.Settings {
	return p.apply(ctx, func(s *domain.Settings) { s.Private = private })
}

func (p *Preferences) apply(ctx context.Context, mutate func(*domain.Settings)) domain.Settings {
	p.mu.Lock()
	next := p.settings
	mutate(&next)
	if err := next.Validate(); err != nil {
		current := p.settings
		p.mu.Unlock()
		failure(p.notifier, err.Error())
		return current
	}
	p.settings = next
	authenticated := p.authenticated
	onSaved := p.onSaved
	p.mu.Unlock()

	if !authenticated {
		return next
	}

	u, err := p.client.UpdateSettings(ctx, next)
	if err != nil {
		p.logger.Error(ctx, "saving settings failed", "error", err)
		failure(p.notifier, describe(err, "could not save preferences"))
		return next
	}
	if onSaved != nil {
		onSaved(u)
	}
	return next
}
