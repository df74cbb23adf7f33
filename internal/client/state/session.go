package state

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/moodiary/internal/client/client"
	"github.com/dmitrijs2005/moodiary/internal/common"
	"github.com/dmitrijs2005/moodiary/internal/domain"
	"github.com/dmitrijs2005/moodiary/internal/logging"
)

// Registration is the sign-up form.
type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate performs the checks done before any request is sent.
func (r Registration) Validate() error {
	if strings.TrimSpace(r.Username) == "" || strings.TrimSpace(r.Email) == "" ||
		r.Password == "" || r.ConfirmPassword == "" {
		return common.Validationf("all fields are required")
	}
	if r.Password != r.ConfirmPassword {
		return common.Validationf("passwords do not match")
	}
	if len(r.Password) < common.MinPasswordLength {
		return common.Validationf("password must be at least %d characters", common.MinPasswordLength)
	}
	return nil
}

// UserChangeFunc is called after the current user changes; u is nil after
// logout.
type UserChangeFunc func(ctx context.Context, u *domain.User)

// Session tracks the signed-in user.
type Session struct {
	client   client.Client
	notifier Notifier
	logger   logging.Logger

	mu        sync.RWMutex
	user      *domain.User
	loading   bool
	listeners []UserChangeFunc
}

func NewSession(c client.Client, n Notifier, l logging.Logger) *Session {
	if n == nil {
		n = nopNotifier{}
	}
	return &Session{client: c, notifier: n, logger: l.With("module", "session")}
}

// OnUserChange registers fn to run after every login, registration,
// restore and logout.
func (s *Session) OnUserChange(fn UserChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Session) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Session) setUser(ctx context.Context, u *domain.User) {
	s.mu.Lock()
	s.user = u
	listeners := append([]UserChangeFunc(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx, u)
	}
}

// updateProfile replaces the stored user without firing listeners. Used
// when only the settings of the same user changed.
func (s *Session) updateProfile(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil && u != nil && s.user.ID == u.ID {
		cp := *u
		s.user = &cp
	}
}

func (s *Session) Register(ctx context.Context, r Registration) bool {
	if err := r.Validate(); err != nil {
		failure(s.notifier, err.Error())
		return false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	u, err := s.client.Register(ctx, strings.TrimSpace(r.Username), strings.TrimSpace(r.Email), r.Password)
	if err != nil {
		s.logger.Error(ctx, "registration failed", "error", err)
		msg := describe(err, "registration failed")
		if errors.Is(err, common.ErrorAlreadyExists) {
			msg = "an account with this email already exists"
		}
		failure(s.notifier, msg)
		return false
	}

	s.setUser(ctx, u)
	success(s.notifier, "welcome, "+u.Username+"!")
	return true
}

func (s *Session) Login(ctx context.Context, email, password string) bool {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		failure(s.notifier, "email and password are required")
		return false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	u, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.logger.Error(ctx, "login failed", "error", err)
		msg := describe(err, "login failed")
		if errors.Is(err, client.ErrUnauthorized) {
			msg = "invalid email or password"
		}
		failure(s.notifier, msg)
		return false
	}

	s.setUser(ctx, u)
	success(s.notifier, "welcome back, "+u.Username+"!")
	return true
}

// Logout always ends the local session, even when the server cannot be
// reached to revoke the refresh token.
func (s *Session) Logout(ctx context.Context) bool {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.client.Logout(ctx); err != nil {
		s.logger.Warn(ctx, "logout: revoking refresh token failed", "error", err)
	}

	s.setUser(ctx, nil)
	success(s.notifier, "logged out")
	return true
}

// Restore resumes a session persisted by an earlier run. It reports false
// without notifying when there is nothing to restore.
func (s *Session) Restore(ctx context.Context) bool {
	if !s.client.HasSession() {
		return false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	u, err := s.client.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			s.logger.Info(ctx, "stored session is no longer valid")
			if err := s.client.Logout(ctx); err != nil {
				s.logger.Warn(ctx, "clearing stored session failed", "error", err)
			}
			return false
		}
		s.logger.Error(ctx, "restoring session failed", "error", err)
		failure(s.notifier, describe(err, "could not restore session"))
		return false
	}

	s.setUser(ctx, u)
	return true
}
