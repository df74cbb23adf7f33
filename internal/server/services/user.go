// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, profiles and issuing or
// refreshing JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/common"
	"github.com/dmitrijs2005/moodiary/internal/cryptox"
	"github.com/dmitrijs2005/moodiary/internal/dbx"
	"github.com/dmitrijs2005/moodiary/internal/domain"
	"github.com/dmitrijs2005/moodiary/internal/server/auth"
	"github.com/dmitrijs2005/moodiary/internal/server/config"
	"github.com/dmitrijs2005/moodiary/internal/server/models"
	"github.com/dmitrijs2005/moodiary/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is what a successful Register or Login returns.
type Session struct {
	TokenPair
	User domain.User
}

// UserService provides authentication and profile operations.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

func validateRegistration(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return common.Validationf("username, email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return common.Validationf("invalid email %q", email)
	}
	if len(password) < common.MinPasswordLength {
		return common.Validationf("password must be at least %d characters", common.MinPasswordLength)
	}
	return nil
}

// Register creates the identity, its default profile and a first token pair
// in a single transaction, so a failure at any step leaves nothing behind.
// A taken email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	salt := cryptox.NewSalt()
	user := &models.User{
		Email:        email,
		Salt:         salt,
		PasswordHash: cryptox.HashPassword([]byte(password), salt),
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*Session, error) {
		u, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return nil, err
			}
			return nil, fmt.Errorf("error creating user: %w", err)
		}

		profile := models.NewProfile(u.ID, username)
		if err := s.repomanager.Profiles(tx).Create(ctx, profile); err != nil {
			return nil, fmt.Errorf("error creating profile: %w", err)
		}

		pair, err := s.generateTokenPair(ctx, u.ID, tx)
		if err != nil {
			return nil, err
		}

		return &Session{TokenPair: *pair, User: profile.ToDomain(u)}, nil
	})
}

// Login verifies the password and, on success, returns the user with a new
// TokenPair. Unknown emails and wrong passwords are indistinguishable.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !cryptox.VerifyPassword([]byte(password), user.Salt, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	profile, err := s.repomanager.Profiles(s.db).Get(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, err
	}
	return &Session{TokenPair: *pair, User: profile.ToDomain(user)}, nil
}

// RefreshToken redeems a refresh token and returns a fresh TokenPair in the
// same transaction. A token can be redeemed once: unknown or already used
// tokens yield ErrorUnauthorized, expired ones ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*TokenPair, error) {
		token, err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorUnauthorized
			}
			return nil, fmt.Errorf("error consuming refresh token: %w", err)
		}
		if token.Expired(time.Now()) {
			return nil, common.ErrRefreshTokenExpired
		}
		return s.generateTokenPair(ctx, token.UserID, tx)
	})
}

// Logout revokes userID's refresh token. Unknown tokens, and tokens of
// other users, are not an error.
func (s *UserService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, userID, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// GetProfile returns the user joined with its profile.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repomanager.Profiles(s.db).Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u := profile.ToDomain(user)
	return &u, nil
}

// UpdateSettings replaces the user's display settings.
func (s *UserService) UpdateSettings(ctx context.Context, userID string, settings domain.Settings) (*domain.User, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repomanager.Profiles(s.db).UpdateSettings(ctx, &models.Profile{
		UserID:  userID,
		Theme:   string(settings.Theme),
		Color:   string(settings.Color),
		Font:    string(settings.Font),
		Private: settings.Private,
	})
	if err != nil {
		return nil, err
	}

	u := profile.ToDomain(user)
	return &u, nil
}

// PurgeExpiredTokens deletes refresh tokens that are past their expiry.
func (s *UserService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, time.Now())
}

// --- helpers below ---

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
