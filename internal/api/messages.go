package api

import "github.com/dmitrijs2005/moodiary/internal/domain"

type Empty struct{}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         domain.User `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ProfileResponse struct {
	User domain.User `json:"user"`
}

type UpdateSettingsRequest struct {
	Settings domain.Settings `json:"settings"`
}

type ListEntriesRequest struct{}

// ListEntriesResponse carries the caller's entries newest first and the
// caller's current change version, suitable as a Subscribe starting point.
type ListEntriesResponse struct {
	Entries []domain.Entry `json:"entries"`
	Version int64          `json:"version"`
}

type GetEntryRequest struct {
	ID string `json:"id"`
}

type EntryResponse struct {
	Entry domain.Entry `json:"entry"`
}

// CreateEntryRequest.ID is chosen by the client and makes the call
// idempotent for the same user.
type CreateEntryRequest struct {
	ID    string            `json:"id"`
	Input domain.EntryInput `json:"input"`
}

type UpdateEntryRequest struct {
	ID    string            `json:"id"`
	Input domain.EntryInput `json:"input"`
}

type DeleteEntryRequest struct {
	ID string `json:"id"`
}

type DeleteEntryResponse struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`
}

type ArchiveResponse struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// SubscribeRequest asks for every change with a version greater than
// SinceVersion, followed by live changes.
type SubscribeRequest struct {
	SinceVersion int64 `json:"since_version"`
}
