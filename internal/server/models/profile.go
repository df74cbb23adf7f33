package models

import (
	"time"

	"github.com/dmitrijs2005/moodiary/internal/domain"
)

// Profile is the display identity and settings row, one per user.
type Profile struct {
	UserID    string
	Username  string
	Theme     string
	Color     string
	Font      string
	Private   bool
	UpdatedAt time.Time
}

// NewProfile returns a profile with default settings.
func NewProfile(userID, username string) *Profile {
	d := domain.DefaultSettings()
	return &Profile{
		UserID:   userID,
		Username: username,
		Theme:    string(d.Theme),
		Color:    string(d.Color),
		Font:     string(d.Font),
		Private:  d.Private,
	}
}

func (p *Profile) Settings() domain.Settings {
	return domain.Settings{
		Theme:   domain.Theme(p.Theme),
		Color:   domain.Color(p.Color),
		Font:    domain.Font(p.Font),
		Private: p.Private,
	}
}

// ToDomain joins the profile with its identity row.
func (p *Profile) ToDomain(u *User) domain.User {
	return domain.User{
		ID:        u.ID,
		Username:  p.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Settings:  p.Settings(),
	}
}
