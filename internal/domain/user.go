package domain

import "time"

// User is the authenticated identity together with its profile.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	Settings  Settings  `json:"settings"`
}
