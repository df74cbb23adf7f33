package models

import "time"

// User is the authentication identity. Salt and PasswordHash hold the
// argon2id parameters; CurrentVersion is the owner's change counter.
type User struct {
	ID             string
	Email          string
	Salt           []byte
	PasswordHash   []byte
	CurrentVersion int64
	CreatedAt      time.Time
}
