package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered campus account
type User struct {
	ID             uuid.UUID
	Email          string
	Username       string
	PasswordHashed string
	Name           string
	Number         string
	RefreshToken   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasRefreshToken reports whether token is the one currently stored for the user
func (u *User) HasRefreshToken(token string) bool {
	return u.RefreshToken != nil && token != "" && *u.RefreshToken == token
}
