package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user repository operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	ListEmails(ctx context.Context) ([]string, error)

	// UpdateProfile overwrites name, email and number.
	UpdateProfile(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	// UpdateRefreshToken stores token, or clears it when token is nil.
	UpdateRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error
}
