package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAuthDetailsNotFound = errors.New("auth details not found")
	ErrEmailTaken          = errors.New("email already registered")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	CreateUser(ctx context.Context, user User) (*User, error)

	GetAuthDetails(ctx context.Context, userID uuid.UUID) (*AuthDetails, error)
	CreateAuthDetails(ctx context.Context, details AuthDetails) (*AuthDetails, error)
	UpdateAuthDetails(ctx context.Context, details AuthDetails) (*AuthDetails, error)
}
