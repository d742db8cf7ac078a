package auth

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin        Role = "admin"
	RolePsychologist Role = "psychologist"
)

type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusPending   AccountStatus = "pending"
	StatusSuspended AccountStatus = "suspended"
)

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthDetails is mutated on every login attempt. A missing record is an
// implicit active state with zero failed attempts, materialized lazily.
type AuthDetails struct {
	UserID         uuid.UUID
	LastLogin      *time.Time
	TokenCreatedAt *time.Time
	Status         AccountStatus
	FailedAttempts int
}
