package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountSuspended   = errors.New("account suspended after repeated failed logins")
	ErrTokenInvalid       = errors.New("invalid or expired token")
)

type Service struct {
	repo        Repository
	secret      []byte
	tokenTTL    time.Duration
	maxAttempts int
	log         *zap.Logger
	now         func() time.Time
}

func NewService(repo Repository, secret string, tokenTTL time.Duration, maxAttempts int, log *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		secret:      []byte(secret),
		tokenTTL:    tokenTTL,
		maxAttempts: maxAttempts,
		log:         log,
		now:         time.Now,
	}
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Login runs the lockout state machine for one attempt.
//
// Suspension is sticky: a correct password is still rejected while the
// account is suspended, and nothing in this path un-suspends an account.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("load user: %w", err)
	}

	details, err := s.ensureDetails(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("load auth details: %w", err)
	}

	if details.Status == StatusSuspended {
		return nil, "", ErrAccountSuspended
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		details.FailedAttempts++
		if details.FailedAttempts >= s.maxAttempts {
			details.Status = StatusSuspended
			s.log.Warn("account suspended after repeated failed logins",
				zap.String("user_id", user.ID.String()),
				zap.Int("failed_attempts", details.FailedAttempts))
		}
		if _, err := s.repo.UpdateAuthDetails(ctx, *details); err != nil {
			return nil, "", fmt.Errorf("record failed attempt: %w", err)
		}
		return nil, "", ErrInvalidCredentials
	}

	now := s.now().UTC()
	details.FailedAttempts = 0
	details.LastLogin = &now
	details.TokenCreatedAt = &now
	if details.Status == StatusPending {
		details.Status = StatusActive
	}
	if _, err := s.repo.UpdateAuthDetails(ctx, *details); err != nil {
		return nil, "", fmt.Errorf("record login: %w", err)
	}

	token, err := s.issueToken(user, now)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

func (s *Service) ensureDetails(ctx context.Context, userID uuid.UUID) (*AuthDetails, error) {
	details, err := s.repo.GetAuthDetails(ctx, userID)
	if err == nil {
		return details, nil
	}
	if !errors.Is(err, ErrAuthDetailsNotFound) {
		return nil, err
	}

	return s.repo.CreateAuthDetails(ctx, AuthDetails{
		UserID: userID,
		Status: StatusActive,
	})
}

func (s *Service) issueToken(user *User, now time.Time) (string, error) {
	claims := tokenClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyToken validates a bearer token and loads its user. Used by the API
// auth middleware; unknown users and bad signatures both map to
// ErrTokenInvalid.
func (s *Service) VerifyToken(ctx context.Context, tokenString string) (*User, error) {
	var claims tokenClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("load token user: %w", err)
	}

	return user, nil
}

// Register creates a user with a hashed password. Used by seeding and
// administrative provisioning, not exposed on the public surface.
func (s *Service) Register(ctx context.Context, email, name, password string, role Role) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateUser(ctx, User{
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
	})
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
