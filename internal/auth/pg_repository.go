package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanUser(row pgx.Row) (*User, error) {
	var u User

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.Role,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

func scanAuthDetails(row pgx.Row) (*AuthDetails, error) {
	var d AuthDetails

	err := row.Scan(
		&d.UserID,
		&d.LastLogin,
		&d.TokenCreatedAt,
		&d.Status,
		&d.FailedAttempts,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAuthDetailsNotFound
		}
		return nil, err
	}

	return &d, nil
}

const userColumns = "id, email, name, role, password_hash, created_at, updated_at"
const authDetailColumns = "user_id, last_login, token_created_at, account_status, failed_login_attempts"

func (r *PgRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func (r *PgRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *PgRepository) CreateUser(ctx context.Context, user User) (*User, error) {
	id := user.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, name, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING `+userColumns+`
	`, id, user.Email, user.Name, user.Role, user.PasswordHash)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) GetAuthDetails(ctx context.Context, userID uuid.UUID) (*AuthDetails, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+authDetailColumns+`
		FROM user_auth_details
		WHERE user_id = $1
	`, userID)
	return scanAuthDetails(row)
}

func (r *PgRepository) CreateAuthDetails(ctx context.Context, details AuthDetails) (*AuthDetails, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_auth_details (user_id, last_login, token_created_at, account_status, failed_login_attempts)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+authDetailColumns+`
	`, details.UserID, details.LastLogin, details.TokenCreatedAt, details.Status, details.FailedAttempts)
	return scanAuthDetails(row)
}

func (r *PgRepository) UpdateAuthDetails(ctx context.Context, details AuthDetails) (*AuthDetails, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE user_auth_details
		SET last_login = $2,
		    token_created_at = $3,
		    account_status = $4,
		    failed_login_attempts = $5
		WHERE user_id = $1
		RETURNING `+authDetailColumns+`
	`, details.UserID, details.LastLogin, details.TokenCreatedAt, details.Status, details.FailedAttempts)
	return scanAuthDetails(row)
}
