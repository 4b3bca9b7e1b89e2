package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/saan-system/hos-trip-service/internal/auth"
)

// Schema:
//
//	CREATE TABLE users (
//	    id            uuid PRIMARY KEY,
//	    email         text UNIQUE NOT NULL,
//	    password_hash text NOT NULL,
//	    created_at    timestamptz NOT NULL
//	);
//	CREATE TABLE refresh_tokens (
//	    id         uuid PRIMARY KEY,
//	    user_id    uuid NOT NULL REFERENCES users(id) ON DELETE CASCADE,
//	    token_hash text UNIQUE NOT NULL,
//	    expires_at timestamptz NOT NULL,
//	    revoked_at timestamptz
//	);

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a Postgres-backed auth.UserRepository.
func NewUserRepository(db *sqlx.DB) auth.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *auth.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	var u auth.User
	err := r.db.QueryRowxContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	var u auth.User
	err := r.db.QueryRowxContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user by id: %w", err)
	}
	return &u, nil
}

type refreshTokenRepository struct {
	db *sqlx.DB
}

// NewRefreshTokenRepository creates a Postgres-backed
// auth.RefreshTokenRepository.
func NewRefreshTokenRepository(db *sqlx.DB) auth.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, t *auth.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.UserID, t.TokenHash, t.ExpiresAt, t.RevokedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	var t auth.RefreshToken
	err := r.db.QueryRowxContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, revoked_at
		FROM refresh_tokens WHERE token_hash = $1`, tokenHash).
		Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.RevokedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to query refresh token: %w", err)
	}
	return &t, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens SET revoked_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
