// Package auth implements register/login/refresh/logout with short-lived
// access tokens and rotating, blacklist-able refresh tokens, built as a
// self-contained issuer instead of a call-out to an external service.
package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered API caller. Each Trip is associated with exactly
// one owning User.
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// RefreshToken is one issued refresh token, stored hashed. Rotated on
// every use: the old row's RevokedAt is set and a new row inserted.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
}
