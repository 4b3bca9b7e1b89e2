package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/saan-system/hos-trip-service/internal/apperr"
)

// Session is what a successful register/login/refresh returns to the
// caller: a short-lived access token plus a refresh token rotated on use.
type Session struct {
	UserID       uuid.UUID
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Service implements register/login/refresh/logout.
type Service struct {
	users         UserRepository
	refreshTokens RefreshTokenRepository
	issuer        *TokenIssuer
	bcryptCost    int
}

// NewService builds an auth Service.
func NewService(users UserRepository, refreshTokens RefreshTokenRepository, issuer *TokenIssuer, bcryptCost int) *Service {
	return &Service{users: users, refreshTokens: refreshTokens, issuer: issuer, bcryptCost: bcryptCost}
}

// Register creates a new user with a bcrypt-hashed password and returns
// a fresh session. Fails with a conflict if the email is already taken.
func (s *Service) Register(ctx context.Context, email, password string) (*Session, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperr.New(apperr.KindConflict, "email is already registered").
			WithDetails(map[string]any{"field": "email"})
	} else if err != ErrUserNotFound {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to check existing user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create user", err)
	}

	return s.issueSession(ctx, user)
}

// Login verifies credentials and returns a fresh session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperr.New(apperr.KindUnauthenticated, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.New(apperr.KindUnauthenticated, "invalid email or password")
	}

	return s.issueSession(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// new access/refresh pair is issued.
func (s *Service) Refresh(ctx context.Context, rawRefreshToken string) (*Session, error) {
	hash := HashRefreshToken(rawRefreshToken)
	stored, err := s.refreshTokens.GetByHash(ctx, hash)
	if err != nil {
		return nil, apperr.New(apperr.KindUnauthenticated, "invalid refresh token")
	}
	if stored.RevokedAt != nil || time.Now().After(stored.ExpiresAt) {
		return nil, apperr.New(apperr.KindUnauthenticated, "refresh token has been revoked or expired")
	}

	if err := s.refreshTokens.Revoke(ctx, stored.ID); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to revoke refresh token", err)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, apperr.New(apperr.KindUnauthenticated, "user no longer exists")
	}

	return s.issueSession(ctx, user)
}

// Logout revokes a refresh token without issuing a replacement.
func (s *Service) Logout(ctx context.Context, rawRefreshToken string) error {
	hash := HashRefreshToken(rawRefreshToken)
	stored, err := s.refreshTokens.GetByHash(ctx, hash)
	if err != nil {
		return nil // already gone; logout is idempotent
	}
	if stored.RevokedAt != nil {
		return nil
	}
	if err := s.refreshTokens.Revoke(ctx, stored.ID); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to revoke refresh token", err)
	}
	return nil
}

func (s *Service) issueSession(ctx context.Context, user *User) (*Session, error) {
	accessToken, err := s.issuer.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to issue access token", err)
	}

	rawRefresh, hash, expiresAt, err := s.issuer.IssueRefreshToken()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to issue refresh token", err)
	}

	if err := s.refreshTokens.Create(ctx, &RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to persist refresh token", err)
	}

	return &Session{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		ExpiresAt:    expiresAt,
	}, nil
}
