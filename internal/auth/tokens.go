package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/saan-system/hos-trip-service/internal/apperr"
)

// AccessClaims are the JWT claims carried by an access token: subject,
// email, issued-at, and expiry.
type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies access tokens and opaque refresh tokens.
type TokenIssuer struct {
	signingKey             []byte
	accessTokenTTL         time.Duration
	refreshTokenTTL        time.Duration
}

// NewTokenIssuer builds an issuer with the given HS256 signing key.
func NewTokenIssuer(signingKey string, accessTokenTTL, refreshTokenTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		signingKey:      []byte(signingKey),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// IssueAccessToken mints an HS256 access token for userID/email.
func (i *TokenIssuer) IssueAccessToken(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken parses and validates an access token, returning its
// claims.
func (i *TokenIssuer) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.signingKey, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Wrap(apperr.KindUnauthenticated, "invalid or expired access token", err)
	}
	return claims, nil
}

// rawRefreshToken is a 32-byte random token, base64url-encoded, handed to
// the client. Only its SHA-256 hash is ever persisted.
func newRawRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashRefreshToken returns the stored form of a raw refresh token.
func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// IssueRefreshToken generates a new raw refresh token and its hash,
// along with the expiry to persist alongside it.
func (i *TokenIssuer) IssueRefreshToken() (raw, hash string, expiresAt time.Time, err error) {
	raw, err = newRawRefreshToken()
	if err != nil {
		return "", "", time.Time{}, err
	}
	return raw, HashRefreshToken(raw), time.Now().Add(i.refreshTokenTTL), nil
}
