// Package jwt implements stateless session tokens signed with HMAC-SHA256.
// Validity is determined solely by signature and expiry; nothing is stored
// server-side.
package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/bissquit/store-ratings/internal/domain"
	"github.com/bissquit/store-ratings/internal/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config contains token signing configuration.
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
}

// Authenticator implements identity.Authenticator using JWT.
type Authenticator struct {
	config Config
}

// NewAuthenticator creates a new JWT authenticator.
func NewAuthenticator(cfg Config) *Authenticator {
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = time.Hour
	}
	return &Authenticator{config: cfg}
}

// Claims carries identity and role inside the token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed token embedding user ID and role.
func (a *Authenticator) GenerateToken(_ context.Context, user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.config.TokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.config.SecretKey))
}

// ValidateToken verifies signature and expiry and returns the embedded
// identity. Expired and otherwise invalid tokens map to distinct errors.
func (a *Authenticator) ValidateToken(_ context.Context, tokenString string) (string, domain.Role, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, identity.ErrInvalidToken
		}
		return []byte(a.config.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", identity.ErrExpiredToken
		}
		return "", "", identity.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", identity.ErrInvalidToken
	}

	role := domain.Role(claims.Role)
	if claims.Subject == "" || !role.IsValid() {
		return "", "", identity.ErrInvalidToken
	}

	return claims.Subject, role, nil
}
