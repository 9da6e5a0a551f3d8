package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prodlens/backend/internal/domain"
)

// DefaultTokenTTL matches the session cookie lifetime.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Compile-time check
var _ domain.TokenManager = (*JWTManager)(nil)

// JWTConfig holds token signing parameters
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// JWTManager issues and verifies HS256 tokens carrying the user ID in an "id" claim.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type claims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a token manager. An empty secret is accepted; every
// Issue and Verify then fails with domain.ErrAuthNotConfigured.
func NewJWTManager(cfg JWTConfig) *JWTManager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	return &JWTManager{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    time.Now,
	}
}

// TTL returns the token lifetime
func (m *JWTManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for userID
func (m *JWTManager) Issue(userID string) (string, error) {
	if len(m.secret) == 0 {
		return "", domain.ErrAuthNotConfigured
	}

	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the user ID
func (m *JWTManager) Verify(tokenString string) (string, error) {
	if len(m.secret) == 0 {
		return "", domain.ErrAuthNotConfigured
	}

	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if c.ID == "" {
		return "", fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	return c.ID, nil
}
