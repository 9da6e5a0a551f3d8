package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/prodlens/backend/internal/domain"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager(JWTConfig{Secret: "secret"})
	assert.Equal(t, DefaultTokenTTL, m.TTL())

	token, err := m.Issue("user-1")
	require.NoError(t, err)

	id, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, err := NewJWTManager(JWTConfig{Secret: "a"}).Issue("user-1")
	require.NoError(t, err)

	_, err = NewJWTManager(JWTConfig{Secret: "b"}).Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager(JWTConfig{Secret: "secret", TTL: time.Hour})
	issued := time.Now()
	m.now = func() time.Time { return issued }

	token, err := m.Issue("user-1")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestJWTManager_Garbage(t *testing.T) {
	m := NewJWTManager(JWTConfig{Secret: "secret"})
	_, err := m.Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestJWTManager_NoSecret(t *testing.T) {
	m := NewJWTManager(JWTConfig{})

	_, err := m.Issue("user-1")
	assert.ErrorIs(t, err, domain.ErrAuthNotConfigured)

	_, err = m.Verify("anything")
	assert.ErrorIs(t, err, domain.ErrAuthNotConfigured)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, h.Compare(hash, "hunter22"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), domain.ErrInvalidCredentials)
	assert.ErrorIs(t, h.Compare("not-a-hash", "hunter22"), domain.ErrInvalidCredentials)
}
