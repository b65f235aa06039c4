package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret-key-at-least-32-chars!!", time.Hour)

	token, err := m.GenerateToken("user-123", "student")
	require.NoError(t, err)

	userID, role, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, "student", role)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret-key-at-least-32-chars!!", time.Hour)
	other := NewJWTManager("another-secret-key-that-is-different", time.Hour)

	token, err := m.GenerateToken("user-123", "student")
	require.NoError(t, err)

	_, _, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret-key-at-least-32-chars!!", -time.Minute)

	token, err := m.GenerateToken("user-123", "student")
	require.NoError(t, err)

	_, _, err = m.VerifyToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	m := NewJWTManager("test-secret-key-at-least-32-chars!!", time.Hour)
	_, _, err := m.VerifyToken("not.a.token")
	assert.Error(t, err)
}
