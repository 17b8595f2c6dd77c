package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	m := NewJWTManager("secret", 1, 7)

	tokenString, err := m.GenerateToken(42, "claudine")
	require.NoError(t, err)

	claims, err := m.VerifyToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "claudine", claims.Username)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("secret", 1, 7)
	other := NewJWTManager("different", 1, 7)

	tokenString, err := m.GenerateToken(1, "u")
	require.NoError(t, err)

	_, err = other.VerifyToken(tokenString)
	assert.Error(t, err)
}

func TestGenerateRandomStringLength(t *testing.T) {
	s := GenerateRandomString(8)
	assert.Len(t, s, 16) // hex encoding doubles the byte count
	assert.NotEqual(t, s, GenerateRandomString(8))
}
