package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("worker-1", RoleWorker, "w@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "worker-1", claims.Subject)
	assert.Equal(t, RoleWorker, claims.Role)
	assert.Equal(t, "w@example.com", claims.Email)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("user-1", RoleUser, "u@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	token, err := GenerateToken("user-1", RoleUser, "u@example.com", time.Hour)
	require.NoError(t, err)

	old := secretKey
	t.Cleanup(func() { secretKey = old })
	SetJWTSecret("another-secret")

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestHashTokenIsStable(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
