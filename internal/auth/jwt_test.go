package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokens_GenerateAndValidate(t *testing.T) {
	tokens := NewTokens("test-secret")

	tokenString, err := tokens.Generate("admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := tokens.Validate(tokenString)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Username)
}

func TestTokens_RejectsWrongSecret(t *testing.T) {
	tokenString, err := NewTokens("secret-a").Generate("admin")
	require.NoError(t, err)

	_, err = NewTokens("secret-b").Validate(tokenString)
	require.Error(t, err)
}

func TestTokens_RejectsGarbage(t *testing.T) {
	_, err := NewTokens("secret").Validate("not.a.token")
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	require.True(t, CheckPassword(hash, "hunter2"))
	require.False(t, CheckPassword(hash, "hunter3"))
}
