package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(42, secret, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := GetUserIDFromToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
}

func TestParseTokenWrongKey(t *testing.T) {
	token, err := GenerateToken(42, []byte("key-one"), time.Minute)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(token, []byte("key-two"))
	require.Error(t, err)
}

func TestParseExpiredToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(42, secret, -time.Minute)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(token, secret)
	require.Error(t, err)
}

func TestParseGarbageToken(t *testing.T) {
	_, err := GetUserIDFromToken("not.a.token", []byte("test-secret"))
	require.Error(t, err)
}
