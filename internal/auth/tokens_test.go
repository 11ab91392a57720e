package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nortonjulian/messagely/internal/auth"
)

func TestMintVerifyRoundTrip(t *testing.T) {
	m := auth.NewTokenManager("secret", time.Hour)
	token, err := m.Mint("alice")
	require.NoError(t, err)

	username, err := m.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", username)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := auth.NewTokenManager("secret-a", time.Hour).Mint("alice")
	require.NoError(t, err)

	_, err = auth.NewTokenManager("secret-b", time.Hour).Verify(token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	m := auth.NewTokenManager("secret", -time.Minute)
	token, err := m.Mint("alice")
	require.NoError(t, err)

	_, err = m.Verify(token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	m := auth.NewTokenManager("secret", time.Hour)
	_, err := m.Verify("not-a-token")
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, auth.CheckPassword(hash, "hunter2hunter2"))
	require.Error(t, auth.CheckPassword(hash, "wrong"))
}
