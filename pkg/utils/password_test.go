package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.True(t, CheckPassword(hash, "correct horse battery staple"))
	require.False(t, CheckPassword(hash, "correct horse battery stapl"))
	require.False(t, CheckPassword(hash, ""))
}

func TestHashPasswordSalts(t *testing.T) {
	first, err := HashPassword("samepassword", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("samepassword", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestHashPasswordCostFallback(t *testing.T) {
	hash, err := HashPassword("whatever-pass", -1)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, cost)
}
