package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, VerifyPassword(hash, "secret123"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestHashPassword_CostOutOfRangeFallsBack(t *testing.T) {
	hash, err := HashPassword("secret123", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("abc"), ErrWeakPassword)
	assert.NoError(t, ValidatePassword("abcdef"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
}
