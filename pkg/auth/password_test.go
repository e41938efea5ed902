package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPassword("geheim")
	require.NoError(t, err)
	assert.NotEqual(t, "geheim", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, Cost, cost)

	assert.True(t, CheckPassword(hash, "geheim"))
	assert.False(t, CheckPassword(hash, "Geheim"))
	assert.False(t, CheckPassword("", "geheim"))
}

func TestHashesAreSalted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestTooLongPassword(t *testing.T) {
	_, err := HashPassword(strings.Repeat("x", 73))
	require.Error(t, err)
	assert.True(t, IsTooLong(err))
}
