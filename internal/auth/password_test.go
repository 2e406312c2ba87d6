package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pass1234")
	require.NoError(t, err)

	assert.True(t, CheckPassword("pass1234", hash))
	assert.False(t, CheckPassword("pass12345", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestHashPassword_NeverStoresPlaintext(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pass1234")
	require.NoError(t, err)

	assert.NotContains(t, hash, "pass1234")
	assert.True(t, strings.HasPrefix(hash, "$2"), "expected a bcrypt hash, got %q", hash)
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("pass1234")
	require.NoError(t, err)
	h2, err := HashPassword("pass1234")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword("pass1234", h1))
	assert.True(t, CheckPassword("pass1234", h2))
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPassword("pass1234", "not-a-hash"))
}
