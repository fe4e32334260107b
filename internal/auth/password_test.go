package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("Str0ng!Passw0rd123")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!Passw0rd123", hash)

	ok, err := CheckPassword(hash, "Str0ng!Passw0rd123")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!Passw0rd123")
	require.NoError(t, err)

	for _, candidate := range []string{"", "str0ng!passw0rd123", "Str0ng!Passw0rd12", "Str0ng!Passw0rd123 "} {
		ok, err := CheckPassword(hash, candidate)
		require.NoError(t, err, "a plain mismatch is not an error")
		assert.False(t, ok, "candidate %q must not verify", candidate)
	}
}

// A corrupted stored hash is an integrity failure, not a wrong password. The
// compare must return an error instead of false.
func TestCheckPassword_CorruptedHash(t *testing.T) {
	ok, err := CheckPassword("not-a-bcrypt-hash", "Str0ng!Passw0rd123")
	assert.False(t, ok)
	require.Error(t, err)
}
