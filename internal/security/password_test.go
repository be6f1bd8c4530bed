package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "pw123456", hash)

	assert.NoError(t, CheckPassword(hash, "pw123456"))
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)

	assert.Error(t, CheckPassword(hash, "pw1234567"))
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)

	// random salt per hash
	assert.NotEqual(t, h1, h2)
}
