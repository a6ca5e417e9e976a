package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordAndVerify(t *testing.T) {
	hash, err := HashPassword("pw123456", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "pw123456")

	assert.True(t, VerifyPassword(hash, "pw123456"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("pw123456", 10)
	require.NoError(t, err)
	h2, err := HashPassword("pw123456", 10)
	require.NoError(t, err)

	// bcrypt embeds a random salt, so equal inputs must not collide.
	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, "pw123456"))
	assert.True(t, VerifyPassword(h2, "pw123456"))
}

func TestHashPasswordRaisesWeakCost(t *testing.T) {
	hash, err := HashPassword("pw123456", 4)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "pw123456"))
}
