package authgate_test

import (
	"testing"

	authgate "github.com/goliatone/go-auth-gate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := authgate.HashPassword("s3cret-password")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.NoError(t, authgate.ComparePasswordAndHash("s3cret-password", hash))

	err = authgate.ComparePasswordAndHash("wrong-password", hash)
	require.Error(t, err)
	assert.ErrorIs(t, err, authgate.ErrMismatchedHashAndPassword)
}

func TestHashPasswordRejectsEmptyInput(t *testing.T) {
	_, err := authgate.HashPassword("")
	assert.ErrorIs(t, err, authgate.ErrNoEmptyString)
}

func TestHashesAreSalted(t *testing.T) {
	first, err := authgate.HashPassword("same-password")
	require.NoError(t, err)
	second, err := authgate.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
