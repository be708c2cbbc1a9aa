package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/garage-scheduler/internal/auth"
)

func TestPasswordHashAndCompare(t *testing.T) {
	hash, err := auth.HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	require.NoError(t, auth.ComparePassword(hash, "hunter2"))
	require.Error(t, auth.ComparePassword(hash, "wrong"))
}
