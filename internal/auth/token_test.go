package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/garage-scheduler/internal/auth"
	"github.com/spec-kit/garage-scheduler/internal/domain"
)

func sampleUser() *domain.User {
	return &domain.User{
		ID:    "11111111-1111-1111-1111-111111111111",
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  domain.RoleCustomer,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour)

	token, expiresAt, err := tm.GenerateToken(sampleUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", claims.UserID)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-a", time.Hour)
	verifier := auth.NewTokenManager("secret-b", time.Hour)

	token, _, err := issuer.GenerateToken(sampleUser())
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	require.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Millisecond)

	token, _, err := tm.GenerateToken(sampleUser())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = tm.ParseToken(token)
	require.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour)

	_, err := tm.ParseToken("not-a-token")
	require.Error(t, err)
}

func TestTTLDefaultsTo24Hours(t *testing.T) {
	tm := auth.NewTokenManager("secret", 0)
	assert.Equal(t, 24*time.Hour, tm.TTL())

	tm = auth.NewTokenManager("secret", 2*time.Hour)
	assert.Equal(t, 2*time.Hour, tm.TTL())
}
