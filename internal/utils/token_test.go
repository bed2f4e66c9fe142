package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.Issue(&models.User{ID: 42, Role: models.RoleAdmin})
	require.NoError(t, err)

	userID, role, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestTokenIssuer_RejectsForeignSecret(t *testing.T) {
	token, err := NewTokenIssuer("one", time.Hour).Issue(&models.User{ID: 1, Role: models.RoleMember})
	require.NoError(t, err)

	_, _, err = NewTokenIssuer("two", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", -time.Minute)

	token, err := issuer.Issue(&models.User{ID: 1, Role: models.RoleMember})
	require.NoError(t, err)

	_, _, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	_, _, err := NewTokenIssuer("secret", time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
