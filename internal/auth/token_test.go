package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
)

func TestManager_GenerateVerifyRoundTrip(t *testing.T) {
	mgr, err := NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	signed, exp, err := mgr.Generate("user-123", models.RoleOwner)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := mgr.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, string(models.RoleOwner), claims.Role)
}

func TestManager_RejectsExpiredToken(t *testing.T) {
	mgr, err := NewManager("test-secret", -time.Minute)
	require.NoError(t, err)

	signed, _, err := mgr.Generate("user-123", models.RoleUser)
	require.NoError(t, err)

	_, err = mgr.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestManager_RejectsWrongSecret(t *testing.T) {
	signer, err := NewManager("secret-a", time.Hour)
	require.NoError(t, err)
	verifier, err := NewManager("secret-b", time.Hour)
	require.NoError(t, err)

	signed, _, err := signer.Generate("user-123", models.RoleUser)
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsGarbage(t *testing.T) {
	mgr, err := NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = mgr.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManager_RequiresSecret(t *testing.T) {
	_, err := NewManager("", time.Hour)
	assert.Error(t, err)
}
