package utils

import (
	"testing"
	"time"

	"bookfair/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.GenerateToken(models.VendorActor("v-1"))
	require.NoError(t, err)

	actor, err := m.ParseActor(token)
	require.NoError(t, err)
	assert.Equal(t, models.VendorActor("v-1"), actor)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	token, err := NewTokenManager("one", time.Hour).GenerateToken(models.StaffActor("s-1"))
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).ParseActor(token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", -time.Minute)
	token, err := m.GenerateToken(models.StaffActor("s-1"))
	require.NoError(t, err)

	_, err = m.ParseActor(token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
