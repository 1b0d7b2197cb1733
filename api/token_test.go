package api

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pressmark-io/blog-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := newTokenManager("secret", time.Hour)
	user := models.User{ID: uuid.New()}

	token, err := manager.Issue(user)
	require.NoError(t, err)

	caller, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, caller.ID)
	assert.Equal(t, models.RoleUser, caller.Role)
}

func TestTokenCarriesAdminRole(t *testing.T) {
	manager := newTokenManager("secret", time.Hour)

	token, err := manager.Issue(models.User{ID: uuid.New(), IsAdmin: true})
	require.NoError(t, err)

	caller, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, caller.Role)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := newTokenManager("secret", time.Hour).Issue(models.User{ID: uuid.New()})
	require.NoError(t, err)

	caller, parseErr := newTokenManager("other", time.Hour).Parse(token)
	assert.Error(t, parseErr)
	assert.Equal(t, models.Anonymous(), caller)
}

func TestTokenRejectsExpired(t *testing.T) {
	manager := newTokenManager("secret", -time.Minute)

	token, err := manager.Issue(models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = manager.Parse(token)
	assert.Error(t, err)
}
