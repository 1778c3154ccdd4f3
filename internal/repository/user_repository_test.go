package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/class-creator-api/internal/models"
)

func TestUserRepositoryHashesAndFinds(t *testing.T) {
	repo, err := NewUserRepository([]UserCredential{
		{Username: "admin", Password: "admin123", Role: "admin"},
		{Username: "User", Password: "b3N3rdY!", Role: "Requester"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Count())

	user, err := repo.FindByUsername(context.Background(), "user")
	require.NoError(t, err)
	assert.Equal(t, "User", user.Username)
	assert.Equal(t, models.RoleRequester, user.Role)
	assert.NotEqual(t, "b3N3rdY!", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("b3N3rdY!")))

	_, err = repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryRejectsBadEntries(t *testing.T) {
	_, err := NewUserRepository([]UserCredential{{Username: "x", Password: "y", Role: "root"}})
	assert.Error(t, err)

	_, err = NewUserRepository([]UserCredential{
		{Username: "a", Password: "1", Role: "admin"},
		{Username: "A", Password: "2", Role: "admin"},
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}
