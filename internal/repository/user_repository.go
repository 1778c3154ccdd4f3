package repository

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/class-creator-api/internal/models"
)

// UserCredential is a configured login before its password is hashed.
type UserCredential struct {
	Username string
	Password string
	Role     string
}

// UserRepository serves the static login table. Passwords are hashed once
// at construction and the plain values are dropped.
type UserRepository struct {
	users map[string]models.User
}

// NewUserRepository hashes creds and indexes them by lower-cased username.
func NewUserRepository(creds []UserCredential) (*UserRepository, error) {
	users := make(map[string]models.User, len(creds))
	for _, cred := range creds {
		username := strings.TrimSpace(cred.Username)
		if username == "" {
			return nil, fmt.Errorf("user entry with empty username")
		}
		role, ok := models.ParseUserRole(cred.Role)
		if !ok {
			return nil, fmt.Errorf("user %s: unknown role %q", username, cred.Role)
		}
		key := strings.ToLower(username)
		if _, exists := users[key]; exists {
			return nil, fmt.Errorf("user %s: %w", username, ErrDuplicate)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", username, err)
		}
		users[key] = models.User{Username: username, PasswordHash: string(hash), Role: role}
	}
	return &UserRepository{users: users}, nil
}

// FindByUsername returns the account or ErrNotFound. Lookups ignore case.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := r.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// Count returns the number of configured accounts.
func (r *UserRepository) Count() int {
	return len(r.users)
}
