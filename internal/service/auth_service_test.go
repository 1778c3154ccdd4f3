package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-creator-api/internal/models"
	"github.com/noah-isme/class-creator-api/internal/repository"
	appErrors "github.com/noah-isme/class-creator-api/pkg/errors"
)

func newAuthServiceForTest(t *testing.T, expiry time.Duration) *AuthService {
	t.Helper()
	repo, err := repository.NewUserRepository([]repository.UserCredential{
		{Username: "admin", Password: "admin123", Role: "admin"},
		{Username: "user", Password: "b3N3rdY!", Role: "requester"},
	})
	require.NoError(t, err)
	return NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: expiry, Issuer: "class-creator"})
}

func TestAuthServiceLoginIssuesSessionToken(t *testing.T) {
	svc := newAuthServiceForTest(t, 0)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Zero(t, res.ExpiresIn)
	assert.Equal(t, models.RoleAdmin, res.User.Role)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Nil(t, claims.ExpiresAt)
	assert.Equal(t, "class-creator", claims.Issuer)
}

func TestAuthServiceLoginWithExpiry(t *testing.T) {
	svc := newAuthServiceForTest(t, time.Hour)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "user", Password: "b3N3rdY!"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, models.RoleRequester, claims.Role)
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthServiceForTest(t, 0)
	ctx := context.Background()

	_, err := svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "wrong"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(ctx, models.LoginRequest{Username: "ghost", Password: "admin123"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(ctx, models.LoginRequest{Username: "admin"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceValidateTokenRejects(t *testing.T) {
	svc := newAuthServiceForTest(t, 0)

	_, err := svc.ValidateToken("not-a-token")
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		Username: "admin",
		Role:     models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{Username: "admin", Role: models.RoleAdmin})
	signed, err = foreign.SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}
