package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-creator-api/internal/middleware"
	"github.com/noah-isme/class-creator-api/internal/models"
	appErrors "github.com/noah-isme/class-creator-api/pkg/errors"
	"github.com/noah-isme/class-creator-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok || claims.Username == "" {
		return nil
	}
	return claims
}

// requireClaims writes a 401 when the route runs without an authenticated user.
func requireClaims(c *gin.Context) (*models.JWTClaims, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return claims, true
}
