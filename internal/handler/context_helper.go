package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/aau-dhms/dhms-api/internal/middleware"
	"github.com/aau-dhms/dhms-api/internal/models"
)

// claimsFromContext pulls the JWT claims the auth middleware stored with the
// request. Nil means the route ran without authentication.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
