package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/aau-dhms/dhms-api/internal/models"
)

func buildRBACRouter(roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if role := c.GetHeader("X-Test-Role"); role != "" {
			c.Set(ContextUserKey, &models.JWTClaims{
				UserID: "user-1",
				Role:   models.UserRole(role),
			})
		}
		c.Next()
	})
	router.GET("/protected", RequireRoles(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func performRBAC(t *testing.T, router *gin.Engine, role string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "/protected", nil)
	require.NoError(t, err)
	if role != "" {
		req.Header.Set("X-Test-Role", role)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	router := buildRBACRouter(models.RoleStudent)
	resp := performRBAC(t, router, string(models.RoleStudent))
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestRequireRolesRejectsOtherRole(t *testing.T) {
	router := buildRBACRouter(models.RoleStudent)
	resp := performRBAC(t, router, string(models.RoleSecurity))
	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestRequireRolesAdminBypass(t *testing.T) {
	router := buildRBACRouter(models.RoleStudent)
	resp := performRBAC(t, router, string(models.RoleAdmin))
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestRequireRolesMissingClaims(t *testing.T) {
	router := buildRBACRouter(models.RoleStudent)
	resp := performRBAC(t, router, "")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRequireRolesMultipleRoles(t *testing.T) {
	router := buildRBACRouter(models.RoleProctor, models.RoleStaff)
	require.Equal(t, http.StatusOK, performRBAC(t, router, string(models.RoleProctor)).Code)
	require.Equal(t, http.StatusOK, performRBAC(t, router, string(models.RoleStaff)).Code)
	require.Equal(t, http.StatusForbidden, performRBAC(t, router, string(models.RoleStudent)).Code)
}
