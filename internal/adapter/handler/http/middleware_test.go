package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
)

func newGatedEngine(t *testing.T) (*gin.Engine, *JWTTokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokenService := NewJWTTokenService("test-secret", "autopart-inventory", time.Hour, nopLogger{})

	engine := gin.New()
	adminOnly := engine.Group("/admin-only")
	adminOnly.Use(AuthMiddleware(tokenService), RequireRoles(domain.RoleAdmin))
	adminOnly.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })

	staffOrAdmin := engine.Group("/staff-or-admin")
	staffOrAdmin.Use(AuthMiddleware(tokenService), RequireRoles(domain.RoleStaff, domain.RoleAdmin))
	staffOrAdmin.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })

	return engine, tokenService
}

func doGet(engine *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingAndMalformedHeaders(t *testing.T) {
	engine, _ := newGatedEngine(t)

	assert.Equal(t, http.StatusUnauthorized, doGet(engine, "/admin-only", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, http.StatusUnauthorized, doGet(engine, "/admin-only", "garbage").Code)
}

func TestRoleGating(t *testing.T) {
	engine, tokenService := newGatedEngine(t)

	staff := &domain.User{ID: 1, Email: "staff@example.com", Roles: []domain.Role{{ID: 1, Name: domain.RoleStaff}}}
	staffToken, err := tokenService.CreateToken(staff)
	require.NoError(t, err)

	// Staff can reach the shared route but not the admin route.
	assert.Equal(t, http.StatusOK, doGet(engine, "/staff-or-admin", staffToken).Code)
	assert.Equal(t, http.StatusForbidden, doGet(engine, "/admin-only", staffToken).Code)

	// After promotion the same account passes the admin gate.
	staff.Roles = append(staff.Roles, domain.Role{ID: 2, Name: domain.RoleAdmin})
	adminToken, err := tokenService.CreateToken(staff)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doGet(engine, "/admin-only", adminToken).Code)

	// A user with no roles is rejected everywhere.
	nobody := &domain.User{ID: 2, Email: "nobody@example.com"}
	nobodyToken, err := tokenService.CreateToken(nobody)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doGet(engine, "/staff-or-admin", nobodyToken).Code)
}
