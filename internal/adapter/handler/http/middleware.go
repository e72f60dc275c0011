package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"
)

// AuthMiddleware validates the Bearer token and stores its payload in the
// request context for downstream handlers.
func AuthMiddleware(tokenService ports.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			newErrorResponse(c, http.StatusUnauthorized, "authorization header is missing")
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
			newErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		payload, err := tokenService.VerifyToken(fields[1])
		if err != nil {
			newErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(authorizationPayloadKey, payload)
		c.Next()
	}
}

// RequireRoles rejects the request unless the token payload carries at least
// one of the given roles. Must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, exists := getAuthPayload(c, authorizationPayloadKey)
		if !exists {
			newErrorResponse(c, http.StatusUnauthorized, "authorization payload is missing")
			return
		}

		for _, role := range roles {
			if payload.HasRole(role) {
				c.Next()
				return
			}
		}

		newErrorResponse(c, http.StatusForbidden, "insufficient permissions")
	}
}
