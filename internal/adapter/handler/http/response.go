package http

import (
	"github.com/gin-gonic/gin"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/domain"
)

const authorizationPayloadKey = "authorization_payload"

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func newErrorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message})
}

func newSuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, successResponse{Message: message, Data: data})
}

// getAuthPayload returns the token payload stored by AuthMiddleware under key.
func getAuthPayload(c *gin.Context, key string) (*domain.TokenPayload, bool) {
	value, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	payload, ok := value.(*domain.TokenPayload)
	return payload, ok
}
