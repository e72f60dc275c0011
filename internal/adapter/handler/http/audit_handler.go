package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ybenkirane/autopart_inventory_system/internal/core/ports"
)

type AuditHandler struct {
	auditLog ports.AuditLogPort
	logger   ports.LoggerPort
	metrics  ports.MetricsPort
}

func NewAuditHandler(
	auditLog ports.AuditLogPort,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *AuditHandler {
	return &AuditHandler{
		auditLog: auditLog,
		logger:   logger,
		metrics:  metrics,
	}
}

// @Summary List audit entries for an entity
// @Description Returns the entity's change history in chronological order
// @Tags logs
// @Security BearerAuth
// @Produce json
// @Param entityType path string true "Entity type" Enums(AutoPart, Brand, Category, User, Vehicle)
// @Param id path int true "Entity ID"
// @Success 200 {object} successResponse "Entries found"
// @Failure 400 {object} errorResponse "Invalid request"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Access denied"
// @Router /api/logs/{entityType}/{id} [get]
func (h *AuditHandler) ListByEntity(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	entityType := c.Param("entityType")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid entity ID")
		return
	}

	entries, err := h.auditLog.ListByEntity(c.Request.Context(), entityType, id)
	if err != nil {
		h.logger.Error("Failed to list audit entries", map[string]interface{}{
			"error":       err.Error(),
			"entity_type": entityType,
			"entity_id":   id,
		})
		newErrorResponse(c, http.StatusInternalServerError, "Failed to list audit entries")
		return
	}

	newSuccessResponse(c, http.StatusOK, "Audit entries found", entries)
}
