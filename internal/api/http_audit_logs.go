package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskboard/internal/entity"
)

// ListAuditLogs returns audit entries, newest first. Route is gated on
// read:audit_logs.
func (h *HTTPHandler) ListAuditLogs(c *gin.Context) {
	var query entity.AuditLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	logs, meta, err := h.repo.ListAuditLogs(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list audit logs")
		InternalError(c, "failed to load audit logs")
		return
	}

	c.JSON(http.StatusOK, entity.AuditLogListResponse{Logs: logs, Meta: meta})
}
