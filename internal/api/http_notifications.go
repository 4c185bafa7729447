package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskboard/internal/entity"
)

// ListNotifications returns the caller's notifications, newest first,
// together with the unread count.
func (h *HTTPHandler) ListNotifications(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var query entity.NotificationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	notifications, meta, err := h.repo.ListNotifications(ctx, principal.UserID, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list notifications")
		InternalError(c, "failed to load notifications")
		return
	}

	unread, err := h.repo.CountUnreadNotifications(ctx, principal.UserID)
	if err != nil {
		logrus.WithError(err).Warn("failed to count unread notifications")
	}

	c.JSON(http.StatusOK, entity.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
		Meta:          meta,
	})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func (h *HTTPHandler) MarkNotificationRead(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	notification, err := h.repo.GetNotification(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeNotificationNotFound, "notification not found")
			return
		}
		logrus.WithError(err).Error("failed to load notification")
		InternalError(c, "failed to update notification")
		return
	}
	if notification.UserID != principal.UserID {
		// Do not reveal other users' notification ids.
		NotFound(c, ErrCodeNotificationNotFound, "notification not found")
		return
	}

	if !notification.IsRead {
		read := true
		now := time.Now()
		updates := entity.NotificationUpdates{IsRead: &read, ReadAt: &now}
		if err := h.repo.UpdateNotification(ctx, notification.ID, updates); err != nil {
			logrus.WithError(err).Error("failed to mark notification read")
			InternalError(c, "failed to update notification")
			return
		}
		notification.IsRead = true
		notification.ReadAt = &now
	}

	c.JSON(http.StatusOK, notification)
}

// MarkAllNotificationsRead marks every unread notification of the caller as
// read.
func (h *HTTPHandler) MarkAllNotificationsRead(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.MarkAllNotificationsRead(ctx, principal.UserID); err != nil {
		logrus.WithError(err).Error("failed to mark notifications read")
		InternalError(c, "failed to update notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read"})
}
