package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/entity"
	"taskboard/internal/storage"
)

// ListAttachments returns the attachments of a task the caller can see.
func (h *HTTPHandler) ListAttachments(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	task, _ := h.loadTaskForView(c, ctx, c.Param("task_id"))
	if task == nil {
		return
	}

	attachments, err := h.repo.ListTaskAttachments(ctx, task.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to list attachments")
		InternalError(c, "failed to load attachments")
		return
	}

	c.JSON(http.StatusOK, entity.AttachmentListResponse{Attachments: attachments})
}

// UploadAttachment stores an uploaded file and records it against a task.
func (h *HTTPHandler) UploadAttachment(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		MissingField(c, "file")
		return
	}
	if h.cfg.MaxUploadBytes > 0 && fileHeader.Size > h.cfg.MaxUploadBytes {
		BadRequest(c, ErrCodeUploadTooLarge, fmt.Sprintf("file exceeds the %d byte limit", h.cfg.MaxUploadBytes))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	task, _ := h.loadTaskForView(c, ctx, c.Param("task_id"))
	if task == nil {
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("failed to open uploaded file")
		InternalError(c, "failed to store attachment")
		return
	}
	defer src.Close()

	var body io.Reader = src
	if h.cfg.MaxUploadBytes > 0 {
		body = io.LimitReader(src, h.cfg.MaxUploadBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		logrus.WithError(err).Error("failed to read uploaded file")
		InternalError(c, "failed to store attachment")
		return
	}
	if h.cfg.MaxUploadBytes > 0 && int64(len(data)) > h.cfg.MaxUploadBytes {
		BadRequest(c, ErrCodeUploadTooLarge, fmt.Sprintf("file exceeds the %d byte limit", h.cfg.MaxUploadBytes))
		return
	}

	fileName := filepath.Base(fileHeader.Filename)
	ext := strings.TrimPrefix(filepath.Ext(fileName), ".")
	key, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:  "attachments",
		Extension: ext,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to store attachment")
		InternalError(c, "failed to store attachment")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment := &entity.DbAttachment{
		ID:           uuid.NewString(),
		FileName:     fileName,
		ContentType:  contentType,
		SizeBytes:    int64(len(data)),
		StoragePath:  key,
		TaskID:       task.ID,
		UploadedByID: principal.UserID,
	}
	if err := h.repo.CreateAttachment(ctx, attachment); err != nil {
		logrus.WithError(err).Error("failed to record attachment")
		// Best effort: do not leave an orphaned object behind.
		if delErr := h.storage.Delete(ctx, key); delErr != nil {
			logrus.WithError(delErr).WithField("key", key).Warn("failed to remove orphaned object")
		}
		InternalError(c, "failed to store attachment")
		return
	}

	h.appendAudit(c, entity.AuditActionUpload, entity.AuditEntityAttachment, attachment.ID, entity.JSONMap{"task_id": task.ID, "file_name": fileName})

	c.JSON(http.StatusCreated, attachment)
}

// DownloadAttachment streams an attachment's bytes back to the caller.
func (h *HTTPHandler) DownloadAttachment(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	attachment := h.loadAttachmentForView(c, ctx, c.Param("id"))
	if attachment == nil {
		return
	}

	reader, err := h.storage.Open(ctx, attachment.StoragePath)
	if err != nil {
		logrus.WithError(err).WithField("attachment_id", attachment.ID).Error("failed to open stored object")
		InternalError(c, "failed to read attachment")
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	c.Header("Content-Type", attachment.ContentType)
	if attachment.SizeBytes > 0 {
		c.Header("Content-Length", fmt.Sprintf("%d", attachment.SizeBytes))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		logrus.WithError(err).WithField("attachment_id", attachment.ID).Warn("attachment stream interrupted")
	}
}

// DeleteAttachment removes an attachment record and its stored bytes.
// Uploader, or an administrator.
func (h *HTTPHandler) DeleteAttachment(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	attachment, err := h.repo.GetAttachment(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeAttachmentNotFound, "attachment not found")
			return
		}
		logrus.WithError(err).Error("failed to load attachment")
		InternalError(c, "failed to delete attachment")
		return
	}
	if !auth.CanDeleteAttachment(*principal, attachment) {
		Forbidden(c, "only the uploader can delete it")
		return
	}

	if err := h.repo.DeleteAttachment(ctx, attachment.ID); err != nil {
		logrus.WithError(err).Error("failed to delete attachment")
		InternalError(c, "failed to delete attachment")
		return
	}
	if err := h.storage.Delete(ctx, attachment.StoragePath); err != nil {
		logrus.WithError(err).WithField("attachment_id", attachment.ID).Warn("failed to remove stored object")
	}

	h.appendAudit(c, entity.AuditActionDelete, entity.AuditEntityAttachment, attachment.ID, entity.JSONMap{"task_id": attachment.TaskID})

	c.Status(http.StatusNoContent)
}

// loadAttachmentForView fetches an attachment and applies the owning task's
// read rule, answering the request itself on failure.
func (h *HTTPHandler) loadAttachmentForView(c *gin.Context, ctx context.Context, id string) *entity.DbAttachment {
	attachment, err := h.repo.GetAttachment(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeAttachmentNotFound, "attachment not found")
			return nil
		}
		logrus.WithError(err).Error("failed to load attachment")
		InternalError(c, "failed to load attachment")
		return nil
	}
	if task, _ := h.loadTaskForView(c, ctx, attachment.TaskID); task == nil {
		return nil
	}
	return attachment
}
