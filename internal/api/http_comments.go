package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/entity"
)

// ListComments returns the comments on a task the caller can see.
func (h *HTTPHandler) ListComments(c *gin.Context) {
	var query entity.CommentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)
	query.TaskID = c.Param("task_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	task, _ := h.loadTaskForView(c, ctx, query.TaskID)
	if task == nil {
		return
	}

	comments, meta, err := h.repo.ListComments(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list comments")
		InternalError(c, "failed to load comments")
		return
	}

	c.JSON(http.StatusOK, entity.CommentListResponse{Comments: comments, Meta: meta})
}

// CreateComment adds a comment to a task the caller can see.
func (h *HTTPHandler) CreateComment(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		MissingField(c, "content")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	task, _ := h.loadTaskForView(c, ctx, c.Param("task_id"))
	if task == nil {
		return
	}

	comment := &entity.DbComment{
		ID:       uuid.NewString(),
		Content:  content,
		TaskID:   task.ID,
		AuthorID: principal.UserID,
	}
	if err := h.repo.CreateComment(ctx, comment); err != nil {
		logrus.WithError(err).Error("failed to create comment")
		InternalError(c, "failed to create comment")
		return
	}

	h.appendAudit(c, entity.AuditActionCreate, entity.AuditEntityComment, comment.ID, entity.JSONMap{"task_id": task.ID})
	h.notifyCommentAdded(ctx, task, comment, *principal)

	c.JSON(http.StatusCreated, comment)
}

// UpdateComment edits a comment. Only the author, or an administrator.
func (h *HTTPHandler) UpdateComment(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.CommentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		MissingField(c, "content")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comment := h.loadCommentForModify(c, ctx, c.Param("id"), *principal)
	if comment == nil {
		return
	}

	edited := true
	updates := entity.CommentUpdates{Content: &content, IsEdited: &edited}
	if err := h.repo.UpdateComment(ctx, comment.ID, updates); err != nil {
		logrus.WithError(err).Error("failed to update comment")
		InternalError(c, "failed to update comment")
		return
	}

	h.appendAudit(c, entity.AuditActionUpdate, entity.AuditEntityComment, comment.ID, nil)

	updated, err := h.repo.GetComment(ctx, comment.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to reload comment")
		InternalError(c, "failed to update comment")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteComment removes a comment. Only the author, or an administrator.
func (h *HTTPHandler) DeleteComment(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comment := h.loadCommentForModify(c, ctx, c.Param("id"), *principal)
	if comment == nil {
		return
	}

	if err := h.repo.DeleteComment(ctx, comment.ID); err != nil {
		logrus.WithError(err).Error("failed to delete comment")
		InternalError(c, "failed to delete comment")
		return
	}

	h.appendAudit(c, entity.AuditActionDelete, entity.AuditEntityComment, comment.ID, nil)

	c.Status(http.StatusNoContent)
}

// loadCommentForModify fetches a comment and applies the author-or-admin
// rule, answering the request itself on failure.
func (h *HTTPHandler) loadCommentForModify(c *gin.Context, ctx context.Context, id string, principal auth.Principal) *entity.DbComment {
	comment, err := h.repo.GetComment(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCommentNotFound, "comment not found")
			return nil
		}
		logrus.WithError(err).Error("failed to load comment")
		InternalError(c, "failed to load comment")
		return nil
	}
	if !auth.CanModifyComment(principal, comment) {
		Forbidden(c, "only the comment author can modify it")
		return nil
	}
	return comment
}

func (h *HTTPHandler) notifyCommentAdded(ctx context.Context, task *entity.DbTask, comment *entity.DbComment, actor auth.Principal) {
	// Notify the assignee and the task creator, skipping the commenter.
	recipients := make(map[string]struct{})
	if task.AssignedUserID != nil {
		recipients[*task.AssignedUserID] = struct{}{}
	}
	recipients[task.CreatedByID] = struct{}{}
	delete(recipients, actor.UserID)

	for userID := range recipients {
		notification := &entity.DbNotification{
			ID:       uuid.NewString(),
			Type:     entity.NotificationCommentAdded,
			Priority: entity.NotificationPriorityNormal,
			Title:    "New comment",
			Message:  task.Title,
			Data:     entity.JSONMap{"task_id": task.ID, "comment_id": comment.ID, "author_id": actor.UserID},
			UserID:   userID,
		}
		if err := h.repo.CreateNotification(ctx, notification); err != nil {
			logrus.WithError(err).WithField("task_id", task.ID).Warn("failed to create comment notification")
		}
	}
}
