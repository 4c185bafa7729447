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

// ListTasks returns tasks. With a board filter the board's visibility rule
// applies; without one, non-privileged callers only see tasks assigned to
// or created by them.
func (h *HTTPHandler) ListTasks(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var query entity.TaskQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)
	if boardID := c.Param("board_id"); boardID != "" {
		query.BoardID = boardID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if strings.TrimSpace(query.BoardID) != "" {
		if board := h.loadBoardForView(c, ctx, query.BoardID); board == nil {
			return
		}
	} else if !principal.IsPrivileged() {
		query.VisibleToUserID = principal.UserID
	}

	tasks, meta, err := h.repo.ListTasks(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list tasks")
		InternalError(c, "failed to load tasks")
		return
	}

	c.JSON(http.StatusOK, entity.TaskListResponse{Tasks: tasks, Meta: meta})
}

// CreateTask creates a task on a board the caller can see.
func (h *HTTPHandler) CreateTask(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	boardID := c.Param("board_id")
	if boardID == "" {
		MissingField(c, "board_id")
		return
	}

	var req entity.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = entity.TaskStatusTodo
	}
	if !entity.IsValidTaskStatus(status) {
		BadRequest(c, ErrCodeInvalidStatus, "invalid task status")
		return
	}
	priority := strings.TrimSpace(req.Priority)
	if priority == "" {
		priority = entity.TaskPriorityMedium
	}
	if !entity.IsValidTaskPriority(priority) {
		BadRequest(c, ErrCodeInvalidRequest, "invalid task priority")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	board := h.loadBoardForView(c, ctx, boardID)
	if board == nil {
		return
	}

	if req.AssignedUserID != nil {
		if _, err := h.repo.GetUserByID(ctx, *req.AssignedUserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				BadRequest(c, ErrCodeUserNotFound, "assigned user not found")
				return
			}
			logrus.WithError(err).Error("failed to load assignee")
			InternalError(c, "failed to create task")
			return
		}
	}

	task := &entity.DbTask{
		ID:             uuid.NewString(),
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Status:         status,
		Priority:       priority,
		DueDate:        req.DueDate,
		StartDate:      req.StartDate,
		EstimatedHours: req.EstimatedHours,
		Position:       req.Position,
		Tags:           req.Tags,
		Metadata:       req.Metadata,
		BoardID:        board.ID,
		AssignedUserID: req.AssignedUserID,
		CreatedByID:    principal.UserID,
		ParentTaskID:   req.ParentTaskID,
	}

	if err := h.repo.CreateTask(ctx, task); err != nil {
		logrus.WithError(err).Error("failed to create task")
		InternalError(c, "failed to create task")
		return
	}

	h.appendAudit(c, entity.AuditActionCreate, entity.AuditEntityTask, task.ID, nil)
	if task.AssignedUserID != nil && *task.AssignedUserID != principal.UserID {
		h.notifyTaskAssigned(ctx, task, *principal)
	}

	c.JSON(http.StatusCreated, task)
}

// loadTaskForView fetches a task plus its board and applies the read rule.
// It writes the error response itself and returns nils when the request is
// already answered.
func (h *HTTPHandler) loadTaskForView(c *gin.Context, ctx context.Context, id string) (*entity.DbTask, *entity.DbBoard) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return nil, nil
	}

	task, err := h.repo.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeTaskNotFound, "task not found")
			return nil, nil
		}
		logrus.WithError(err).Error("failed to load task")
		InternalError(c, "failed to load task")
		return nil, nil
	}

	board, err := h.repo.GetBoard(ctx, task.BoardID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).Error("failed to load board for task")
		InternalError(c, "failed to load task")
		return nil, nil
	}

	if !auth.CanViewTask(*principal, task, board) {
		Forbidden(c, "insufficient permissions")
		return nil, nil
	}
	return task, board
}

// GetTask returns one task the caller can see.
func (h *HTTPHandler) GetTask(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	task, _ := h.loadTaskForView(c, ctx, c.Param("id"))
	if task == nil {
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask modifies a task. Assignee, task creator or board creator.
func (h *HTTPHandler) UpdateTask(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	task, board := h.loadTaskForView(c, ctx, c.Param("id"))
	if task == nil {
		return
	}
	if !auth.CanModifyTask(*principal, task, board) {
		Forbidden(c, "insufficient permissions")
		return
	}

	var updates entity.TaskUpdates
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			MissingField(c, "title")
			return
		}
		updates.Title = &title
	}
	updates.Description = req.Description
	updates.Priority = req.Priority
	updates.DueDate = req.DueDate
	updates.StartDate = req.StartDate
	updates.EstimatedHours = req.EstimatedHours
	updates.ActualHours = req.ActualHours
	updates.Position = req.Position
	updates.Tags = req.Tags
	updates.Metadata = req.Metadata

	if req.Priority != nil && !entity.IsValidTaskPriority(*req.Priority) {
		BadRequest(c, ErrCodeInvalidRequest, "invalid task priority")
		return
	}
	if req.Status != nil {
		if !entity.IsValidTaskStatus(*req.Status) {
			BadRequest(c, ErrCodeInvalidStatus, "invalid task status")
			return
		}
		updates.Status = req.Status
		applyCompletionTimestamp(&updates, task, *req.Status)
	}

	if updates.IsEmpty() {
		c.JSON(http.StatusOK, task)
		return
	}

	if err := h.repo.UpdateTask(ctx, task.ID, updates); err != nil {
		logrus.WithError(err).Error("failed to update task")
		InternalError(c, "failed to update task")
		return
	}

	h.appendAudit(c, entity.AuditActionUpdate, entity.AuditEntityTask, task.ID, nil)

	updated, err := h.repo.GetTask(ctx, task.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to reload task")
		InternalError(c, "failed to update task")
		return
	}
	if req.Status != nil && *req.Status == entity.TaskStatusDone && task.Status != entity.TaskStatusDone {
		h.notifyTaskCompleted(ctx, updated, *principal)
	}
	c.JSON(http.StatusOK, updated)
}

// UpdateTaskStatus moves a task through its workflow without granting the
// full update surface.
func (h *HTTPHandler) UpdateTaskStatus(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if !entity.IsValidTaskStatus(req.Status) {
		BadRequest(c, ErrCodeInvalidStatus, "invalid task status")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	task, board := h.loadTaskForView(c, ctx, c.Param("id"))
	if task == nil {
		return
	}
	if !auth.CanModifyTask(*principal, task, board) {
		Forbidden(c, "insufficient permissions")
		return
	}

	updates := entity.TaskUpdates{Status: &req.Status}
	applyCompletionTimestamp(&updates, task, req.Status)

	if err := h.repo.UpdateTask(ctx, task.ID, updates); err != nil {
		logrus.WithError(err).Error("failed to update task status")
		InternalError(c, "failed to update task")
		return
	}

	h.appendAudit(c, entity.AuditActionUpdate, entity.AuditEntityTask, task.ID, entity.JSONMap{"status": req.Status})

	updated, err := h.repo.GetTask(ctx, task.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to reload task")
		InternalError(c, "failed to update task")
		return
	}
	if req.Status == entity.TaskStatusDone && task.Status != entity.TaskStatusDone {
		h.notifyTaskCompleted(ctx, updated, *principal)
	}
	c.JSON(http.StatusOK, updated)
}

// AssignTask assigns a task to a user.
func (h *HTTPHandler) AssignTask(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.TaskAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	task, board := h.loadTaskForView(c, ctx, c.Param("id"))
	if task == nil {
		return
	}
	if !auth.CanModifyTask(*principal, task, board) {
		Forbidden(c, "insufficient permissions")
		return
	}

	if _, err := h.repo.GetUserByID(ctx, req.AssignedUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			BadRequest(c, ErrCodeUserNotFound, "assigned user not found")
			return
		}
		logrus.WithError(err).Error("failed to load assignee")
		InternalError(c, "failed to assign task")
		return
	}

	if err := h.repo.UpdateTask(ctx, task.ID, entity.TaskUpdates{AssignedUserID: &req.AssignedUserID}); err != nil {
		logrus.WithError(err).Error("failed to assign task")
		InternalError(c, "failed to assign task")
		return
	}

	h.appendAudit(c, entity.AuditActionAssign, entity.AuditEntityTask, task.ID, entity.JSONMap{"assigned_user_id": req.AssignedUserID})

	updated, err := h.repo.GetTask(ctx, task.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to reload task")
		InternalError(c, "failed to assign task")
		return
	}
	if req.AssignedUserID != principal.UserID {
		h.notifyTaskAssigned(ctx, updated, *principal)
	}
	c.JSON(http.StatusOK, updated)
}

// UnassignTask clears a task's assignee.
func (h *HTTPHandler) UnassignTask(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	task, board := h.loadTaskForView(c, ctx, c.Param("id"))
	if task == nil {
		return
	}
	if !auth.CanModifyTask(*principal, task, board) {
		Forbidden(c, "insufficient permissions")
		return
	}

	if err := h.repo.UpdateTask(ctx, task.ID, entity.TaskUpdates{ClearAssignedUser: true}); err != nil {
		logrus.WithError(err).Error("failed to unassign task")
		InternalError(c, "failed to unassign task")
		return
	}

	h.appendAudit(c, entity.AuditActionUnassign, entity.AuditEntityTask, task.ID, nil)

	updated, err := h.repo.GetTask(ctx, task.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to reload task")
		InternalError(c, "failed to unassign task")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTask soft-deletes a task.
func (h *HTTPHandler) DeleteTask(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	task, board := h.loadTaskForView(c, ctx, c.Param("id"))
	if task == nil {
		return
	}
	if !auth.CanModifyTask(*principal, task, board) {
		Forbidden(c, "insufficient permissions")
		return
	}

	if err := h.repo.DeleteTask(ctx, task.ID); err != nil {
		logrus.WithError(err).Error("failed to delete task")
		InternalError(c, "failed to delete task")
		return
	}

	h.appendAudit(c, entity.AuditActionDelete, entity.AuditEntityTask, task.ID, nil)

	c.Status(http.StatusNoContent)
}

// applyCompletionTimestamp keeps completed_at in sync with status moves.
func applyCompletionTimestamp(updates *entity.TaskUpdates, task *entity.DbTask, newStatus string) {
	if newStatus == entity.TaskStatusDone {
		now := time.Now()
		updates.CompletedAt = &now
		return
	}
	if task.CompletedAt != nil {
		updates.ClearCompletedAt = true
	}
}

func (h *HTTPHandler) notifyTaskAssigned(ctx context.Context, task *entity.DbTask, actor auth.Principal) {
	if task.AssignedUserID == nil {
		return
	}
	notification := &entity.DbNotification{
		ID:       uuid.NewString(),
		Type:     entity.NotificationTaskAssigned,
		Priority: entity.NotificationPriorityNormal,
		Title:    "Task assigned to you",
		Message:  task.Title,
		Data:     entity.JSONMap{"task_id": task.ID, "board_id": task.BoardID, "assigned_by": actor.UserID},
		UserID:   *task.AssignedUserID,
	}
	if err := h.repo.CreateNotification(ctx, notification); err != nil {
		logrus.WithError(err).WithField("task_id", task.ID).Warn("failed to create assignment notification")
	}
}

func (h *HTTPHandler) notifyTaskCompleted(ctx context.Context, task *entity.DbTask, actor auth.Principal) {
	// Tell the creator, unless they completed it themselves.
	if task.CreatedByID == actor.UserID {
		return
	}
	notification := &entity.DbNotification{
		ID:       uuid.NewString(),
		Type:     entity.NotificationTaskCompleted,
		Priority: entity.NotificationPriorityNormal,
		Title:    "Task completed",
		Message:  task.Title,
		Data:     entity.JSONMap{"task_id": task.ID, "board_id": task.BoardID, "completed_by": actor.UserID},
		UserID:   task.CreatedByID,
	}
	if err := h.repo.CreateNotification(ctx, notification); err != nil {
		logrus.WithError(err).WithField("task_id", task.ID).Warn("failed to create completion notification")
	}
}
