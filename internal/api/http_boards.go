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

// ListBoards returns the boards visible to the caller.
func (h *HTTPHandler) ListBoards(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var query entity.BoardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)
	query.Scope = auth.BoardScopeFor(*principal)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	boards, meta, err := h.repo.ListBoards(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list boards")
		InternalError(c, "failed to load boards")
		return
	}

	c.JSON(http.StatusOK, entity.BoardListResponse{Boards: boards, Meta: meta})
}

// CreateBoard creates a board owned by the caller.
func (h *HTTPHandler) CreateBoard(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.BoardCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	visibility := strings.TrimSpace(req.Visibility)
	if visibility == "" {
		visibility = entity.BoardVisibilityPrivate
	}
	if !entity.IsValidBoardVisibility(visibility) {
		BadRequest(c, ErrCodeInvalidRequest, "invalid visibility")
		return
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = entity.BoardStatusActive
	}
	if !entity.IsValidBoardStatus(status) {
		BadRequest(c, ErrCodeInvalidStatus, "invalid status")
		return
	}

	organizationID := req.OrganizationID
	if visibility == entity.BoardVisibilityOrganization {
		if organizationID == nil {
			organizationID = principal.OrganizationID
		}
		if organizationID == nil {
			BadRequest(c, ErrCodeInvalidRequest, "organization visibility requires an organization")
			return
		}
		if !principal.IsPrivileged() && !principal.SameOrganization(organizationID) {
			Forbidden(c, "cannot create boards in another organization")
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.repo.FindBoardByName(ctx, req.Name, principal.UserID, organizationID); err == nil {
		Conflict(c, ErrCodeBoardNameTaken, "a board with this name already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).Error("failed to check board name")
		InternalError(c, "failed to create board")
		return
	}

	board := &entity.DbBoard{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Visibility:     visibility,
		Status:         status,
		Color:          req.Color,
		Icon:           req.Icon,
		Position:       req.Position,
		Settings:       req.Settings,
		OrganizationID: organizationID,
		CreatedByID:    principal.UserID,
	}

	if err := h.repo.CreateBoard(ctx, board); err != nil {
		logrus.WithError(err).Error("failed to create board")
		InternalError(c, "failed to create board")
		return
	}

	h.appendAudit(c, entity.AuditActionCreate, entity.AuditEntityBoard, board.ID, nil)

	c.JSON(http.StatusCreated, board)
}

// loadBoardForView fetches a board and applies the read rule. It writes the
// error response itself and returns nil when the request is already
// answered.
func (h *HTTPHandler) loadBoardForView(c *gin.Context, ctx context.Context, id string) *entity.DbBoard {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return nil
	}

	board, err := h.repo.GetBoard(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeBoardNotFound, "board not found")
			return nil
		}
		logrus.WithError(err).Error("failed to load board")
		InternalError(c, "failed to load board")
		return nil
	}

	if !auth.CanViewBoard(*principal, board) {
		Forbidden(c, "insufficient permissions")
		return nil
	}
	return board
}

// GetBoard returns one board the caller can see.
func (h *HTTPHandler) GetBoard(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	board := h.loadBoardForView(c, ctx, c.Param("id"))
	if board == nil {
		return
	}
	c.JSON(http.StatusOK, board)
}

// UpdateBoard modifies a board. Only the creator, unless privileged.
func (h *HTTPHandler) UpdateBoard(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.BoardUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	board := h.loadBoardForView(c, ctx, c.Param("id"))
	if board == nil {
		return
	}
	if !auth.CanModifyBoard(*principal, board) {
		Forbidden(c, "only the board creator can modify it")
		return
	}

	var updates entity.BoardUpdates
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			MissingField(c, "name")
			return
		}
		updates.Name = &name
	}
	updates.Description = req.Description
	updates.Color = req.Color
	updates.Icon = req.Icon
	updates.Position = req.Position
	updates.Settings = req.Settings
	updates.OrganizationID = req.OrganizationID

	if req.Visibility != nil {
		if !entity.IsValidBoardVisibility(*req.Visibility) {
			BadRequest(c, ErrCodeInvalidRequest, "invalid visibility")
			return
		}
		updates.Visibility = req.Visibility
	}
	if req.Status != nil {
		if !entity.IsValidBoardStatus(*req.Status) {
			BadRequest(c, ErrCodeInvalidStatus, "invalid status")
			return
		}
		updates.Status = req.Status
	}

	if updates.IsEmpty() {
		c.JSON(http.StatusOK, board)
		return
	}

	if err := h.repo.UpdateBoard(ctx, board.ID, updates); err != nil {
		logrus.WithError(err).Error("failed to update board")
		InternalError(c, "failed to update board")
		return
	}

	action := entity.AuditActionUpdate
	if req.Status != nil && *req.Status == entity.BoardStatusArchived {
		action = entity.AuditActionArchive
	}
	h.appendAudit(c, action, entity.AuditEntityBoard, board.ID, nil)

	updated, err := h.repo.GetBoard(ctx, board.ID)
	if err != nil {
		logrus.WithError(err).Error("failed to reload board")
		InternalError(c, "failed to update board")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteBoard marks a board deleted. Only the creator, unless privileged.
func (h *HTTPHandler) DeleteBoard(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	board := h.loadBoardForView(c, ctx, c.Param("id"))
	if board == nil {
		return
	}
	if !auth.CanModifyBoard(*principal, board) {
		Forbidden(c, "only the board creator can delete it")
		return
	}

	status := entity.BoardStatusDeleted
	if err := h.repo.UpdateBoard(ctx, board.ID, entity.BoardUpdates{Status: &status}); err != nil {
		logrus.WithError(err).Error("failed to delete board")
		InternalError(c, "failed to delete board")
		return
	}

	h.appendAudit(c, entity.AuditActionDelete, entity.AuditEntityBoard, board.ID, nil)

	c.Status(http.StatusNoContent)
}
