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

// ListUsers returns paginated users. Non-privileged callers only see their
// own organization.
func (h *HTTPHandler) ListUsers(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var query entity.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)

	if !principal.IsPrivileged() {
		if principal.OrganizationID == nil {
			c.JSON(http.StatusOK, entity.UserListResponse{Users: []entity.UserSummary{}})
			return
		}
		query.OrganizationID = *principal.OrganizationID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, meta, err := h.repo.ListUsers(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		InternalError(c, "failed to load users")
		return
	}

	response := entity.UserListResponse{
		Users: make([]entity.UserSummary, 0, len(users)),
		Meta:  meta,
	}
	for idx := range users {
		response.Users = append(response.Users, entity.MakeUserSummary(&users[idx]))
	}

	c.JSON(http.StatusOK, response)
}

// CreateUser provisions an account with an explicit role. Only a super admin
// may create admins; super admins are never created over the API.
func (h *HTTPHandler) CreateUser(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	var req entity.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	role := strings.TrimSpace(req.Role)
	if !entity.IsValidRole(role) {
		BadRequest(c, ErrCodeInvalidRole, "invalid role")
		return
	}
	if role == entity.UserRoleSuperAdmin {
		BadRequest(c, ErrCodeInvalidRole, "cannot create super admin")
		return
	}
	if role == entity.UserRoleAdmin && !principal.IsSuperAdmin() {
		Forbidden(c, "only super admin can create admin users")
		return
	}

	hash, err := auth.HashPasswordWithCost(req.Password, h.cfg.BcryptCost)
	if err != nil {
		logrus.WithError(err).Error("failed to hash password for new user")
		InternalError(c, "failed to create user")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := &entity.DbUser{
		ID:             uuid.NewString(),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   hash,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Role:           role,
		OrganizationID: req.OrganizationID,
		IsActive:       isActive,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, ErrCodeEmailExists, "email already registered")
			return
		}
		logrus.WithError(err).Error("failed to create user")
		InternalError(c, "failed to create user")
		return
	}

	h.appendAudit(c, entity.AuditActionCreate, entity.AuditEntityUser, user.ID, nil)

	c.JSON(http.StatusCreated, entity.MakeUserSummary(user))
}

// GetUser returns one user. Non-privileged callers may only read themselves
// or members of their organization.
func (h *HTTPHandler) GetUser(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeUserNotFound, "user not found")
			return
		}
		logrus.WithError(err).Error("failed to load user")
		InternalError(c, "failed to load user")
		return
	}

	if !principal.IsPrivileged() && user.ID != principal.UserID && !principal.SameOrganization(user.OrganizationID) {
		Forbidden(c, "insufficient permissions")
		return
	}

	c.JSON(http.StatusOK, entity.MakeUserSummary(user))
}

// UpdateUser modifies an account. Users may edit their own name and
// password; role, activation and organization changes are privileged.
func (h *HTTPHandler) UpdateUser(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}
	id := c.Param("id")

	var req entity.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	self := id == principal.UserID
	if !self && !principal.IsPrivileged() {
		Forbidden(c, "insufficient permissions")
		return
	}

	privilegedChange := req.Role != nil || req.IsActive != nil || req.OrganizationID != nil
	if privilegedChange && !principal.IsPrivileged() {
		Forbidden(c, "insufficient permissions")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	target, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeUserNotFound, "user not found")
			return
		}
		logrus.WithError(err).Error("failed to load user")
		InternalError(c, "failed to update user")
		return
	}

	var updates entity.UserUpdates
	updates.FirstName = req.FirstName
	updates.LastName = req.LastName
	updates.OrganizationID = req.OrganizationID
	updates.IsActive = req.IsActive

	if req.Role != nil {
		role := strings.TrimSpace(*req.Role)
		if !entity.IsValidRole(role) || role == entity.UserRoleSuperAdmin {
			BadRequest(c, ErrCodeInvalidRole, "invalid role")
			return
		}
		// Promoting to admin, or touching an admin at all, is reserved for
		// the super admin.
		if (role == entity.UserRoleAdmin || target.Role == entity.UserRoleAdmin) && !principal.IsSuperAdmin() {
			Forbidden(c, "only super admin can manage admin users")
			return
		}
		if target.Role == entity.UserRoleSuperAdmin {
			Forbidden(c, "super admin role cannot be changed")
			return
		}
		updates.Role = &role
	}

	if req.Password != nil {
		password := strings.TrimSpace(*req.Password)
		if len(password) < 8 {
			BadRequest(c, ErrCodeInvalidRequest, "password must be at least 8 characters")
			return
		}
		hash, err := auth.HashPasswordWithCost(password, h.cfg.BcryptCost)
		if err != nil {
			logrus.WithError(err).Error("failed to hash password")
			InternalError(c, "failed to update user")
			return
		}
		updates.PasswordHash = &hash
	}

	if updates.IsEmpty() {
		c.JSON(http.StatusOK, entity.MakeUserSummary(target))
		return
	}

	if err := h.repo.UpdateUser(ctx, id, updates); err != nil {
		logrus.WithError(err).Error("failed to update user")
		InternalError(c, "failed to update user")
		return
	}

	// Password changes and deactivations kill existing sessions.
	if updates.PasswordHash != nil || (req.IsActive != nil && !*req.IsActive) {
		if err := h.repo.InvalidateUserSessions(ctx, id); err != nil {
			logrus.WithError(err).WithField("user_id", id).Warn("failed to invalidate sessions")
		}
	}

	h.appendAudit(c, entity.AuditActionUpdate, entity.AuditEntityUser, id, nil)

	user, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload user")
		InternalError(c, "failed to update user")
		return
	}
	c.JSON(http.StatusOK, entity.MakeUserSummary(user))
}

// DeleteUser soft-deletes an account and revokes its sessions.
func (h *HTTPHandler) DeleteUser(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}
	id := c.Param("id")

	if id == principal.UserID {
		BadRequest(c, ErrCodeCannotDeleteSelf, "cannot delete your own account")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	target, err := h.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeUserNotFound, "user not found")
			return
		}
		logrus.WithError(err).Error("failed to load user")
		InternalError(c, "failed to delete user")
		return
	}
	if target.Role == entity.UserRoleSuperAdmin {
		Forbidden(c, "super admin cannot be deleted")
		return
	}
	if target.Role == entity.UserRoleAdmin && !principal.IsSuperAdmin() {
		Forbidden(c, "only super admin can delete admin users")
		return
	}

	if err := h.repo.InvalidateUserSessions(ctx, id); err != nil {
		logrus.WithError(err).WithField("user_id", id).Warn("failed to invalidate sessions")
	}
	if err := h.repo.DeleteUser(ctx, id); err != nil {
		logrus.WithError(err).Error("failed to delete user")
		InternalError(c, "failed to delete user")
		return
	}

	h.appendAudit(c, entity.AuditActionDelete, entity.AuditEntityUser, id, nil)

	c.Status(http.StatusNoContent)
}
