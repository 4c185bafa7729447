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

	"taskboard/internal/entity"
)

// ListOrganizations returns organizations. Non-privileged callers only see
// their own.
func (h *HTTPHandler) ListOrganizations(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if !principal.IsPrivileged() {
		if principal.OrganizationID == nil {
			c.JSON(http.StatusOK, entity.OrganizationListResponse{Organizations: []entity.DbOrganization{}})
			return
		}
		org, err := h.repo.GetOrganization(ctx, *principal.OrganizationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, entity.OrganizationListResponse{Organizations: []entity.DbOrganization{}})
				return
			}
			logrus.WithError(err).Error("failed to load organization")
			InternalError(c, "failed to load organizations")
			return
		}
		c.JSON(http.StatusOK, entity.OrganizationListResponse{Organizations: []entity.DbOrganization{*org}})
		return
	}

	var query entity.OrganizationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}
	clampPagination(&query.BaseParams)

	orgs, meta, err := h.repo.ListOrganizations(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list organizations")
		InternalError(c, "failed to load organizations")
		return
	}

	c.JSON(http.StatusOK, entity.OrganizationListResponse{Organizations: orgs, Meta: meta})
}

// CreateOrganization creates a tenant. Route is gated on create:organization.
func (h *HTTPHandler) CreateOrganization(c *gin.Context) {
	var req entity.OrganizationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	org := &entity.DbOrganization{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Website:     req.Website,
		IsActive:    true,
		Settings:    req.Settings,
	}
	if err := h.repo.CreateOrganization(ctx, org); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, ErrCodeInvalidRequest, "organization name already in use")
			return
		}
		logrus.WithError(err).Error("failed to create organization")
		InternalError(c, "failed to create organization")
		return
	}

	h.appendAudit(c, entity.AuditActionCreate, entity.AuditEntityOrganization, org.ID, nil)

	c.JSON(http.StatusCreated, org)
}

// GetOrganization returns one organization. Non-privileged callers only
// their own.
func (h *HTTPHandler) GetOrganization(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id := c.Param("id")
	if !principal.IsPrivileged() && !principal.SameOrganization(&id) {
		Forbidden(c, "insufficient permissions")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	org, err := h.repo.GetOrganization(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeOrganizationNotFound, "organization not found")
			return
		}
		logrus.WithError(err).Error("failed to load organization")
		InternalError(c, "failed to load organization")
		return
	}

	c.JSON(http.StatusOK, org)
}

// UpdateOrganization modifies a tenant. Route is gated on
// update:organization; admins may only update their own organization.
func (h *HTTPHandler) UpdateOrganization(c *gin.Context) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		Unauthorized(c, "authentication required")
		return
	}

	id := c.Param("id")
	if !principal.IsSuperAdmin() && !principal.SameOrganization(&id) {
		Forbidden(c, "cannot update another organization")
		return
	}

	var req entity.OrganizationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.repo.GetOrganization(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeOrganizationNotFound, "organization not found")
			return
		}
		logrus.WithError(err).Error("failed to load organization")
		InternalError(c, "failed to update organization")
		return
	}

	var updates entity.OrganizationUpdates
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			MissingField(c, "name")
			return
		}
		updates.Name = &name
	}
	updates.Description = req.Description
	updates.Website = req.Website
	updates.IsActive = req.IsActive
	updates.Settings = req.Settings

	if err := h.repo.UpdateOrganization(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, ErrCodeInvalidRequest, "organization name already in use")
			return
		}
		logrus.WithError(err).Error("failed to update organization")
		InternalError(c, "failed to update organization")
		return
	}

	h.appendAudit(c, entity.AuditActionUpdate, entity.AuditEntityOrganization, id, nil)

	org, err := h.repo.GetOrganization(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload organization")
		InternalError(c, "failed to update organization")
		return
	}
	c.JSON(http.StatusOK, org)
}

// DeleteOrganization removes a tenant. Route is gated on
// delete:organization.
func (h *HTTPHandler) DeleteOrganization(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	id := c.Param("id")
	if _, err := h.repo.GetOrganization(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeOrganizationNotFound, "organization not found")
			return
		}
		logrus.WithError(err).Error("failed to load organization")
		InternalError(c, "failed to delete organization")
		return
	}

	if err := h.repo.DeleteOrganization(ctx, id); err != nil {
		logrus.WithError(err).Error("failed to delete organization")
		InternalError(c, "failed to delete organization")
		return
	}

	h.appendAudit(c, entity.AuditActionDelete, entity.AuditEntityOrganization, id, nil)

	c.Status(http.StatusNoContent)
}
