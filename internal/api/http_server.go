package api

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/entity"
	"taskboard/internal/model"
	"taskboard/internal/service"
	"taskboard/internal/storage"
)

// HTTPHandler carries the dependencies shared by every route handler.
type HTTPHandler struct {
	cfg               config.Config
	repo              model.Repository
	storage           storage.Storage
	storagePublicBase string

	tokens      *auth.Manager
	permissions *auth.Table
	authService *service.AuthService
}

// NewHTTPHandler creates the HTTP handler with its auth wiring.
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage) (*HTTPHandler, error) {
	accessTTL, err := auth.ValidateTTL(cfg.JWTAccessTTL)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := auth.ValidateTTL(cfg.JWTRefreshTTL)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, accessTTL, refreshTTL)
	if err != nil {
		return nil, err
	}

	return &HTTPHandler{
		cfg:               cfg,
		repo:              repo,
		storage:           store,
		storagePublicBase: normalisePublicBase(cfg.StoragePublicBaseURL),
		tokens:            tokens,
		permissions:       auth.DefaultTable(),
		authService:       service.NewAuthService(repo, tokens, cfg.BcryptCost),
	}, nil
}

// normalisePublicBase normalises the public URL base for served files.
func normalisePublicBase(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "/files"
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}

// clampPagination bounds list-query paging to sane values.
func clampPagination(params *entity.BaseParams) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = 20
	}
	if params.PageSize > 100 {
		params.PageSize = 100
	}
}

// appendAudit records the calling principal's action. Best effort: failures
// are logged, never surfaced.
func (h *HTTPHandler) appendAudit(c *gin.Context, action, entityType, entityID string, detail entity.JSONMap) {
	principal := CurrentPrincipal(c)
	if principal == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := &entity.DbAuditLog{
		ID:         uuid.NewString(),
		ActorID:    principal.UserID,
		ActorEmail: principal.Email,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if err := h.repo.AppendAuditLog(ctx, entry); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"actor_id": principal.UserID,
			"action":   action,
		}).Warn("failed to append audit entry")
	}
}
