package sql

import (
	"context"
	"fmt"
	"strings"

	"taskboard/internal/entity"
)

// AppendAuditLog persists a new audit entry. Entries are never updated.
func (r *GormRepository) AppendAuditLog(ctx context.Context, log *entity.DbAuditLog) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if log == nil {
		return fmt.Errorf("audit log is nil")
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// ListAuditLogs returns paginated audit entries, newest first.
func (r *GormRepository) ListAuditLogs(ctx context.Context, params *entity.AuditLogQuery) ([]entity.DbAuditLog, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbAuditLog{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.ActorID); trimmed != "" {
			query = query.Where("actor_id = ?", trimmed)
		}
		if trimmed := strings.TrimSpace(params.Action); trimmed != "" {
			query = query.Where("action = ?", trimmed)
		}
		if trimmed := strings.TrimSpace(params.EntityType); trimmed != "" {
			query = query.Where("entity_type = ?", trimmed)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var base *entity.BaseParams
	if params != nil {
		base = &params.BaseParams
	}
	page, pageSize, offset := pageWindow(base)

	var logs []entity.DbAuditLog
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&logs).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return logs, meta, nil
}
