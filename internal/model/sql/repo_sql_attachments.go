package sql

import (
	"context"
	"fmt"
	"strings"

	"taskboard/internal/entity"
)

// CreateAttachment persists a new attachment record.
func (r *GormRepository) CreateAttachment(ctx context.Context, attachment *entity.DbAttachment) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if attachment == nil {
		return fmt.Errorf("attachment is nil")
	}
	return r.db.WithContext(ctx).Create(attachment).Error
}

// GetAttachment loads an attachment by ID.
func (r *GormRepository) GetAttachment(ctx context.Context, id string) (*entity.DbAttachment, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("invalid attachment id")
	}
	var attachment entity.DbAttachment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// ListTaskAttachments returns all attachments of a task, newest first.
func (r *GormRepository) ListTaskAttachments(ctx context.Context, taskID string) ([]entity.DbAttachment, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(taskID) == "" {
		return nil, fmt.Errorf("invalid task id")
	}
	var attachments []entity.DbAttachment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// DeleteAttachment removes an attachment record.
func (r *GormRepository) DeleteAttachment(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid attachment id")
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.DbAttachment{}).Error
}
