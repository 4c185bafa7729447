package sql

import (
	"context"
	"fmt"
	"strings"

	"taskboard/internal/entity"
)

// CreateTask persists a new task.
func (r *GormRepository) CreateTask(ctx context.Context, task *entity.DbTask) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if task == nil {
		return fmt.Errorf("task is nil")
	}
	return r.db.WithContext(ctx).Create(task).Error
}

// UpdateTask updates an existing task.
func (r *GormRepository) UpdateTask(ctx context.Context, id string, updates entity.TaskUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid task id")
	}
	values := updates.ToMap()
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbTask{}).Where("id = ?", id).Updates(values).Error
}

// GetTask loads a task by ID.
func (r *GormRepository) GetTask(ctx context.Context, id string) (*entity.DbTask, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("invalid task id")
	}
	var task entity.DbTask
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks returns paginated tasks.
func (r *GormRepository) ListTasks(ctx context.Context, params *entity.TaskQuery) ([]entity.DbTask, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbTask{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.BoardID); trimmed != "" {
			query = query.Where("board_id = ?", trimmed)
		}
		if trimmed := strings.TrimSpace(params.Status); trimmed != "" {
			query = query.Where("status = ?", trimmed)
		}
		if trimmed := strings.TrimSpace(params.Priority); trimmed != "" {
			query = query.Where("priority = ?", trimmed)
		}
		if trimmed := strings.TrimSpace(params.AssignedUserID); trimmed != "" {
			query = query.Where("assigned_user_id = ?", trimmed)
		}
		if trimmed := strings.TrimSpace(params.VisibleToUserID); trimmed != "" {
			query = query.Where("assigned_user_id = ? OR created_by_id = ?", trimmed, trimmed)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", kw, kw)
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

	var tasks []entity.DbTask
	if err := query.Order("position ASC, created_at DESC").Offset(offset).Limit(pageSize).Find(&tasks).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return tasks, meta, nil
}

// DeleteTask soft-deletes a task.
func (r *GormRepository) DeleteTask(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid task id")
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.DbTask{}).Error
}
