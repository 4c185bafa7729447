package sql

import (
	"context"
	"fmt"
	"strings"

	"taskboard/internal/entity"
)

// CreateComment persists a new comment.
func (r *GormRepository) CreateComment(ctx context.Context, comment *entity.DbComment) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if comment == nil {
		return fmt.Errorf("comment is nil")
	}
	return r.db.WithContext(ctx).Create(comment).Error
}

// UpdateComment updates an existing comment.
func (r *GormRepository) UpdateComment(ctx context.Context, id string, updates entity.CommentUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid comment id")
	}
	values := updates.ToMap()
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbComment{}).Where("id = ?", id).Updates(values).Error
}

// GetComment loads a comment by ID.
func (r *GormRepository) GetComment(ctx context.Context, id string) (*entity.DbComment, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("invalid comment id")
	}
	var comment entity.DbComment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns paginated comments, oldest first.
func (r *GormRepository) ListComments(ctx context.Context, params *entity.CommentQuery) ([]entity.DbComment, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbComment{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.TaskID); trimmed != "" {
			query = query.Where("task_id = ?", trimmed)
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

	var comments []entity.DbComment
	if err := query.Order("created_at ASC").Offset(offset).Limit(pageSize).Find(&comments).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return comments, meta, nil
}

// DeleteComment soft-deletes a comment.
func (r *GormRepository) DeleteComment(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid comment id")
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.DbComment{}).Error
}
