package sql

import (
	"context"
	"fmt"
	"strings"

	"taskboard/internal/entity"
)

// CreateBoard persists a new board.
func (r *GormRepository) CreateBoard(ctx context.Context, board *entity.DbBoard) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if board == nil {
		return fmt.Errorf("board is nil")
	}
	return r.db.WithContext(ctx).Create(board).Error
}

// UpdateBoard updates an existing board.
func (r *GormRepository) UpdateBoard(ctx context.Context, id string, updates entity.BoardUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid board id")
	}
	values := updates.ToMap()
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbBoard{}).Where("id = ?", id).Updates(values).Error
}

// GetBoard loads a board by ID.
func (r *GormRepository) GetBoard(ctx context.Context, id string) (*entity.DbBoard, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("invalid board id")
	}
	var board entity.DbBoard
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindBoardByName looks up a board by name within a creator's scope, used to
// detect duplicates before creation.
func (r *GormRepository) FindBoardByName(ctx context.Context, name, createdByID string, organizationID *string) (*entity.DbBoard, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("name is empty")
	}

	query := r.db.WithContext(ctx).
		Where("LOWER(name) = ? AND created_by_id = ?", strings.ToLower(trimmed), createdByID)
	if organizationID != nil {
		query = query.Where("organization_id = ?", *organizationID)
	} else {
		query = query.Where("organization_id IS NULL")
	}

	var board entity.DbBoard
	if err := query.First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// ListBoards returns paginated boards. When params.Scope is set the result is
// restricted to boards visible to that user: public boards, the user's own
// boards, and organization boards within the user's organization.
func (r *GormRepository) ListBoards(ctx context.Context, params *entity.BoardQuery) ([]entity.DbBoard, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbBoard{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.Visibility); trimmed != "" {
			query = query.Where("visibility = ?", trimmed)
		}
		if trimmed := strings.TrimSpace(params.Status); trimmed != "" {
			query = query.Where("status = ?", trimmed)
		} else {
			query = query.Where("status <> ?", entity.BoardStatusDeleted)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", kw, kw)
		}
		if scope := params.Scope; scope != nil {
			if scope.OrganizationID != nil {
				query = query.Where(
					"visibility = ? OR created_by_id = ? OR (visibility = ? AND organization_id = ?)",
					entity.BoardVisibilityPublic, scope.UserID,
					entity.BoardVisibilityOrganization, *scope.OrganizationID,
				)
			} else {
				query = query.Where(
					"visibility = ? OR created_by_id = ?",
					entity.BoardVisibilityPublic, scope.UserID,
				)
			}
		}
	} else {
		query = query.Where("status <> ?", entity.BoardStatusDeleted)
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

	var boards []entity.DbBoard
	if err := query.Order("position ASC, created_at DESC").Offset(offset).Limit(pageSize).Find(&boards).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return boards, meta, nil
}
