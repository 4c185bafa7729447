package sql

import (
	"context"
	"fmt"
	"strings"

	"taskboard/internal/entity"
)

// CreateOrganization persists a new organization.
func (r *GormRepository) CreateOrganization(ctx context.Context, org *entity.DbOrganization) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if org == nil {
		return fmt.Errorf("organization is nil")
	}
	return r.db.WithContext(ctx).Create(org).Error
}

// UpdateOrganization updates an existing organization.
func (r *GormRepository) UpdateOrganization(ctx context.Context, id string, updates entity.OrganizationUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid organization id")
	}
	values := updates.ToMap()
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbOrganization{}).Where("id = ?", id).Updates(values).Error
}

// GetOrganization loads an organization by ID.
func (r *GormRepository) GetOrganization(ctx context.Context, id string) (*entity.DbOrganization, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("invalid organization id")
	}
	var org entity.DbOrganization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// ListOrganizations returns paginated organizations.
func (r *GormRepository) ListOrganizations(ctx context.Context, params *entity.OrganizationQuery) ([]entity.DbOrganization, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbOrganization{})
	if params != nil {
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(name) LIKE ?", kw)
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

	var orgs []entity.DbOrganization
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&orgs).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return orgs, meta, nil
}

// DeleteOrganization soft-deletes an organization.
func (r *GormRepository) DeleteOrganization(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid organization id")
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.DbOrganization{}).Error
}
