package sql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/entity"
)

// CreateNotification persists a new notification.
func (r *GormRepository) CreateNotification(ctx context.Context, notification *entity.DbNotification) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if notification == nil {
		return fmt.Errorf("notification is nil")
	}
	return r.db.WithContext(ctx).Create(notification).Error
}

// UpdateNotification updates an existing notification.
func (r *GormRepository) UpdateNotification(ctx context.Context, id string, updates entity.NotificationUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid notification id")
	}
	values := updates.ToMap()
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbNotification{}).Where("id = ?", id).Updates(values).Error
}

// GetNotification loads a notification by ID.
func (r *GormRepository) GetNotification(ctx context.Context, id string) (*entity.DbNotification, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("invalid notification id")
	}
	var notification entity.DbNotification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListNotifications returns a user's notifications, newest first.
func (r *GormRepository) ListNotifications(ctx context.Context, userID string, params *entity.NotificationQuery) ([]entity.DbNotification, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, nil, fmt.Errorf("invalid user id")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbNotification{}).Where("user_id = ?", userID)
	if params != nil && params.UnreadOnly {
		query = query.Where("is_read = ?", false)
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

	var notifications []entity.DbNotification
	if err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&notifications).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return notifications, meta, nil
}

// CountUnreadNotifications counts a user's unread notifications.
func (r *GormRepository) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(userID) == "" {
		return 0, fmt.Errorf("invalid user id")
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.DbNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// MarkAllNotificationsRead flags every unread notification of a user as read.
func (r *GormRepository) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("invalid user id")
	}
	now := time.Now()
	return r.db.WithContext(ctx).Model(&entity.DbNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}
