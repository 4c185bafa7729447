package sql

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"taskboard/internal/entity"
)

// CreateSession persists a new session row.
func (r *GormRepository) CreateSession(ctx context.Context, session *entity.DbSession) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if session == nil {
		return fmt.Errorf("session is nil")
	}
	return r.db.WithContext(ctx).Create(session).Error
}

// GetSessionByID loads a session by ID.
func (r *GormRepository) GetSessionByID(ctx context.Context, id string) (*entity.DbSession, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("invalid session id")
	}
	var session entity.DbSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionByRefreshToken loads the session currently holding the token.
func (r *GormRepository) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*entity.DbSession, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(refreshToken) == "" {
		return nil, fmt.Errorf("refresh token is empty")
	}
	var session entity.DbSession
	if err := r.db.WithContext(ctx).Where("refresh_token = ?", refreshToken).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// RotateSessionToken swaps the stored refresh token in a single conditional
// UPDATE. The guard on the presented token makes concurrent refreshes with
// the same token race for one winner; the losers see ErrRecordNotFound.
func (r *GormRepository) RotateSessionToken(ctx context.Context, sessionID, presentedToken string, updates entity.SessionUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("invalid session id")
	}
	if strings.TrimSpace(presentedToken) == "" {
		return fmt.Errorf("presented token is empty")
	}
	values := updates.ToMap()
	if len(values) == 0 {
		return fmt.Errorf("no session updates")
	}

	result := r.db.WithContext(ctx).Model(&entity.DbSession{}).
		Where("id = ? AND refresh_token = ? AND is_active = ?", sessionID, presentedToken, true).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// InvalidateSession marks a single session inactive.
func (r *GormRepository) InvalidateSession(ctx context.Context, sessionID string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("invalid session id")
	}
	return r.db.WithContext(ctx).Model(&entity.DbSession{}).
		Where("id = ?", sessionID).
		Update("is_active", false).Error
}

// InvalidateUserSessions marks every active session of a user inactive.
func (r *GormRepository) InvalidateUserSessions(ctx context.Context, userID string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("invalid user id")
	}
	return r.db.WithContext(ctx).Model(&entity.DbSession{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false).Error
}

// ListUserSessions returns a user's sessions, newest first.
func (r *GormRepository) ListUserSessions(ctx context.Context, userID string, activeOnly bool) ([]entity.DbSession, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("invalid user id")
	}

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var sessions []entity.DbSession
	if err := query.Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
