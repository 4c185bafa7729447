package model

import (
	"context"

	"taskboard/internal/entity"
)

// Repository defines the persistence boundary consumed by handlers and the
// auth service.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id string, updates entity.UserUpdates) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id string) (*entity.DbUser, error)
	GetUserByResetToken(ctx context.Context, token string) (*entity.DbUser, error)
	GetUserByVerificationToken(ctx context.Context, token string) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int64, error)

	// Sessions
	CreateSession(ctx context.Context, session *entity.DbSession) error
	GetSessionByID(ctx context.Context, id string) (*entity.DbSession, error)
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*entity.DbSession, error)
	// RotateSessionToken atomically replaces the stored refresh token,
	// guarded on the presented value still being the active one. Returns
	// gorm.ErrRecordNotFound when zero rows match (already rotated or
	// revoked).
	RotateSessionToken(ctx context.Context, sessionID, presentedToken string, updates entity.SessionUpdates) error
	InvalidateSession(ctx context.Context, sessionID string) error
	InvalidateUserSessions(ctx context.Context, userID string) error
	ListUserSessions(ctx context.Context, userID string, activeOnly bool) ([]entity.DbSession, error)

	// Organizations
	CreateOrganization(ctx context.Context, org *entity.DbOrganization) error
	UpdateOrganization(ctx context.Context, id string, updates entity.OrganizationUpdates) error
	GetOrganization(ctx context.Context, id string) (*entity.DbOrganization, error)
	ListOrganizations(ctx context.Context, params *entity.OrganizationQuery) ([]entity.DbOrganization, *entity.Meta, error)
	DeleteOrganization(ctx context.Context, id string) error

	// Boards
	CreateBoard(ctx context.Context, board *entity.DbBoard) error
	UpdateBoard(ctx context.Context, id string, updates entity.BoardUpdates) error
	GetBoard(ctx context.Context, id string) (*entity.DbBoard, error)
	FindBoardByName(ctx context.Context, name, createdByID string, organizationID *string) (*entity.DbBoard, error)
	ListBoards(ctx context.Context, params *entity.BoardQuery) ([]entity.DbBoard, *entity.Meta, error)

	// Tasks
	CreateTask(ctx context.Context, task *entity.DbTask) error
	UpdateTask(ctx context.Context, id string, updates entity.TaskUpdates) error
	GetTask(ctx context.Context, id string) (*entity.DbTask, error)
	ListTasks(ctx context.Context, params *entity.TaskQuery) ([]entity.DbTask, *entity.Meta, error)
	DeleteTask(ctx context.Context, id string) error

	// Comments
	CreateComment(ctx context.Context, comment *entity.DbComment) error
	UpdateComment(ctx context.Context, id string, updates entity.CommentUpdates) error
	GetComment(ctx context.Context, id string) (*entity.DbComment, error)
	ListComments(ctx context.Context, params *entity.CommentQuery) ([]entity.DbComment, *entity.Meta, error)
	DeleteComment(ctx context.Context, id string) error

	// Attachments
	CreateAttachment(ctx context.Context, attachment *entity.DbAttachment) error
	GetAttachment(ctx context.Context, id string) (*entity.DbAttachment, error)
	ListTaskAttachments(ctx context.Context, taskID string) ([]entity.DbAttachment, error)
	DeleteAttachment(ctx context.Context, id string) error

	// Notifications
	CreateNotification(ctx context.Context, notification *entity.DbNotification) error
	UpdateNotification(ctx context.Context, id string, updates entity.NotificationUpdates) error
	GetNotification(ctx context.Context, id string) (*entity.DbNotification, error)
	ListNotifications(ctx context.Context, userID string, params *entity.NotificationQuery) ([]entity.DbNotification, *entity.Meta, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int64, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) error

	// Audit log (append only)
	AppendAuditLog(ctx context.Context, log *entity.DbAuditLog) error
	ListAuditLogs(ctx context.Context, params *entity.AuditLogQuery) ([]entity.DbAuditLog, *entity.Meta, error)
}
