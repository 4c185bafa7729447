package entity

import "time"

const (
	NotificationTaskAssigned       = "task_assigned"
	NotificationTaskUpdated        = "task_updated"
	NotificationTaskCompleted      = "task_completed"
	NotificationTaskOverdue        = "task_overdue"
	NotificationTaskDueSoon        = "task_due_soon"
	NotificationCommentAdded       = "comment_added"
	NotificationBoardShared        = "board_shared"
	NotificationUserMentioned      = "user_mentioned"
	NotificationSystemAnnouncement = "system_announcement"
	NotificationWelcome            = "welcome"
)

const (
	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
	NotificationPriorityUrgent = "urgent"
)

// DbNotification represents a notification delivered to one user.
type DbNotification struct {
	ID        string     `gorm:"column:id;type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Type      string     `gorm:"column:type;type:varchar(50);index;not null" json:"type"`
	Priority  string     `gorm:"column:priority;type:varchar(20);not null;default:normal" json:"priority"`
	Title     string     `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Message   string     `gorm:"column:message;type:text" json:"message"`
	IsRead    bool       `gorm:"column:is_read;not null;default:false" json:"is_read"`
	ReadAt    *time.Time `gorm:"column:read_at" json:"read_at"`
	Data      JSONMap    `gorm:"column:data;type:text" json:"data"`
	UserID    string     `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
}

// TableName overrides the default pluralised name.
func (DbNotification) TableName() string {
	return "notifications"
}

type NotificationQuery struct {
	BaseParams
	UnreadOnly bool `json:"unread_only" form:"unread_only" query:"unread_only"`
}

type NotificationCreateRequest struct {
	Type     string  `json:"type" binding:"required"`
	Priority string  `json:"priority"`
	Title    string  `json:"title" binding:"required"`
	Message  string  `json:"message"`
	Data     JSONMap `json:"data"`
	UserID   string  `json:"user_id" binding:"required"`
}

type NotificationListResponse struct {
	Notifications []DbNotification `json:"notifications"`
	UnreadCount   int64            `json:"unread_count"`
	Meta          *Meta            `json:"meta"`
}
