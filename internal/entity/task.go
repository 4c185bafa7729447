package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusInReview   = "in_review"
	TaskStatusDone       = "done"
	TaskStatusCancelled  = "cancelled"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// IsValidTaskStatus reports whether s is a known task status.
func IsValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview, TaskStatusDone, TaskStatusCancelled:
		return true
	}
	return false
}

// IsValidTaskPriority reports whether p is a known priority.
func IsValidTaskPriority(p string) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// DbTask represents a persisted task on a board.
type DbTask struct {
	ID             string         `gorm:"column:id;type:varchar(36);primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Title          string         `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Description    string         `gorm:"column:description;type:text" json:"description"`
	Status         string         `gorm:"column:status;type:varchar(20);index;not null;default:todo" json:"status"`
	Priority       string         `gorm:"column:priority;type:varchar(20);index;not null;default:medium" json:"priority"`
	DueDate        *time.Time     `gorm:"column:due_date;index" json:"due_date"`
	StartDate      *time.Time     `gorm:"column:start_date" json:"start_date"`
	CompletedAt    *time.Time     `gorm:"column:completed_at" json:"completed_at"`
	EstimatedHours *int           `gorm:"column:estimated_hours" json:"estimated_hours"`
	ActualHours    *int           `gorm:"column:actual_hours" json:"actual_hours"`
	Position       int            `gorm:"column:position" json:"position"`
	Tags           StringArray    `gorm:"column:tags;type:text" json:"tags"`
	Metadata       JSONMap        `gorm:"column:metadata;type:text" json:"metadata"`
	BoardID        string         `gorm:"column:board_id;type:varchar(36);index;not null" json:"board_id"`
	AssignedUserID *string        `gorm:"column:assigned_user_id;type:varchar(36);index" json:"assigned_user_id"`
	CreatedByID    string         `gorm:"column:created_by_id;type:varchar(36);index;not null" json:"created_by_id"`
	ParentTaskID   *string        `gorm:"column:parent_task_id;type:varchar(36)" json:"parent_task_id"`
}

// TableName overrides the default pluralised name.
func (DbTask) TableName() string {
	return "tasks"
}

// TaskQuery supports listing tasks with pagination and filters.
type TaskQuery struct {
	BaseParams
	BoardID        string `json:"board_id" form:"board_id" query:"board_id"`
	Status         string `json:"status" form:"status" query:"status"`
	Priority       string `json:"priority" form:"priority" query:"priority"`
	AssignedUserID string `json:"assigned_user_id" form:"assigned_user_id" query:"assigned_user_id"`
	Keyword        string `json:"keyword" form:"keyword" query:"keyword"`

	// VisibleToUserID restricts results to tasks assigned to or created by
	// the given user. Set server-side for non-privileged callers, never
	// bound from the request.
	VisibleToUserID string `json:"-" form:"-"`
}

type TaskCreateRequest struct {
	Title          string      `json:"title" binding:"required,min=1,max=200"`
	Description    string      `json:"description"`
	Status         string      `json:"status"`
	Priority       string      `json:"priority"`
	DueDate        *time.Time  `json:"due_date"`
	StartDate      *time.Time  `json:"start_date"`
	EstimatedHours *int        `json:"estimated_hours"`
	Position       int         `json:"position"`
	Tags           StringArray `json:"tags"`
	Metadata       JSONMap     `json:"metadata"`
	AssignedUserID *string     `json:"assigned_user_id"`
	ParentTaskID   *string     `json:"parent_task_id"`
}

type TaskUpdateRequest struct {
	Title          *string      `json:"title,omitempty"`
	Description    *string      `json:"description,omitempty"`
	Status         *string      `json:"status,omitempty"`
	Priority       *string      `json:"priority,omitempty"`
	DueDate        *time.Time   `json:"due_date,omitempty"`
	StartDate      *time.Time   `json:"start_date,omitempty"`
	EstimatedHours *int         `json:"estimated_hours,omitempty"`
	ActualHours    *int         `json:"actual_hours,omitempty"`
	Position       *int         `json:"position,omitempty"`
	Tags           *StringArray `json:"tags,omitempty"`
	Metadata       *JSONMap     `json:"metadata,omitempty"`
}

type TaskAssignRequest struct {
	AssignedUserID string `json:"assigned_user_id" binding:"required"`
}

type TaskListResponse struct {
	Tasks []DbTask `json:"tasks"`
	Meta  *Meta    `json:"meta"`
}
