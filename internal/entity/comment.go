package entity

import (
	"time"

	"gorm.io/gorm"
)

// DbComment represents a comment on a task.
type DbComment struct {
	ID        string         `gorm:"column:id;type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Content   string         `gorm:"column:content;type:text;not null" json:"content"`
	IsEdited  bool           `gorm:"column:is_edited;not null;default:false" json:"is_edited"`
	TaskID    string         `gorm:"column:task_id;type:varchar(36);index;not null" json:"task_id"`
	AuthorID  string         `gorm:"column:author_id;type:varchar(36);index;not null" json:"author_id"`
}

// TableName overrides the default pluralised name.
func (DbComment) TableName() string {
	return "task_comments"
}

type CommentQuery struct {
	BaseParams
	TaskID string `json:"task_id" form:"task_id" query:"task_id"`
}

type CommentCreateRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type CommentUpdateRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type CommentListResponse struct {
	Comments []DbComment `json:"comments"`
	Meta     *Meta       `json:"meta"`
}
