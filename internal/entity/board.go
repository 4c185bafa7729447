package entity

import (
	"time"

	"gorm.io/gorm"
)

// Board visibility controls which non-privileged principals may read the
// board and everything nested under it.
const (
	BoardVisibilityPublic       = "public"
	BoardVisibilityPrivate      = "private"
	BoardVisibilityOrganization = "organization"
)

const (
	BoardStatusActive   = "active"
	BoardStatusArchived = "archived"
	BoardStatusDeleted  = "deleted"
)

// IsValidBoardVisibility reports whether v is a known visibility value.
func IsValidBoardVisibility(v string) bool {
	switch v {
	case BoardVisibilityPublic, BoardVisibilityPrivate, BoardVisibilityOrganization:
		return true
	}
	return false
}

// IsValidBoardStatus reports whether s is a known board status.
func IsValidBoardStatus(s string) bool {
	switch s {
	case BoardStatusActive, BoardStatusArchived, BoardStatusDeleted:
		return true
	}
	return false
}

// DbBoard represents a persisted board.
type DbBoard struct {
	ID             string         `gorm:"column:id;type:varchar(36);primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Name           string         `gorm:"column:name;type:varchar(200);index;not null" json:"name"`
	Description    string         `gorm:"column:description;type:text" json:"description"`
	Visibility     string         `gorm:"column:visibility;type:varchar(20);index;not null;default:private" json:"visibility"`
	Status         string         `gorm:"column:status;type:varchar(20);index;not null;default:active" json:"status"`
	Color          string         `gorm:"column:color;type:varchar(20)" json:"color"`
	Icon           string         `gorm:"column:icon;type:varchar(50)" json:"icon"`
	Position       int            `gorm:"column:position" json:"position"`
	Settings       JSONMap        `gorm:"column:settings;type:text" json:"settings"`
	OrganizationID *string        `gorm:"column:organization_id;type:varchar(36);index" json:"organization_id"`
	CreatedByID    string         `gorm:"column:created_by_id;type:varchar(36);index;not null" json:"created_by_id"`
}

// TableName overrides the default pluralised name.
func (DbBoard) TableName() string {
	return "boards"
}

// BoardQuery supports listing boards with pagination and filters. Principal
// scoping (visibility rules for non-privileged roles) is applied by the
// repository on top of these filters.
type BoardQuery struct {
	BaseParams
	Keyword    string `json:"keyword" form:"keyword" query:"keyword"`
	Visibility string `json:"visibility" form:"visibility" query:"visibility"`
	Status     string `json:"status" form:"status" query:"status"`

	// Scope restricts results to rows the given non-privileged user can see.
	// Nil means no scoping (privileged roles).
	Scope *BoardScope `json:"-" form:"-"`
}

// BoardScope mirrors the Layer B read rule for list queries.
type BoardScope struct {
	UserID         string
	OrganizationID *string
}

type BoardCreateRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=200"`
	Description    string  `json:"description"`
	Visibility     string  `json:"visibility"`
	Status         string  `json:"status"`
	Color          string  `json:"color"`
	Icon           string  `json:"icon"`
	Position       int     `json:"position"`
	Settings       JSONMap `json:"settings"`
	OrganizationID *string `json:"organization_id"`
}

type BoardUpdateRequest struct {
	Name           *string  `json:"name,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Visibility     *string  `json:"visibility,omitempty"`
	Status         *string  `json:"status,omitempty"`
	Color          *string  `json:"color,omitempty"`
	Icon           *string  `json:"icon,omitempty"`
	Position       *int     `json:"position,omitempty"`
	Settings       *JSONMap `json:"settings,omitempty"`
	OrganizationID *string  `json:"organization_id,omitempty"`
}

type BoardListResponse struct {
	Boards []DbBoard `json:"boards"`
	Meta   *Meta     `json:"meta"`
}
