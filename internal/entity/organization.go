package entity

import "time"

// DbOrganization groups users and boards under one tenant scope.
type DbOrganization struct {
	ID          string    `gorm:"column:id;type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"column:name;type:varchar(200);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Website     string    `gorm:"column:website;type:varchar(255)" json:"website"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Settings    JSONMap   `gorm:"column:settings;type:text" json:"settings"`
}

// TableName overrides the default pluralised name.
func (DbOrganization) TableName() string {
	return "organizations"
}

type OrganizationQuery struct {
	BaseParams
	Keyword string `json:"keyword" form:"keyword" query:"keyword"`
}

type OrganizationCreateRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=200"`
	Description string  `json:"description"`
	Website     string  `json:"website"`
	Settings    JSONMap `json:"settings"`
}

type OrganizationUpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Website     *string  `json:"website,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
	Settings    *JSONMap `json:"settings,omitempty"`
}

type OrganizationListResponse struct {
	Organizations []DbOrganization `json:"organizations"`
	Meta          *Meta            `json:"meta"`
}
