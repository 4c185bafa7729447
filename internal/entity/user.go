package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	UserRoleSuperAdmin = "super_admin"
	UserRoleAdmin      = "admin"
	UserRoleUser       = "user"
	UserRoleGuest      = "guest"
)

// UserRoles lists every role the system recognises.
var UserRoles = []string{UserRoleSuperAdmin, UserRoleAdmin, UserRoleUser, UserRoleGuest}

// IsValidRole reports whether role is one of the fixed role enumeration.
func IsValidRole(role string) bool {
	for _, r := range UserRoles {
		if r == role {
			return true
		}
	}
	return false
}

// DbUser represents a persisted user account.
type DbUser struct {
	ID              string         `gorm:"column:id;type:varchar(36);primarykey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Email           string         `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash    string         `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	FirstName       string         `gorm:"column:first_name;type:varchar(100)" json:"first_name"`
	LastName        string         `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	Role            string         `gorm:"column:role;type:varchar(50);index;not null" json:"role"`
	OrganizationID  *string        `gorm:"column:organization_id;type:varchar(36);index" json:"organization_id"`
	IsActive        bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsEmailVerified bool           `gorm:"column:is_email_verified;not null;default:false" json:"is_email_verified"`

	EmailVerificationToken   *string    `gorm:"column:email_verification_token;type:varchar(128);index" json:"-"`
	EmailVerificationExpires *time.Time `gorm:"column:email_verification_expires" json:"-"`
	ResetPasswordToken       *string    `gorm:"column:reset_password_token;type:varchar(128);index" json:"-"`
	ResetPasswordExpires     *time.Time `gorm:"column:reset_password_expires" json:"-"`
	LastLoginAt              *time.Time `gorm:"column:last_login_at" json:"last_login_at"`
}

// TableName overrides the default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// FullName joins first and last name for display.
func (u *DbUser) FullName() string {
	if u == nil {
		return ""
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserSummary is a lightweight user description returned to clients.
type UserSummary struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	FullName        string     `json:"full_name"`
	Role            string     `json:"role"`
	OrganizationID  *string    `json:"organization_id"`
	IsActive        bool       `json:"is_active"`
	IsEmailVerified bool       `json:"is_email_verified"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// MakeUserSummary converts a row into its client-facing shape.
func MakeUserSummary(user *DbUser) UserSummary {
	if user == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		FullName:        user.FullName(),
		Role:            user.Role,
		OrganizationID:  user.OrganizationID,
		IsActive:        user.IsActive,
		IsEmailVerified: user.IsEmailVerified,
		LastLoginAt:     user.LastLoginAt,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

// UserQuery supports listing users with pagination.
type UserQuery struct {
	BaseParams
	Role           string `json:"role" form:"role" query:"role"`
	OrganizationID string `json:"organization_id" form:"organization_id" query:"organization_id"`
	Keyword        string `json:"keyword" form:"keyword" query:"keyword"`
}

type UserCreateRequest struct {
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=8"`
	FirstName      string  `json:"first_name" binding:"required"`
	LastName       string  `json:"last_name" binding:"required"`
	Role           string  `json:"role" binding:"required"`
	OrganizationID *string `json:"organization_id"`
	IsActive       *bool   `json:"is_active"`
}

type UserUpdateRequest struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Role           *string `json:"role,omitempty"`
	OrganizationID *string `json:"organization_id,omitempty"`
	Password       *string `json:"password,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

type UserListResponse struct {
	Users []UserSummary `json:"users"`
	Meta  *Meta         `json:"meta"`
}
