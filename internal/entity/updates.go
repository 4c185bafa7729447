package entity

import "time"

// UserUpdates holds the mutable user columns.
type UserUpdates struct {
	FirstName      *string
	LastName       *string
	Role           *string
	OrganizationID *string
	PasswordHash   *string
	IsActive       *bool

	IsEmailVerified          *bool
	EmailVerificationToken   *string
	EmailVerificationExpires *time.Time
	ResetPasswordToken       *string
	ResetPasswordExpires     *time.Time
	LastLoginAt              *time.Time

	// Clear* drop the corresponding nullable column instead of writing a
	// value. A pointer-of-pointer encoding would be harder to read at call
	// sites.
	ClearEmailVerificationToken bool
	ClearResetPasswordToken     bool
}

// ToMap converts to a GORM updates map.
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.FirstName != nil {
		updates["first_name"] = *u.FirstName
	}
	if u.LastName != nil {
		updates["last_name"] = *u.LastName
	}
	if u.Role != nil {
		updates["role"] = *u.Role
	}
	if u.OrganizationID != nil {
		updates["organization_id"] = *u.OrganizationID
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	if u.IsEmailVerified != nil {
		updates["is_email_verified"] = *u.IsEmailVerified
	}
	if u.EmailVerificationToken != nil {
		updates["email_verification_token"] = *u.EmailVerificationToken
	}
	if u.EmailVerificationExpires != nil {
		updates["email_verification_expires"] = *u.EmailVerificationExpires
	}
	if u.ResetPasswordToken != nil {
		updates["reset_password_token"] = *u.ResetPasswordToken
	}
	if u.ResetPasswordExpires != nil {
		updates["reset_password_expires"] = *u.ResetPasswordExpires
	}
	if u.LastLoginAt != nil {
		updates["last_login_at"] = *u.LastLoginAt
	}
	if u.ClearEmailVerificationToken {
		updates["email_verification_token"] = nil
		updates["email_verification_expires"] = nil
	}
	if u.ClearResetPasswordToken {
		updates["reset_password_token"] = nil
		updates["reset_password_expires"] = nil
	}
	return updates
}

// IsEmpty checks whether there is nothing to update.
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// SessionUpdates holds the mutable session columns.
type SessionUpdates struct {
	RefreshToken *string
	ExpiresAt    *time.Time
	IsActive     *bool
	LastUsedAt   *time.Time
}

// ToMap converts to a GORM updates map.
func (u SessionUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.RefreshToken != nil {
		updates["refresh_token"] = *u.RefreshToken
	}
	if u.ExpiresAt != nil {
		updates["expires_at"] = *u.ExpiresAt
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	if u.LastUsedAt != nil {
		updates["last_used_at"] = *u.LastUsedAt
	}
	return updates
}

// OrganizationUpdates holds the mutable organization columns.
type OrganizationUpdates struct {
	Name        *string
	Description *string
	Website     *string
	IsActive    *bool
	Settings    *JSONMap
}

// ToMap converts to a GORM updates map.
func (u OrganizationUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Website != nil {
		updates["website"] = *u.Website
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	if u.Settings != nil {
		updates["settings"] = *u.Settings
	}
	return updates
}

// BoardUpdates holds the mutable board columns.
type BoardUpdates struct {
	Name           *string
	Description    *string
	Visibility     *string
	Status         *string
	Color          *string
	Icon           *string
	Position       *int
	Settings       *JSONMap
	OrganizationID *string
}

// ToMap converts to a GORM updates map.
func (u BoardUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Visibility != nil {
		updates["visibility"] = *u.Visibility
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.Color != nil {
		updates["color"] = *u.Color
	}
	if u.Icon != nil {
		updates["icon"] = *u.Icon
	}
	if u.Position != nil {
		updates["position"] = *u.Position
	}
	if u.Settings != nil {
		updates["settings"] = *u.Settings
	}
	if u.OrganizationID != nil {
		updates["organization_id"] = *u.OrganizationID
	}
	return updates
}

// IsEmpty checks whether there is nothing to update.
func (u BoardUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// TaskUpdates holds the mutable task columns.
type TaskUpdates struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	DueDate        *time.Time
	StartDate      *time.Time
	CompletedAt    *time.Time
	EstimatedHours *int
	ActualHours    *int
	Position       *int
	Tags           *StringArray
	Metadata       *JSONMap
	AssignedUserID *string

	ClearAssignedUser bool
	ClearCompletedAt  bool
}

// ToMap converts to a GORM updates map.
func (u TaskUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.Priority != nil {
		updates["priority"] = *u.Priority
	}
	if u.DueDate != nil {
		updates["due_date"] = *u.DueDate
	}
	if u.StartDate != nil {
		updates["start_date"] = *u.StartDate
	}
	if u.CompletedAt != nil {
		updates["completed_at"] = *u.CompletedAt
	}
	if u.EstimatedHours != nil {
		updates["estimated_hours"] = *u.EstimatedHours
	}
	if u.ActualHours != nil {
		updates["actual_hours"] = *u.ActualHours
	}
	if u.Position != nil {
		updates["position"] = *u.Position
	}
	if u.Tags != nil {
		updates["tags"] = *u.Tags
	}
	if u.Metadata != nil {
		updates["metadata"] = *u.Metadata
	}
	if u.AssignedUserID != nil {
		updates["assigned_user_id"] = *u.AssignedUserID
	}
	if u.ClearAssignedUser {
		updates["assigned_user_id"] = nil
	}
	if u.ClearCompletedAt {
		updates["completed_at"] = nil
	}
	return updates
}

// IsEmpty checks whether there is nothing to update.
func (u TaskUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// CommentUpdates holds the mutable comment columns.
type CommentUpdates struct {
	Content  *string
	IsEdited *bool
}

// ToMap converts to a GORM updates map.
func (u CommentUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Content != nil {
		updates["content"] = *u.Content
	}
	if u.IsEdited != nil {
		updates["is_edited"] = *u.IsEdited
	}
	return updates
}

// NotificationUpdates holds the mutable notification columns.
type NotificationUpdates struct {
	IsRead *bool
	ReadAt *time.Time
}

// ToMap converts to a GORM updates map.
func (u NotificationUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.IsRead != nil {
		updates["is_read"] = *u.IsRead
	}
	if u.ReadAt != nil {
		updates["read_at"] = *u.ReadAt
	}
	return updates
}
