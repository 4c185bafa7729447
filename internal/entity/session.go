package entity

import "time"

// DbSession ties a refresh token to a revocable per-device session row.
// Tokens alone cannot be revoked once signed; the row can.
type DbSession struct {
	ID           string    `gorm:"column:id;type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       string    `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	RefreshToken string    `gorm:"column:refresh_token;type:varchar(1024);index;not null" json:"-"`
	ExpiresAt    time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastUsedAt   time.Time `gorm:"column:last_used_at" json:"last_used_at"`

	UserAgent string `gorm:"column:user_agent;type:varchar(512)" json:"user_agent"`
	IPAddress string `gorm:"column:ip_address;type:varchar(64)" json:"ip_address"`
}

// TableName overrides the default pluralised name.
func (DbSession) TableName() string {
	return "user_sessions"
}

// IsUsable reports whether the session may still redeem its refresh token.
func (s *DbSession) IsUsable(now time.Time) bool {
	if s == nil {
		return false
	}
	return s.IsActive && !now.After(s.ExpiresAt)
}
