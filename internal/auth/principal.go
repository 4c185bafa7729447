package auth

import "taskboard/internal/entity"

// Principal is the authenticated identity reconstructed on every request
// from the live user row plus token claims. It is never built from an
// inactive user.
type Principal struct {
	UserID          string
	Email           string
	Role            string
	OrganizationID  *string
	SessionID       string
	IsEmailVerified bool
	IsActive        bool
}

// NewPrincipal combines the freshly loaded user row with the token's session
// claim. Role, organization and active flags come from the row, not the
// token, so demotions and deactivations take effect on the next request.
func NewPrincipal(user *entity.DbUser, sessionID string) Principal {
	return Principal{
		UserID:          user.ID,
		Email:           user.Email,
		Role:            user.Role,
		OrganizationID:  user.OrganizationID,
		SessionID:       sessionID,
		IsEmailVerified: user.IsEmailVerified,
		IsActive:        user.IsActive,
	}
}

// IsAdmin reports whether the principal holds an admin-level role.
func (p Principal) IsAdmin() bool {
	return p.Role == entity.UserRoleAdmin || p.Role == entity.UserRoleSuperAdmin
}

// IsSuperAdmin reports whether the principal is the super administrator.
func (p Principal) IsSuperAdmin() bool {
	return p.Role == entity.UserRoleSuperAdmin
}

// IsPrivileged reports whether ownership rules are bypassed for this
// principal. Only admin and super_admin skip the resource-level checks.
func (p Principal) IsPrivileged() bool {
	return p.IsAdmin()
}

// SameOrganization reports whether the principal belongs to the given
// organization.
func (p Principal) SameOrganization(orgID *string) bool {
	if p.OrganizationID == nil || orgID == nil {
		return false
	}
	return *p.OrganizationID == *orgID
}
