package auth

import (
	"testing"

	"taskboard/internal/entity"
)

func TestEveryRoleHasPermissions(t *testing.T) {
	table := DefaultTable()
	for _, role := range entity.UserRoles {
		perms := table.PermissionsFor(role)
		if len(perms) == 0 {
			t.Errorf("role %s has an empty permission set", role)
		}
	}
}

func TestSuperAdminHoldsTheUniverse(t *testing.T) {
	table := DefaultTable()
	superSet := make(map[Permission]struct{})
	for _, p := range table.PermissionsFor(entity.UserRoleSuperAdmin) {
		superSet[p] = struct{}{}
	}
	if len(superSet) != len(AllPermissions) {
		t.Fatalf("super_admin holds %d permissions, universe has %d", len(superSet), len(AllPermissions))
	}
	for _, role := range entity.UserRoles {
		for _, p := range table.PermissionsFor(role) {
			if _, ok := superSet[p]; !ok {
				t.Errorf("permission %s of role %s missing from super_admin", p, role)
			}
		}
	}
}

func TestHasPermission(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		role    string
		perm    Permission
		allowed bool
	}{
		{entity.UserRoleGuest, PermReadBoard, true},
		{entity.UserRoleGuest, PermCreateTask, false},
		{entity.UserRoleGuest, PermCreateComment, false},
		{entity.UserRoleUser, PermCreateTask, true},
		{entity.UserRoleUser, PermDeleteUser, false},
		{entity.UserRoleUser, PermAssignTask, false},
		{entity.UserRoleAdmin, PermDeleteUser, true},
		{entity.UserRoleAdmin, PermAssignTask, true},
		{entity.UserRoleAdmin, PermManageSystemSettings, false},
		{entity.UserRoleSuperAdmin, PermManageSystemSettings, true},
		{"unknown", PermReadBoard, false},
	}

	for _, tt := range tests {
		if got := table.HasPermission(tt.role, tt.perm); got != tt.allowed {
			t.Errorf("HasPermission(%s, %s) = %v, expected %v", tt.role, tt.perm, got, tt.allowed)
		}
	}
}

func TestPolicyAllows(t *testing.T) {
	table := DefaultTable()
	admin := Principal{UserID: "a", Role: entity.UserRoleAdmin}
	member := Principal{UserID: "u", Role: entity.UserRoleUser}

	tests := []struct {
		name      string
		policy    Policy
		principal Principal
		allowed   bool
	}{
		{
			name:      "permission only, role holds it",
			policy:    Policy{Permission: PermCreateTask},
			principal: member,
			allowed:   true,
		},
		{
			name:      "permission only, role lacks it",
			policy:    Policy{Permission: PermDeleteUser},
			principal: member,
			allowed:   false,
		},
		{
			name:      "permission and role list both pass",
			policy:    Policy{Permission: PermDeleteUser, Roles: []string{entity.UserRoleAdmin, entity.UserRoleSuperAdmin}},
			principal: admin,
			allowed:   true,
		},
		{
			name:      "permission passes but role list excludes",
			policy:    Policy{Permission: PermReadBoard, Roles: []string{entity.UserRoleSuperAdmin}},
			principal: admin,
			allowed:   false,
		},
		{
			name:      "role list passes but permission missing",
			policy:    Policy{Permission: PermManageSystemSettings, Roles: []string{entity.UserRoleAdmin}},
			principal: admin,
			allowed:   false,
		},
		{
			name:      "empty policy allows any authenticated principal",
			policy:    Policy{},
			principal: member,
			allowed:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Allows(table, tt.principal); got != tt.allowed {
				t.Fatalf("Allows() = %v, expected %v", got, tt.allowed)
			}
		})
	}
}
