package auth

import (
	"sort"

	"taskboard/internal/entity"
)

// Permission identifies one permitted action as a "<verb>:<resource>" pair.
type Permission string

// The closed permission vocabulary.
const (
	// User management
	PermCreateUser      Permission = "create:user"
	PermReadUser        Permission = "read:user"
	PermUpdateUser      Permission = "update:user"
	PermDeleteUser      Permission = "delete:user"
	PermManageUserRoles Permission = "manage:user_roles"

	// Organization management
	PermCreateOrganization Permission = "create:organization"
	PermReadOrganization   Permission = "read:organization"
	PermUpdateOrganization Permission = "update:organization"
	PermDeleteOrganization Permission = "delete:organization"
	PermManageOrgSettings  Permission = "manage:organization_settings"

	// Board management
	PermCreateBoard           Permission = "create:board"
	PermReadBoard             Permission = "read:board"
	PermUpdateBoard           Permission = "update:board"
	PermDeleteBoard           Permission = "delete:board"
	PermManageBoardVisibility Permission = "manage:board_visibility"
	PermViewPublicBoards      Permission = "view:public_boards"
	PermViewPrivateBoards     Permission = "view:private_boards"

	// Task management
	PermCreateTask        Permission = "create:task"
	PermReadTask          Permission = "read:task"
	PermUpdateTask        Permission = "update:task"
	PermDeleteTask        Permission = "delete:task"
	PermAssignTask        Permission = "assign:task"
	PermUnassignTask      Permission = "unassign:task"
	PermUpdateTaskStatus  Permission = "update:task_status"
	PermViewAllTasks      Permission = "view:all_tasks"
	PermViewAssignedTasks Permission = "view:assigned_tasks"

	// Task comments
	PermCreateComment Permission = "create:comment"
	PermReadComment   Permission = "read:comment"
	PermUpdateComment Permission = "update:comment"
	PermDeleteComment Permission = "delete:comment"

	// File attachments
	PermUploadAttachment Permission = "upload:attachment"
	PermViewAttachment   Permission = "view:attachment"
	PermDeleteAttachment Permission = "delete:attachment"

	// Notifications
	PermCreateNotification         Permission = "create:notification"
	PermReadNotification           Permission = "read:notification"
	PermManageNotificationSettings Permission = "manage:notification_settings"

	// Audit and reporting
	PermReadAuditLogs Permission = "read:audit_logs"
	PermViewReports   Permission = "view:reports"
	PermExportData    Permission = "export:data"

	// System administration
	PermManageSystemSettings Permission = "manage:system_settings"
	PermManageSystemUsers    Permission = "manage:system_users"
	PermViewSystemStats      Permission = "view:system_stats"
)

// AllPermissions is the full permission universe.
var AllPermissions = []Permission{
	PermCreateUser, PermReadUser, PermUpdateUser, PermDeleteUser, PermManageUserRoles,
	PermCreateOrganization, PermReadOrganization, PermUpdateOrganization, PermDeleteOrganization, PermManageOrgSettings,
	PermCreateBoard, PermReadBoard, PermUpdateBoard, PermDeleteBoard, PermManageBoardVisibility,
	PermViewPublicBoards, PermViewPrivateBoards,
	PermCreateTask, PermReadTask, PermUpdateTask, PermDeleteTask, PermAssignTask, PermUnassignTask,
	PermUpdateTaskStatus, PermViewAllTasks, PermViewAssignedTasks,
	PermCreateComment, PermReadComment, PermUpdateComment, PermDeleteComment,
	PermUploadAttachment, PermViewAttachment, PermDeleteAttachment,
	PermCreateNotification, PermReadNotification, PermManageNotificationSettings,
	PermReadAuditLogs, PermViewReports, PermExportData,
	PermManageSystemSettings, PermManageSystemUsers, PermViewSystemStats,
}

// Table maps each role to its permitted actions. It is built once at startup
// and never mutated afterwards; the authorization gate receives it by
// injection.
type Table struct {
	byRole map[string]map[Permission]struct{}
}

// NewTable builds an immutable table from the given role-to-permissions map.
func NewTable(roles map[string][]Permission) *Table {
	byRole := make(map[string]map[Permission]struct{}, len(roles))
	for role, perms := range roles {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		byRole[role] = set
	}
	return &Table{byRole: byRole}
}

// DefaultTable returns the built-in role and permission mapping.
//
// guest can only view public boards; user works self-scoped on assigned
// tasks and own boards/comments; admin has organization-wide management but
// no cross-organization system settings; super_admin holds the universe.
func DefaultTable() *Table {
	return NewTable(map[string][]Permission{
		entity.UserRoleGuest: {
			PermViewPublicBoards,
			PermReadBoard,
		},
		entity.UserRoleUser: {
			PermReadUser,
			PermUpdateUser,

			PermViewPublicBoards,
			PermViewPrivateBoards,
			PermReadBoard,
			PermCreateBoard,
			PermUpdateBoard,
			PermDeleteBoard,

			PermViewAssignedTasks,
			PermReadTask,
			PermCreateTask,
			PermUpdateTask,
			PermUpdateTaskStatus,

			PermCreateComment,
			PermReadComment,
			PermUpdateComment,
			PermDeleteComment,

			PermUploadAttachment,
			PermViewAttachment,
			PermDeleteAttachment,

			PermReadNotification,
			PermManageNotificationSettings,
		},
		entity.UserRoleAdmin: {
			PermCreateUser,
			PermReadUser,
			PermUpdateUser,
			PermDeleteUser,
			PermManageUserRoles,

			PermReadOrganization,
			PermUpdateOrganization,
			PermManageOrgSettings,

			PermCreateBoard,
			PermReadBoard,
			PermUpdateBoard,
			PermDeleteBoard,
			PermManageBoardVisibility,
			PermViewPublicBoards,
			PermViewPrivateBoards,

			PermCreateTask,
			PermReadTask,
			PermUpdateTask,
			PermDeleteTask,
			PermAssignTask,
			PermUnassignTask,
			PermUpdateTaskStatus,
			PermViewAllTasks,
			PermViewAssignedTasks,

			PermCreateComment,
			PermReadComment,
			PermUpdateComment,
			PermDeleteComment,

			PermUploadAttachment,
			PermViewAttachment,
			PermDeleteAttachment,

			PermCreateNotification,
			PermReadNotification,
			PermManageNotificationSettings,

			PermViewReports,
			PermReadAuditLogs,
			PermExportData,

			PermManageSystemUsers,
		},
		entity.UserRoleSuperAdmin: AllPermissions,
	})
}

// HasPermission reports whether the role may perform the permission.
func (t *Table) HasPermission(role string, perm Permission) bool {
	if t == nil {
		return false
	}
	set, ok := t.byRole[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// PermissionsFor returns the role's permission set in stable order.
func (t *Table) PermissionsFor(role string) []Permission {
	if t == nil {
		return nil
	}
	set, ok := t.byRole[role]
	if !ok {
		return nil
	}
	perms := make([]Permission, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// Roles returns every role the table knows about.
func (t *Table) Roles() []string {
	if t == nil {
		return nil
	}
	roles := make([]string, 0, len(t.byRole))
	for r := range t.byRole {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}

// Policy is the per-action authorization descriptor attached to a route
// registration: the permission the role must hold, an optional role
// allow-list (checked as a logical AND with the permission), and whether the
// handler's ownership check is skipped for this action.
type Policy struct {
	Permission    Permission
	Roles         []string
	SkipOwnership bool
}

// Allows evaluates the static Layer A check for the principal.
func (pol Policy) Allows(t *Table, p Principal) bool {
	if pol.Permission != "" && !t.HasPermission(p.Role, pol.Permission) {
		return false
	}
	if len(pol.Roles) > 0 {
		found := false
		for _, r := range pol.Roles {
			if r == p.Role {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
