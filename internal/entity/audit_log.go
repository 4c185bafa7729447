package entity

import "time"

const (
	AuditActionCreate   = "create"
	AuditActionUpdate   = "update"
	AuditActionDelete   = "delete"
	AuditActionLogin    = "login"
	AuditActionLogout   = "logout"
	AuditActionAssign   = "assign"
	AuditActionUnassign = "unassign"
	AuditActionUpload   = "upload"
	AuditActionArchive  = "archive"
	AuditActionRestore  = "restore"
)

const (
	AuditEntityUser         = "user"
	AuditEntityOrganization = "organization"
	AuditEntityBoard        = "board"
	AuditEntityTask         = "task"
	AuditEntityComment      = "comment"
	AuditEntityAttachment   = "attachment"
	AuditEntityAuth         = "auth"
)

// DbAuditLog is an append-only record of a privileged or security-relevant
// action. Rows are never updated.
type DbAuditLog struct {
	ID         string    `gorm:"column:id;type:varchar(36);primarykey" json:"id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	ActorID    string    `gorm:"column:actor_id;type:varchar(36);index" json:"actor_id"`
	ActorEmail string    `gorm:"column:actor_email;type:varchar(255)" json:"actor_email"`
	Action     string    `gorm:"column:action;type:varchar(50);index;not null" json:"action"`
	EntityType string    `gorm:"column:entity_type;type:varchar(50);index;not null" json:"entity_type"`
	EntityID   string    `gorm:"column:entity_id;type:varchar(36);index" json:"entity_id"`
	Detail     JSONMap   `gorm:"column:detail;type:text" json:"detail"`
}

// TableName overrides the default pluralised name.
func (DbAuditLog) TableName() string {
	return "audit_logs"
}

type AuditLogQuery struct {
	BaseParams
	ActorID    string `json:"actor_id" form:"actor_id" query:"actor_id"`
	Action     string `json:"action" form:"action" query:"action"`
	EntityType string `json:"entity_type" form:"entity_type" query:"entity_type"`
}

type AuditLogListResponse struct {
	Logs []DbAuditLog `json:"logs"`
	Meta *Meta        `json:"meta"`
}
