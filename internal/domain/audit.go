package domain

import "time"

// AuditAction 감사 로그 액션
type AuditAction string

const (
	AuditCreate       AuditAction = "create"
	AuditUpdate       AuditAction = "update"
	AuditChangeStatus AuditAction = "change_status"
	AuditDelete       AuditAction = "delete"
	AuditRollback     AuditAction = "rollback"
	AuditLock         AuditAction = "lock"
	AuditUnlock       AuditAction = "unlock"
)

// Audited resource types
const (
	ResourceArticle   = "article"
	ResourceChecklist = "article_checklist"
)

// AuditEntry append-only record of a committed mutation
type AuditEntry struct {
	ID         string      `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID     string      `gorm:"column:user_id;type:varchar(36);index" json:"user_id"`
	Action     AuditAction `gorm:"column:action;type:varchar(30);not null" json:"action"`
	Resource   string      `gorm:"column:resource;type:varchar(50);not null;index:idx_audit_logs_resource,priority:1" json:"resource"`
	ResourceID string      `gorm:"column:resource_id;type:varchar(36);index:idx_audit_logs_resource,priority:2" json:"resource_id"`
	Changes    *string     `gorm:"column:changes;type:text" json:"changes,omitempty"`
	RequestID  string      `gorm:"column:request_id;type:varchar(64)" json:"request_id,omitempty"`
	CreatedAt  time.Time   `gorm:"column:created_at;index" json:"created_at"`
}

func (AuditEntry) TableName() string { return "audit_logs" }
