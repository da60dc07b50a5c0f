package domain

import "time"

// AuditLog records who changed what in a class shop. Ledger entries cover
// student spending; this covers teacher/admin catalog management.
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	Scope     string                 `db:"scope" json:"-"`
	ActorID   string                 `db:"actor_id" json:"actor_id"`
	ActorRole Role                   `db:"actor_role" json:"actor_role"`
	Action    string                 `db:"action" json:"action"`
	Details   map[string]interface{} `db:"details" json:"details,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Audit actions.
const (
	AuditActionItemCreate      = "item_create"
	AuditActionItemUpdate      = "item_update"
	AuditActionItemDelete      = "item_delete"
	AuditActionItemHide        = "item_hide"
	AuditActionItemUnhide      = "item_unhide"
	AuditActionTeacherRegister = "teacher_register"
	AuditActionImageUpload     = "image_upload"
)
