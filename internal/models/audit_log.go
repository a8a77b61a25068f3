package models

import "time"

type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TenantID   string    `gorm:"size:36;index" json:"tenant_id"`
	ActorID    *string   `gorm:"size:36" json:"actor_id,omitempty"`
	Action     string    `gorm:"size:64;not null;index" json:"action"`
	Resource   string    `gorm:"size:64;not null" json:"resource"`
	ResourceID string    `gorm:"size:64;index" json:"resource_id"`
	Detail     string    `gorm:"size:512" json:"detail,omitempty"`
	IP         string    `gorm:"size:64" json:"ip,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
