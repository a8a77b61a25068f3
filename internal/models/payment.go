package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Payment is a tenant-scoped payment record. Amount is fixed at creation;
// status only moves forward from pending to one terminal state.
type Payment struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	TenantID        string         `gorm:"size:36;not null;index" json:"tenant_id"`
	UserID          string         `gorm:"size:36;not null;index" json:"user_id"`
	PlanID          *string        `gorm:"size:36;index" json:"plan_id,omitempty"`
	AmountCents     int64          `gorm:"not null" json:"amount_cents"`
	Currency        string         `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Status          string         `gorm:"size:20;not null;index" json:"status"` // pending, confirmed, rejected, expired
	Method          string         `gorm:"size:50;not null" json:"method"`
	ProofFileID     *string        `gorm:"size:255" json:"proof_file_id,omitempty"`
	ConfirmedBy     *string        `gorm:"size:36" json:"confirmed_by,omitempty"`
	ConfirmedAt     *time.Time     `json:"confirmed_at,omitempty"`
	RejectionReason string         `gorm:"size:512" json:"rejection_reason,omitempty"`
	Metadata        string         `gorm:"type:text" json:"-"` // JSON map
	ExpiresAt       *time.Time     `json:"expires_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) MetadataMap() map[string]string {
	m := map[string]string{}
	if p.Metadata != "" {
		_ = json.Unmarshal([]byte(p.Metadata), &m)
	}
	return m
}

func (p *Payment) SetMetadataMap(m map[string]string) {
	if len(m) == 0 {
		p.Metadata = ""
		return
	}
	b, _ := json.Marshal(m)
	p.Metadata = string(b)
}
