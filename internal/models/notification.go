package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Notification records one delivery attempt through one channel. Status
// is written to its terminal value (sent or failed) exactly once, after
// the dispatcher's retry loop resolves.
type Notification struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	TenantID  string         `gorm:"size:36;index" json:"tenant_id,omitempty"`
	Type      string         `gorm:"size:50;not null;index" json:"type"`
	Channel   string         `gorm:"size:20;not null;index" json:"channel"`
	Recipient string         `gorm:"size:255;not null" json:"recipient"`
	Subject   string         `gorm:"size:255" json:"subject,omitempty"`
	Body      string         `gorm:"type:text" json:"body"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // pending, sent, failed
	Metadata  string         `gorm:"type:text" json:"-"`                   // JSON map
	SentAt    *time.Time     `json:"sent_at,omitempty"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) MetadataMap() map[string]string {
	m := map[string]string{}
	if n.Metadata != "" {
		_ = json.Unmarshal([]byte(n.Metadata), &m)
	}
	return m
}

func (n *Notification) SetMetadataMap(m map[string]string) {
	if len(m) == 0 {
		n.Metadata = ""
		return
	}
	b, _ := json.Marshal(m)
	n.Metadata = string(b)
}
