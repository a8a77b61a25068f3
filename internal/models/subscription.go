package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription is tenant-scoped. At most one subscription per tenant is
// active at any instant; activation cancels the previous active one.
type Subscription struct {
	ID                 string         `gorm:"primaryKey;size:36" json:"id"`
	TenantID           string         `gorm:"size:36;not null;index" json:"tenant_id"`
	PlanID             string         `gorm:"size:36;not null;index" json:"plan_id"`
	Status             string         `gorm:"size:20;not null;index" json:"status"` // active, canceled, expired, past_due
	CurrentPeriodStart time.Time      `gorm:"not null" json:"current_period_start"`
	CurrentPeriodEnd   time.Time      `gorm:"not null" json:"current_period_end"`
	CanceledAt         *time.Time     `json:"canceled_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Tenant Tenant           `gorm:"foreignKey:TenantID" json:"-"`
	Plan   SubscriptionPlan `gorm:"foreignKey:PlanID" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// InPeriod reports whether the subscription covers t regardless of its
// stored status. Sweeps run periodically, so a row can read active while
// its period has already lapsed; callers needing a live answer use this.
func (s *Subscription) InPeriod(t time.Time) bool {
	return !t.Before(s.CurrentPeriodStart) && t.Before(s.CurrentPeriodEnd)
}
