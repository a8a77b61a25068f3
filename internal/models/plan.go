package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// PlanFeature is one entry of a plan's feature list, stored as JSON.
type PlanFeature struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SubscriptionPlan is global, not tenant-scoped. Updating a plan does not
// rewrite periods already computed for existing subscriptions.
type SubscriptionPlan struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	Name       string         `gorm:"uniqueIndex;size:128;not null" json:"name"`
	PriceCents int64          `gorm:"not null" json:"price_cents"`
	Currency   string         `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Interval   string         `gorm:"size:16;not null" json:"interval"` // monthly | yearly | lifetime
	Features   string         `gorm:"type:text" json:"-"`               // JSON []PlanFeature
	Limits     string         `gorm:"type:text" json:"-"`               // JSON map[string]int64
	Active     bool           `gorm:"default:true;index" json:"active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

func (p *SubscriptionPlan) FeatureList() []PlanFeature {
	var features []PlanFeature
	if p.Features != "" {
		_ = json.Unmarshal([]byte(p.Features), &features)
	}
	return features
}

func (p *SubscriptionPlan) SetFeatureList(features []PlanFeature) {
	b, _ := json.Marshal(features)
	p.Features = string(b)
}

func (p *SubscriptionPlan) LimitMap() map[string]int64 {
	limits := map[string]int64{}
	if p.Limits != "" {
		_ = json.Unmarshal([]byte(p.Limits), &limits)
	}
	return limits
}

func (p *SubscriptionPlan) SetLimitMap(limits map[string]int64) {
	b, _ := json.Marshal(limits)
	p.Limits = string(b)
}
