package repository

import (
	"time"

	"subpay/internal/domain"
	"subpay/internal/models"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Create(s *models.Subscription) error
	GetByID(tenantID, id string) (*models.Subscription, error)
	Update(s *models.Subscription) error
	ListActiveByTenant(tenantID string) ([]models.Subscription, error)
	// ListActiveEndedBefore returns active subscriptions whose period has
	// lapsed. An empty tenantID means all tenants.
	ListActiveEndedBefore(tenantID string, cutoff time.Time) ([]models.Subscription, error)
	ListByTenant(tenantID string) ([]models.Subscription, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(s *models.Subscription) error {
	return r.db.Create(s).Error
}

func (r *subscriptionRepository) GetByID(tenantID, id string) (*models.Subscription, error) {
	var s models.Subscription
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *subscriptionRepository) Update(s *models.Subscription) error {
	return r.db.Save(s).Error
}

func (r *subscriptionRepository) ListActiveByTenant(tenantID string) ([]models.Subscription, error) {
	var list []models.Subscription
	err := r.db.Where("tenant_id = ? AND status = ?", tenantID, domain.SubscriptionStatusActive).Find(&list).Error
	return list, err
}

func (r *subscriptionRepository) ListActiveEndedBefore(tenantID string, cutoff time.Time) ([]models.Subscription, error) {
	q := r.db.Where("status = ? AND current_period_end < ?", domain.SubscriptionStatusActive, cutoff)
	if tenantID != "" {
		q = q.Where("tenant_id = ?", tenantID)
	}
	var list []models.Subscription
	err := q.Find(&list).Error
	return list, err
}

func (r *subscriptionRepository) ListByTenant(tenantID string) ([]models.Subscription, error) {
	var list []models.Subscription
	err := r.db.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&list).Error
	return list, err
}
