package repository

import (
	"time"

	"subpay/internal/domain"
	"subpay/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(p *models.Payment) error
	GetByID(tenantID, id string) (*models.Payment, error)
	Update(p *models.Payment) error
	ListByTenant(tenantID string, limit, offset int) ([]models.Payment, error)
	ListPendingExpiredBefore(cutoff time.Time) ([]models.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *paymentRepository) GetByID(tenantID, id string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Update(p *models.Payment) error {
	return r.db.Save(p).Error
}

func (r *paymentRepository) ListByTenant(tenantID string, limit, offset int) ([]models.Payment, error) {
	var list []models.Payment
	err := r.db.Where("tenant_id = ?", tenantID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *paymentRepository) ListPendingExpiredBefore(cutoff time.Time) ([]models.Payment, error) {
	var list []models.Payment
	err := r.db.Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", domain.PaymentStatusPending, cutoff).Find(&list).Error
	return list, err
}
