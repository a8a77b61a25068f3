package repository

import (
	"subpay/internal/models"

	"gorm.io/gorm"
)

type TenantRepository interface {
	Create(t *models.Tenant) error
	GetByID(id string) (*models.Tenant, error)
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) Create(t *models.Tenant) error {
	return r.db.Create(t).Error
}

func (r *tenantRepository) GetByID(id string) (*models.Tenant, error) {
	var t models.Tenant
	err := r.db.First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}
