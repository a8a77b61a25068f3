package repository

import (
	"subpay/internal/models"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(entry *models.AuditLog) error
	ListByTenant(tenantID string, limit, offset int) ([]models.AuditLog, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(entry *models.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *auditLogRepository) ListByTenant(tenantID string, limit, offset int) ([]models.AuditLog, error) {
	var list []models.AuditLog
	err := r.db.Where("tenant_id = ?", tenantID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
