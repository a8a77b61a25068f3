package repository

import (
	"time"

	"subpay/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(n *models.Notification) error
	Update(n *models.Notification) error
	ListByTenant(tenantID string, limit, offset int) ([]models.Notification, error)
	MarkRead(tenantID, id string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *notificationRepository) Update(n *models.Notification) error {
	return r.db.Save(n).Error
}

func (r *notificationRepository) ListByTenant(tenantID string, limit, offset int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Where("tenant_id = ?", tenantID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *notificationRepository) MarkRead(tenantID, id string) error {
	return r.db.Model(&models.Notification{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("read_at", time.Now()).Error
}
