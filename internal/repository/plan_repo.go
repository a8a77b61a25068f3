package repository

import (
	"subpay/internal/models"

	"gorm.io/gorm"
)

type PlanRepository interface {
	Create(p *models.SubscriptionPlan) error
	GetByID(id string) (*models.SubscriptionPlan, error)
	GetByName(name string) (*models.SubscriptionPlan, error)
	Update(p *models.SubscriptionPlan) error
	List(activeOnly bool) ([]models.SubscriptionPlan, error)
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(p *models.SubscriptionPlan) error {
	return r.db.Create(p).Error
}

func (r *planRepository) GetByID(id string) (*models.SubscriptionPlan, error) {
	var p models.SubscriptionPlan
	err := r.db.First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *planRepository) GetByName(name string) (*models.SubscriptionPlan, error) {
	var p models.SubscriptionPlan
	err := r.db.Where("name = ?", name).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *planRepository) Update(p *models.SubscriptionPlan) error {
	return r.db.Save(p).Error
}

func (r *planRepository) List(activeOnly bool) ([]models.SubscriptionPlan, error) {
	q := r.db.Order("price_cents ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var list []models.SubscriptionPlan
	err := q.Find(&list).Error
	return list, err
}
