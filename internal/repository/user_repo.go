package repository

import (
	"subpay/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(u *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(u *models.User) error
	ListByTenant(tenantID string) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *userRepository) GetByID(id string) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

func (r *userRepository) ListByTenant(tenantID string) ([]models.User, error) {
	var list []models.User
	err := r.db.Where("tenant_id = ?", tenantID).Find(&list).Error
	return list, err
}
