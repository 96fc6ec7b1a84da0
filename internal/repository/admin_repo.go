package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/academy_server/internal/model"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(admin *model.Admin) error {
	return r.db.Create(admin).Error
}

func (r *AdminRepository) GetByID(id int64) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.Where("id = ?", id).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) GetByUsername(username string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.Where("username = ?", username).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) UpdatePasswordHash(id int64, hash string) error {
	return r.db.Model(&model.Admin{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *AdminRepository) UpdateLastLogin(id int64, at time.Time) error {
	return r.db.Model(&model.Admin{}).Where("id = ?", id).Update("last_login_at", at).Error
}
