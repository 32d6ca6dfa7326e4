package repository

import (
	"github.com/fisker/formflow-backend/internal/model"
	"gorm.io/gorm"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(app *model.Application) error {
	return r.db.Create(app).Error
}

func (r *ApplicationRepository) FindByID(id string) (*model.Application, error) {
	var app model.Application
	if err := r.db.Where("id = ?", id).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) FindAll() ([]model.Application, error) {
	var apps []model.Application
	err := r.db.Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepository) Update(app *model.Application) error {
	return r.db.Save(app).Error
}

func (r *ApplicationRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Application{}).Error
}
