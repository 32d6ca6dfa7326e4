package repository

import (
	"github.com/fisker/formflow-backend/internal/model"
	"gorm.io/gorm"
)

type DataSourceRepository struct {
	db *gorm.DB
}

func NewDataSourceRepository(db *gorm.DB) *DataSourceRepository {
	return &DataSourceRepository{db: db}
}

// Create 创建数据源
func (r *DataSourceRepository) Create(source *model.DataSource) error {
	return r.db.Create(source).Error
}

func (r *DataSourceRepository) FindByID(id string) (*model.DataSource, error) {
	var source model.DataSource
	if err := r.db.Where("id = ?", id).First(&source).Error; err != nil {
		return nil, err
	}
	return &source, nil
}

// FindAll 查询全部数据源
func (r *DataSourceRepository) FindAll() ([]model.DataSource, error) {
	var sources []model.DataSource
	err := r.db.Order("created_at DESC").Find(&sources).Error
	return sources, err
}

// Update 更新数据源
func (r *DataSourceRepository) Update(source *model.DataSource) error {
	return r.db.Save(source).Error
}

// Delete 删除数据源
func (r *DataSourceRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.DataSource{}).Error
}
