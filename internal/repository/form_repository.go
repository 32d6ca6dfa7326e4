package repository

import (
	"github.com/fisker/formflow-backend/internal/model"
	"gorm.io/gorm"
)

type FormRepository struct {
	db *gorm.DB
}

func NewFormRepository(db *gorm.DB) *FormRepository {
	return &FormRepository{db: db}
}

func (r *FormRepository) Create(form *model.Form) error {
	return r.db.Create(form).Error
}

func (r *FormRepository) FindByID(id string) (*model.Form, error) {
	var form model.Form
	if err := r.db.Where("id = ?", id).First(&form).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

// List 按条件分页查询表单
// includeUnpublished 为 false 时只返回已发布的表单（非管理员视角）
func (r *FormRepository) List(applicationID string, includeUnpublished bool, page, pageSize int) ([]model.Form, int64, error) {
	query := r.db.Model(&model.Form{})
	if applicationID != "" {
		query = query.Where("application_id = ?", applicationID)
	}
	if !includeUnpublished {
		query = query.Where("is_published = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var forms []model.Form
	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&forms).Error
	return forms, total, err
}

func (r *FormRepository) Update(form *model.Form) error {
	return r.db.Save(form).Error
}

// SetPublished 更新发布状态
func (r *FormRepository) SetPublished(id string, published bool) error {
	return r.db.Model(&model.Form{}).
		Where("id = ?", id).
		Update("is_published", published).Error
}

func (r *FormRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Form{}).Error
}
