package repository

import (
	"github.com/fisker/formflow-backend/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(submission *model.FormSubmission) error {
	return r.db.Create(submission).Error
}

func (r *SubmissionRepository) FindByID(id string) (*model.FormSubmission, error) {
	var submission model.FormSubmission
	if err := r.db.Where("id = ?", id).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListByForm 分页查询某表单的提交记录
func (r *SubmissionRepository) ListByForm(formID string, page, pageSize int) ([]model.FormSubmission, int64, error) {
	query := r.db.Model(&model.FormSubmission{}).Where("form_id = ?", formID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var submissions []model.FormSubmission
	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&submissions).Error
	return submissions, total, err
}

// ListByUser 查询某用户的提交记录
func (r *SubmissionRepository) ListByUser(userID string, page, pageSize int) ([]model.FormSubmission, int64, error) {
	query := r.db.Model(&model.FormSubmission{}).Where("submitted_by = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var submissions []model.FormSubmission
	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&submissions).Error
	return submissions, total, err
}
