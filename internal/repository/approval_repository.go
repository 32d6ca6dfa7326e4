package repository

import (
	"errors"
	"time"

	"github.com/fisker/formflow-backend/internal/engine"
	"github.com/fisker/formflow-backend/internal/model"
	"gorm.io/gorm"
)

type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

// Create 创建审批申请
// 同一提交同一时刻只允许一条 pending 申请：存在活跃申请时拒绝创建
func (r *ApprovalRepository) Create(request *model.ApprovalRequest) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.ApprovalRequest{}).
			Where("form_submission_id = ? AND status = ?", request.FormSubmissionID, string(engine.ApprovalPending)).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return engine.ErrInvalidStateTransition
		}
		return tx.Create(request).Error
	})
}

func (r *ApprovalRepository) FindByID(id string) (*model.ApprovalRequest, error) {
	var request model.ApprovalRequest
	if err := r.db.Where("id = ?", id).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// FindPendingBySubmission 查找提交的活跃（pending）审批申请
func (r *ApprovalRepository) FindPendingBySubmission(submissionID string) (*model.ApprovalRequest, error) {
	var request model.ApprovalRequest
	err := r.db.Where("form_submission_id = ? AND status = ?", submissionID, string(engine.ApprovalPending)).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Resolve 处理审批申请
// 通过对 status=pending 的条件更新做 compare-and-swap：两个审批人竞争同一条
// 申请时只有一个更新生效，另一个拿到 ErrInvalidStateTransition
func (r *ApprovalRepository) Resolve(requestID string, status engine.ApprovalStatus, approverID, reason string) error {
	if err := engine.Transition(engine.ApprovalPending, status); err != nil {
		return err
	}

	now := time.Now()
	result := r.db.Model(&model.ApprovalRequest{}).
		Where("id = ? AND status = ?", requestID, string(engine.ApprovalPending)).
		Updates(map[string]interface{}{
			"status":         string(status),
			"approved_by_id": approverID,
			"reason":         reason,
			"resolved_at":    now,
			"updated_at":     now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 申请不存在或已被其他审批人处理
		return engine.ErrInvalidStateTransition
	}
	return nil
}

// List 按条件分页查询审批申请
func (r *ApprovalRepository) List(status, requesterID string, page, pageSize int) ([]model.ApprovalRequest, int64, error) {
	query := r.db.Model(&model.ApprovalRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if requesterID != "" {
		query = query.Where("requester_id = ?", requesterID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []model.ApprovalRequest
	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Preload("FormSubmission").Find(&requests).Error
	return requests, total, err
}

// IsNotFound 判断是否为记录不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
