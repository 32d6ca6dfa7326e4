package model

import (
	"time"
)

// ApprovalRequest 审批申请，关联唯一一条表单提交
// 状态只允许 pending→approved 或 pending→rejected，终态不可变更
type ApprovalRequest struct {
	ID               string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FormSubmissionID string     `json:"form_submission_id" gorm:"type:varchar(36);not null;index"`
	RequesterID      string     `json:"requester_id" gorm:"type:varchar(36);not null;index"`
	Status           string     `json:"status" gorm:"type:varchar(20);default:'pending';not null;index"`
	ApprovedByID     string     `json:"approved_by_id" gorm:"type:varchar(36)"`
	Reason           string     `json:"reason" gorm:"type:text"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ResolvedAt       *time.Time `json:"resolved_at"`

	FormSubmission *FormSubmission `json:"form_submission,omitempty" gorm:"foreignKey:FormSubmissionID"`
}

// TableName 指定表名
func (ApprovalRequest) TableName() string {
	return "approval_requests"
}
