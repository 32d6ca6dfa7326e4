package model

import (
	"time"

	"gorm.io/datatypes"
)

// FormSubmission 表单提交记录
// Data 存储 name→value 的提交数据快照，创建后不可变（审批流只附加 ApprovalRequest，不改动 Data）
type FormSubmission struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FormID      string         `json:"form_id" gorm:"type:varchar(36);not null;index"`
	Data        datatypes.JSON `json:"data" gorm:"type:json;not null"`
	SubmittedBy string         `json:"submitted_by" gorm:"type:varchar(36);index"`
	CreatedAt   time.Time      `json:"created_at"`

	Form *Form `json:"form,omitempty" gorm:"foreignKey:FormID"`
}

// TableName 指定表名
func (FormSubmission) TableName() string {
	return "form_submissions"
}
