package model

import (
	"time"

	"gorm.io/datatypes"
)

// Form 表单定义
// Elements 存储表单元素树（engine.FormElement 的JSON序列化结果）
type Form struct {
	ID            string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string         `json:"name" gorm:"type:varchar(100);not null"`
	Description   string         `json:"description" gorm:"type:text"`
	ApplicationID string         `json:"application_id" gorm:"type:varchar(36);index"`
	Elements      datatypes.JSON `json:"elements" gorm:"type:json;not null"`
	DataSourceID  string         `json:"data_source_id" gorm:"type:varchar(36)"`
	IsPublished   bool           `json:"is_published" gorm:"default:false;index"`
	CreatedBy     string         `json:"created_by" gorm:"type:varchar(36)"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	Application *Application `json:"application,omitempty" gorm:"foreignKey:ApplicationID"`
}

// TableName 指定表名
func (Form) TableName() string {
	return "forms"
}
