package model

import "time"

// Application 应用，用于组织一组表单
type Application struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Icon        string    `json:"icon" gorm:"type:varchar(100)"`
	CreatedBy   string    `json:"created_by" gorm:"type:varchar(36);index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Application) TableName() string {
	return "applications"
}
