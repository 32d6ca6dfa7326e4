package model

import (
	"time"

	"gorm.io/datatypes"
)

// DataSourceType 数据源类型
type DataSourceType string

const (
	DataSourceTypeStatic   DataSourceType = "static"   // 静态数据（行内容存储在 Config.rows）
	DataSourceTypeHTTP     DataSourceType = "http"     // HTTP JSON 接口
	DataSourceTypeDatabase DataSourceType = "database" // 数据库表
)

// DataSource 外部数据源定义
// Config 按类型存储连接信息：
//   - static:   {"rows": [...]}
//   - http:     {"url": "...", "method": "GET", "headers": {...}, "rows_path": "data"}
//   - database: {"table": "...", "columns": ["..."]}
type DataSource struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Type        DataSourceType `json:"type" gorm:"type:varchar(20);not null;index"`
	Description string         `json:"description" gorm:"type:text"`
	Config      datatypes.JSON `json:"config" gorm:"type:json;not null"`
	Editable    bool           `json:"editable" gorm:"default:false"` // 是否允许通过表格字段回写
	CreatedBy   string         `json:"created_by" gorm:"type:varchar(36)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName 指定表名
func (DataSource) TableName() string {
	return "data_sources"
}
