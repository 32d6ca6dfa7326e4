package model

import (
	"time"
)

// User 平台用户
type User struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username      string     `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Password      string     `json:"-" gorm:"type:varchar(255);not null"` // 不在JSON中暴露
	Email         string     `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	FullName      string     `json:"fullName" gorm:"type:varchar(100)"`
	Role          string     `json:"role" gorm:"type:varchar(20);default:'user'"` // admin, user
	Status        string     `json:"status" gorm:"type:varchar(20);default:'active';index"`
	LastLoginTime *time.Time `json:"lastLoginTime" gorm:"type:timestamp"`
	LastLoginIP   string     `json:"lastLoginIp" gorm:"type:varchar(45)"`
	CreatedAt     time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName"`
}
