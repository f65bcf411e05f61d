package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           string         `gorm:"type:varchar(64);primarykey" json:"id"` // 主键（user-xxx）
	Name         string         `gorm:"not null" json:"name"`                  // 昵称
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`     // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                     // 密码哈希（不返回给前端）
	LastLoginAt  *time.Time     `json:"-"`                                     // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"-"`                        // 创建时间
	UpdatedAt    time.Time      `json:"-"`                                     // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                        // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// Public 返回可下发给前端的用户视图
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// PublicUser 前端用户视图
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
