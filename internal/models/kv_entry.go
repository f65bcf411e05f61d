package models

import "time"

// KVEntry 通用键值存储表（Redis 未启用时的会话状态落地方案）
type KVEntry struct {
	Key       string    `gorm:"type:varchar(200);primarykey" json:"key"` // 键（如 cart:<session>）
	Value     string    `gorm:"type:text" json:"value"`                  // JSON 序列化值
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                 // 更新时间
}

// TableName 指定表名
func (KVEntry) TableName() string {
	return "kv_entries"
}
