package storage

import (
	"context"
	"errors"

	"github.com/cartana-shop/storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKV 基于数据库 kv_entries 表的键值存储（Redis 未启用时的落地方案）
type GormKV struct {
	db *gorm.DB
}

// NewGormKV 创建数据库键值存储
func NewGormKV(db *gorm.DB) *GormKV {
	return &GormKV{db: db}
}

// Get 读取键值
func (s *GormKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry models.KVEntry
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

// Set 写入键值，主键冲突时原子覆盖
func (s *GormKV) Set(ctx context.Context, key string, value []byte) error {
	entry := models.KVEntry{Key: key, Value: string(value)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Delete 删除键
func (s *GormKV) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&models.KVEntry{}).Error
}
