package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisKV 基于 Redis 的键值存储
type RedisKV struct {
	client *redis.Client
	prefix func(string) string
}

// NewRedisKV 创建 Redis 键值存储
func NewRedisKV(client *redis.Client, prefix func(string) string) *RedisKV {
	if prefix == nil {
		prefix = func(k string) string { return k }
	}
	return &RedisKV{client: client, prefix: prefix}
}

// Get 读取键值
func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, s.prefix(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set 写入键值（不设 TTL，会话状态由显式删除回收）
func (s *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.prefix(key), value, 0).Err()
}

// Delete 删除键
func (s *RedisKV) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix(key)).Err()
}
