package storage

import "context"

// KV 会话状态的持久化键值存储（购物车/登录用户整体 JSON 落地）
type KV interface {
	// Get 读取键值，键不存在时返回 found=false 且 err=nil
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set 写入键值（整体覆盖）
	Set(ctx context.Context, key string, value []byte) error
	// Delete 删除键，键不存在时为无操作
	Delete(ctx context.Context, key string) error
}
