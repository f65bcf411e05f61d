package public

import "github.com/cartana-shop/storefront/internal/provider"

// Handler 店面 API 处理器入口
// 说明：所有接口均面向店面前端，无后台管理面。
type Handler struct {
	*provider.Container
}

// New 创建店面处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
