package models

// CartLine 购物车条目（随会话整体序列化到 KV，不单独落表）
type CartLine struct {
	ID            uint   `json:"id"`                      // 商品ID
	Name          string `json:"name"`                    // 商品名称快照
	Price         Money  `json:"price"`                   // 单价快照
	OriginalPrice *Money `json:"originalPrice,omitempty"` // 原价快照（有折扣时存在）
	Quantity      int    `json:"quantity"`                // 数量（>= 1）
	Image         string `json:"image"`                   // 图片快照
}

// CartLineFromProduct 从商品生成购物车条目
func CartLineFromProduct(p Product, quantity int) CartLine {
	return CartLine{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.PriceAmount,
		OriginalPrice: p.OriginalPriceAmount,
		Quantity:      quantity,
		Image:         p.Image,
	}
}
