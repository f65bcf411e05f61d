package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表
type OrderItem struct {
	ID         uint           `gorm:"primarykey" json:"-"`                                  // 主键
	OrderID    string         `gorm:"type:varchar(32);index;not null" json:"-"`             // 订单编号
	ProductID  uint           `gorm:"index;not null" json:"id"`                             // 商品ID
	Name       string         `gorm:"not null" json:"name"`                                 // 商品名称快照
	UnitPrice  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`   // 单价快照
	Quantity   int            `gorm:"not null" json:"quantity"`                             // 数量
	TotalPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"-"`       // 小计
	Image      string         `gorm:"type:varchar(500)" json:"image"`                       // 图片快照
	CreatedAt  time.Time      `gorm:"index" json:"-"`                                       // 创建时间
	UpdatedAt  time.Time      `json:"-"`                                                    // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
