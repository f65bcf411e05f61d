package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID                string         `gorm:"type:varchar(32);primarykey" json:"id"`                     // 订单编号（ORD-xxx）
	UserID            string         `gorm:"type:varchar(64);index;not null" json:"-"`                  // 用户ID
	Status            string         `gorm:"type:varchar(20);index;not null" json:"status"`             // 订单状态
	Currency          string         `gorm:"type:varchar(10);not null;default:'usd'" json:"currency"`   // 币种
	SubtotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`     // 商品小计
	ShippingAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shippingCost"` // 运费
	TotalAmount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`        // 实付金额
	ShippingName      string         `gorm:"type:varchar(100)" json:"-"`                                // 收件人
	ShippingStreet    string         `gorm:"type:varchar(200)" json:"-"`                                // 街道
	ShippingCity      string         `gorm:"type:varchar(100)" json:"-"`                                // 城市
	ShippingState     string         `gorm:"type:varchar(50)" json:"-"`                                 // 州/省
	ShippingZip       string         `gorm:"type:varchar(20)" json:"-"`                                 // 邮编
	ShippingCountry   string         `gorm:"type:varchar(50)" json:"-"`                                 // 国家
	ShippingMethod    string         `gorm:"type:varchar(20);not null" json:"shippingMethod"`           // 配送方式（standard/express/overnight）
	TrackingNumber    string         `gorm:"type:varchar(40)" json:"trackingNumber,omitempty"`          // 物流单号（发货后分配）
	PaymentMethod     string         `gorm:"type:varchar(20)" json:"paymentMethod"`                     // 支付方式
	CardLast4         string         `gorm:"type:varchar(4)" json:"cardLast4,omitempty"`                // 卡号后四位
	PaymentID         string         `gorm:"type:varchar(64)" json:"-"`                                 // 模拟支付流水号
	EstimatedDelivery *time.Time     `json:"estimatedDelivery,omitempty"`                               // 预计送达
	PlacedAt          time.Time      `gorm:"index;not null" json:"date"`                                // 下单时间
	CreatedAt         time.Time      `gorm:"index" json:"-"`                                            // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"-"`                                            // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// ShippingAddress 收件地址视图
type ShippingAddress struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Address 返回收件地址视图
func (o Order) Address() ShippingAddress {
	return ShippingAddress{
		Name:    o.ShippingName,
		Street:  o.ShippingStreet,
		City:    o.ShippingCity,
		State:   o.ShippingState,
		Zip:     o.ShippingZip,
		Country: o.ShippingCountry,
	}
}
