package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                                      // 主键
	Name                string         `gorm:"not null" json:"name"`                                      // 商品名称
	Description         string         `gorm:"type:text" json:"description"`                              // 商品描述
	PriceAmount         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`       // 现价
	OriginalPriceAmount *Money         `gorm:"type:decimal(20,2)" json:"originalPrice,omitempty"`        // 原价（有折扣时存在）
	Image               string         `gorm:"type:varchar(500)" json:"image"`                            // 主图
	Category            string         `gorm:"type:varchar(50);not null;index" json:"category"`           // 分类（electronics/clothing/beauty/home/kitchen）
	Rating              float64        `gorm:"not null;default:0" json:"rating"`                          // 评分
	Reviews             int            `gorm:"not null;default:0" json:"reviews"`                         // 评价数
	IsActive            bool           `gorm:"default:true;index" json:"-"`                               // 是否上架
	SortOrder           int            `gorm:"default:0;index" json:"-"`                                  // 排序权重
	CreatedAt           time.Time      `gorm:"index" json:"-"`                                            // 创建时间
	UpdatedAt           time.Time      `json:"-"`                                                         // 更新时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// HasDiscount 是否存在折扣价
func (p Product) HasDiscount() bool {
	return p.OriginalPriceAmount != nil && p.OriginalPriceAmount.GreaterThan(p.PriceAmount.Decimal)
}
