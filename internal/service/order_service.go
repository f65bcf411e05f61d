package service

import (
	"time"

	"github.com/cartana-shop/storefront/internal/constants"
	"github.com/cartana-shop/storefront/internal/models"
	"github.com/cartana-shop/storefront/internal/repository"
)

// OrderStatusInfo 订单状态展示信息
type OrderStatusInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// TrackingEvent 物流事件
type TrackingEvent struct {
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
}

// OrderService 订单查询服务
type OrderService struct {
	orderRepo repository.OrderRepository
	now       func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo, now: time.Now}
}

// ListByUser 获取用户订单，按写入顺序返回（不保证按时间倒序，调用方需要时自行排序）
func (s *OrderService) ListByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(userID)
}

// GetByID 按订单编号获取订单，不存在返回 nil 而非错误
func (s *OrderService) GetByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetByIDAndUser 按订单编号与用户获取订单，不存在返回 nil
func (s *OrderService) GetByIDAndUser(id string, userID string) (*models.Order, error) {
	return s.orderRepo.GetByIDAndUser(id, userID)
}

// GetStatusInfo 订单状态到展示信息的全函数映射，未知状态返回 Unknown/灰色
func (s *OrderService) GetStatusInfo(status string) OrderStatusInfo {
	switch status {
	case constants.OrderStatusProcessing:
		return OrderStatusInfo{Label: "Processing", Color: "bg-yellow-500"}
	case constants.OrderStatusConfirmed:
		return OrderStatusInfo{Label: "Confirmed", Color: "bg-blue-500"}
	case constants.OrderStatusShipped:
		return OrderStatusInfo{Label: "Shipped", Color: "bg-purple-500"}
	case constants.OrderStatusDelivered:
		return OrderStatusInfo{Label: "Delivered", Color: "bg-green-500"}
	case constants.OrderStatusCancelled:
		return OrderStatusInfo{Label: "Cancelled", Color: "bg-red-500"}
	default:
		return OrderStatusInfo{Label: "Unknown", Color: "bg-gray-500"}
	}
}

// FormatShippingMethod 配送方式转为展示文案，未识别的值原样返回
func (s *OrderService) FormatShippingMethod(method string) string {
	switch method {
	case constants.ShippingMethodStandard:
		return "Standard Shipping (3-5 business days)"
	case constants.ShippingMethodExpress:
		return "Express Shipping (1-2 business days)"
	case constants.ShippingMethodOvernight:
		return "Overnight Shipping (next business day)"
	default:
		return method
	}
}

// FormatOrderDate 下单时间展示格式
func (s *OrderService) FormatOrderDate(t time.Time) string {
	return t.Format("Jan 2, 2006 at 3:04 PM")
}

// GetTrackingEvents 生成物流事件。无物流单号时返回空列表，否则返回
// 锚定当前时间的固定三段历史（揽收/在途/派送）
func (s *OrderService) GetTrackingEvents(trackingNumber string) []TrackingEvent {
	if trackingNumber == "" {
		return []TrackingEvent{}
	}
	now := s.now()
	return []TrackingEvent{
		{
			Date:        now.Add(-3 * 24 * time.Hour),
			Location:    "Sorting Facility, New York",
			Status:      "Shipment Received",
			Description: "Package received at sorting facility",
		},
		{
			Date:        now.Add(-2 * 24 * time.Hour),
			Location:    "Distribution Center, New Jersey",
			Status:      "In Transit",
			Description: "Package in transit to next facility",
		},
		{
			Date:        now.Add(-1 * 24 * time.Hour),
			Location:    "Local Delivery Facility, Boston",
			Status:      "Out for Delivery",
			Description: "Package out for delivery",
		},
	}
}
