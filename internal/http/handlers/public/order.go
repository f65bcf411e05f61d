package public

import (
	"strings"

	"github.com/cartana-shop/storefront/internal/http/response"
	"github.com/cartana-shop/storefront/internal/models"
	"github.com/cartana-shop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderView 订单响应结构，附带展示层字段
type OrderView struct {
	models.Order
	StatusInfo          service.OrderStatusInfo `json:"statusInfo"`
	FormattedDate       string                  `json:"formattedDate"`
	ShippingMethodLabel string                  `json:"shippingMethodLabel"`
	ShippingAddress     models.ShippingAddress  `json:"shippingAddress"`
}

func (h *Handler) orderView(order models.Order) OrderView {
	return OrderView{
		Order:               order,
		StatusInfo:          h.OrderService.GetStatusInfo(order.Status),
		FormattedDate:       h.OrderService.FormatOrderDate(order.PlacedAt),
		ShippingMethodLabel: h.OrderService.FormatShippingMethod(order.ShippingMethod),
		ShippingAddress:     order.Address(),
	}
}

// ListOrders 获取当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orders, err := h.OrderService.ListByUser(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, h.orderView(order))
	}
	response.Success(c, gin.H{
		"items": views,
		"total": len(views),
	})
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.GetByIDAndUser(id, userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if order == nil {
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}
	response.Success(c, h.orderView(*order))
}

// GetOrderTracking 获取订单物流跟踪
func (h *Handler) GetOrderTracking(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.GetByIDAndUser(id, userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if order == nil {
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}
	response.Success(c, gin.H{
		"orderId":        order.ID,
		"status":         order.Status,
		"statusInfo":     h.OrderService.GetStatusInfo(order.Status),
		"trackingNumber": order.TrackingNumber,
		"events":         h.OrderService.GetTrackingEvents(order.TrackingNumber),
	})
}
