package service

import (
	"fmt"
	"math/rand"

	"github.com/cartana-shop/storefront/internal/constants"
	"github.com/cartana-shop/storefront/internal/logger"
	"github.com/cartana-shop/storefront/internal/repository"
)

// statusRank 订单状态推进序，cancelled 不参与推进
var statusRank = map[string]int{
	constants.OrderStatusProcessing: 0,
	constants.OrderStatusConfirmed:  1,
	constants.OrderStatusShipped:    2,
	constants.OrderStatusDelivered:  3,
}

// FulfillmentService 订单状态推进服务（worker 消费端）
type FulfillmentService struct {
	orderRepo      repository.OrderRepository
	trackingNumber func() string
}

// NewFulfillmentService 创建状态推进服务
func NewFulfillmentService(orderRepo repository.OrderRepository) *FulfillmentService {
	return &FulfillmentService{
		orderRepo: orderRepo,
		trackingNumber: func() string {
			return fmt.Sprintf("TRK%09d", rand.Intn(1_000_000_000))
		},
	}
}

// AdvanceStatus 将订单推进到下一状态。只允许沿
// processing→confirmed→shipped→delivered 前进，已取消或已越过目标状态的订单跳过。
// 进入 shipped 时分配物流单号
func (s *FulfillmentService) AdvanceStatus(orderID string, nextStatus string) error {
	nextRank, ok := statusRank[nextStatus]
	if !ok {
		logger.Warnw("order_status_advance_invalid_target", "order_id", orderID, "next_status", nextStatus)
		return nil
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Debugw("order_status_advance_skip_missing", "order_id", orderID)
		return nil
	}
	if order.Status == constants.OrderStatusCancelled {
		logger.Debugw("order_status_advance_skip_cancelled", "order_id", orderID)
		return nil
	}
	currentRank, ok := statusRank[order.Status]
	if !ok || currentRank >= nextRank {
		logger.Debugw("order_status_advance_skip_noop", "order_id", orderID, "current", order.Status, "next", nextStatus)
		return nil
	}

	updates := map[string]interface{}{}
	if nextStatus == constants.OrderStatusShipped && order.TrackingNumber == "" {
		updates["tracking_number"] = s.trackingNumber()
	}
	if err := s.orderRepo.UpdateStatus(orderID, nextStatus, updates); err != nil {
		return err
	}
	logger.Infow("order_status_advanced", "order_id", orderID, "from", order.Status, "to", nextStatus)
	return nil
}
