package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cartana-shop/storefront/internal/config"
	"github.com/cartana-shop/storefront/internal/constants"
	"github.com/cartana-shop/storefront/internal/logger"
	"github.com/cartana-shop/storefront/internal/models"
	"github.com/cartana-shop/storefront/internal/queue"
	"github.com/cartana-shop/storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// ShippingOption 配送方式选项
type ShippingOption struct {
	Method string       `json:"method"`
	Label  string       `json:"label"`
	Cost   models.Money `json:"cost"`
	Days   string       `json:"days"`
}

// CheckoutInput 结算提交数据
type CheckoutInput struct {
	IntentID        string `json:"intent_id"`
	ShippingName    string `json:"name"`
	ShippingStreet  string `json:"address"`
	ShippingCity    string `json:"city"`
	ShippingState   string `json:"state"`
	ShippingZip     string `json:"zip_code"`
	ShippingCountry string `json:"country"`
	ShippingMethod  string `json:"shipping_method"`
	PaymentMethod   string `json:"payment_method"`
	CardLast4       string `json:"card_last4"`
}

// CheckoutService 结算服务：校验购物车、走模拟支付、落单并触发状态推进
type CheckoutService struct {
	cartService *CartService
	payment     *PaymentService
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
	fulfillment *config.FulfillmentConfig
	now         func() time.Time
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(cartService *CartService, payment *PaymentService, orderRepo repository.OrderRepository, queueClient *queue.Client, fulfillment *config.FulfillmentConfig) *CheckoutService {
	return &CheckoutService{
		cartService: cartService,
		payment:     payment,
		orderRepo:   orderRepo,
		queueClient: queueClient,
		fulfillment: fulfillment,
		now:         time.Now,
	}
}

// ShippingOptions 全部配送方式
func (s *CheckoutService) ShippingOptions() []ShippingOption {
	return []ShippingOption{
		{Method: constants.ShippingMethodStandard, Label: "Standard Shipping", Cost: models.NewMoneyFromFloat(5.99), Days: "3-5 business days"},
		{Method: constants.ShippingMethodExpress, Label: "Express Shipping", Cost: models.NewMoneyFromFloat(14.99), Days: "1-2 business days"},
		{Method: constants.ShippingMethodOvernight, Label: "Overnight Shipping", Cost: models.NewMoneyFromFloat(24.99), Days: "next business day"},
	}
}

// shippingCost 配送方式对应运费
func (s *CheckoutService) shippingCost(method string) (models.Money, error) {
	for _, opt := range s.ShippingOptions() {
		if opt.Method == method {
			return opt.Cost, nil
		}
	}
	return models.Money{}, ErrShippingInvalid
}

// estimatedDelivery 配送方式对应预计送达时间
func (s *CheckoutService) estimatedDelivery(method string) time.Time {
	now := s.now()
	switch method {
	case constants.ShippingMethodOvernight:
		return now.Add(1 * 24 * time.Hour)
	case constants.ShippingMethodExpress:
		return now.Add(2 * 24 * time.Hour)
	default:
		return now.Add(5 * 24 * time.Hour)
	}
}

// amountCents 金额换算为最小货币单位
func amountCents(m models.Money) int64 {
	return m.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreatePaymentIntent 以当前购物车金额创建支付凭证
func (s *CheckoutService) CreatePaymentIntent(ctx context.Context, session string, shippingMethod string) (*PaymentIntent, error) {
	cart, err := s.cartService.Get(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	shipping, err := s.shippingCost(shippingMethod)
	if err != nil {
		return nil, err
	}
	total := models.NewMoneyFromDecimal(cart.Subtotal.Add(shipping.Decimal))
	return s.payment.CreatePaymentIntent(ctx, amountCents(total))
}

// Complete 完成结算：处理支付、创建订单、清空购物车、调度状态推进任务。
// 支付被拒时购物车保持原样，重新提交即可重试
func (s *CheckoutService) Complete(ctx context.Context, session string, userID string, input CheckoutInput) (*models.Order, error) {
	cart, err := s.cartService.Get(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	shipping, err := s.shippingCost(input.ShippingMethod)
	if err != nil {
		return nil, err
	}
	total := models.NewMoneyFromDecimal(cart.Subtotal.Add(shipping.Decimal))

	if _, err := s.payment.ProcessPayment(ctx, input.IntentID, amountCents(total)); err != nil {
		return nil, err
	}

	now := s.now()
	estimated := s.estimatedDelivery(input.ShippingMethod)
	order := &models.Order{
		ID:                fmt.Sprintf("ORD-%d", now.UnixMilli()),
		UserID:            userID,
		Status:            constants.OrderStatusProcessing,
		Currency:          "usd",
		SubtotalAmount:    cart.Subtotal,
		ShippingAmount:    shipping,
		TotalAmount:       total,
		ShippingName:      strings.TrimSpace(input.ShippingName),
		ShippingStreet:    strings.TrimSpace(input.ShippingStreet),
		ShippingCity:      strings.TrimSpace(input.ShippingCity),
		ShippingState:     strings.TrimSpace(input.ShippingState),
		ShippingZip:       strings.TrimSpace(input.ShippingZip),
		ShippingCountry:   strings.TrimSpace(input.ShippingCountry),
		ShippingMethod:    input.ShippingMethod,
		PaymentMethod:     input.PaymentMethod,
		CardLast4:         input.CardLast4,
		EstimatedDelivery: &estimated,
		PlacedAt:          now,
	}
	items := make([]models.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		items = append(items, models.OrderItem{
			ProductID:  line.ID,
			Name:       line.Name,
			UnitPrice:  line.Price,
			Quantity:   line.Quantity,
			TotalPrice: models.NewMoneyFromDecimal(line.Price.Mul(qty)),
			Image:      line.Image,
		})
	}
	if err := s.orderRepo.Create(order, items); err != nil {
		return nil, err
	}
	order.Items = items

	if _, err := s.cartService.Clear(ctx, session); err != nil {
		logger.Warnw("checkout_cart_clear_failed", "session", session, "order_id", order.ID, "error", err)
	}

	s.scheduleStatusAdvance(order.ID)
	logger.Infow("order_placed", "order_id", order.ID, "user_id", userID, "total", total.String())
	return order, nil
}

// scheduleStatusAdvance 调度 processing→confirmed→shipped→delivered 的延时推进
func (s *CheckoutService) scheduleStatusAdvance(orderID string) {
	if s.queueClient == nil || !s.queueClient.Enabled() || s.fulfillment == nil {
		return
	}
	steps := []struct {
		status string
		delay  time.Duration
	}{
		{constants.OrderStatusConfirmed, time.Duration(s.fulfillment.ConfirmDelaySeconds) * time.Second},
		{constants.OrderStatusShipped, time.Duration(s.fulfillment.ShipDelaySeconds) * time.Second},
		{constants.OrderStatusDelivered, time.Duration(s.fulfillment.DeliverDelaySeconds) * time.Second},
	}
	for _, step := range steps {
		payload := queue.OrderStatusAdvancePayload{OrderID: orderID, NextStatus: step.status}
		if err := s.queueClient.EnqueueOrderStatusAdvance(payload, step.delay); err != nil {
			logger.Warnw("order_status_advance_enqueue_failed", "order_id", orderID, "next_status", step.status, "error", err)
		}
	}
}
