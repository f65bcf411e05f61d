package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cartana-shop/storefront/internal/config"
	"github.com/cartana-shop/storefront/internal/constants"
	"github.com/cartana-shop/storefront/internal/models"
	"github.com/cartana-shop/storefront/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCheckoutService(t *testing.T) (*CheckoutService, *CartService, *PaymentService, *repository.GormOrderRepository) {
	t.Helper()
	cart, _, _ := setupCartService(t)

	dsn := fmt.Sprintf("file:checkout_svc_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate orders failed: %v", err)
	}
	orderRepo := repository.NewOrderRepository(db)

	payment := NewPaymentService(&config.PaymentConfig{Currency: "usd", DeclineRate: 0.1})
	payment.rand = func() float64 { return 0.99 }

	fulfillment := &config.FulfillmentConfig{ConfirmDelaySeconds: 1, ShipDelaySeconds: 2, DeliverDelaySeconds: 3}
	svc := NewCheckoutService(cart, payment, orderRepo, nil, fulfillment)
	return svc, cart, payment, orderRepo
}

func checkoutInput(intentID string) CheckoutInput {
	return CheckoutInput{
		IntentID:        intentID,
		ShippingName:    "Demo User",
		ShippingStreet:  "1 Main St",
		ShippingCity:    "Boston",
		ShippingState:   "MA",
		ShippingZip:     "02101",
		ShippingCountry: "USA",
		ShippingMethod:  constants.ShippingMethodStandard,
		PaymentMethod:   constants.PaymentMethodCreditCard,
		CardLast4:       "4242",
	}
}

func TestCheckoutCompleteCreatesOrderAndClearsCart(t *testing.T) {
	svc, cart, _, orderRepo := setupCheckoutService(t)
	ctx := context.Background()

	if _, err := cart.AddItem(ctx, "s1", 1, 2); err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	intent, err := svc.CreatePaymentIntent(ctx, "s1", constants.ShippingMethodStandard)
	if err != nil {
		t.Fatalf("create intent failed: %v", err)
	}
	// 149.99*2 + 5.99 = 305.97
	if intent.Amount != 30597 {
		t.Fatalf("intent amount mismatch: %d", intent.Amount)
	}

	order, err := svc.Complete(ctx, "s1", "user-1", checkoutInput(intent.ID))
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !strings.HasPrefix(order.ID, "ORD-") {
		t.Fatalf("order id shape: %s", order.ID)
	}
	if order.Status != constants.OrderStatusProcessing {
		t.Fatalf("new order must start processing: %s", order.Status)
	}
	if order.TotalAmount.String() != "305.97" || order.ShippingAmount.String() != "5.99" {
		t.Fatalf("order amounts mismatch: total=%s shipping=%s", order.TotalAmount, order.ShippingAmount)
	}
	if order.EstimatedDelivery == nil {
		t.Fatalf("estimated delivery must be set")
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("order items mismatch: %+v", order.Items)
	}

	stored, err := orderRepo.GetByID(order.ID)
	if err != nil || stored == nil {
		t.Fatalf("order must be persisted: %v", err)
	}

	view, err := cart.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("cart get failed: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("checkout must clear the cart")
	}
}

func TestCheckoutDeclineKeepsCart(t *testing.T) {
	svc, cart, payment, orderRepo := setupCheckoutService(t)
	ctx := context.Background()

	if _, err := cart.AddItem(ctx, "s1", 1, 1); err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}
	intent, err := svc.CreatePaymentIntent(ctx, "s1", constants.ShippingMethodStandard)
	if err != nil {
		t.Fatalf("create intent failed: %v", err)
	}

	payment.rand = func() float64 { return 0.0 }
	if _, err := svc.Complete(ctx, "s1", "user-1", checkoutInput(intent.ID)); !errors.Is(err, ErrPaymentDeclined) {
		t.Fatalf("expected ErrPaymentDeclined, got %v", err)
	}

	view, err := cart.Get(ctx, "s1")
	if err != nil || len(view.Lines) != 1 {
		t.Fatalf("declined checkout must keep the cart intact: %v %+v", err, view.Lines)
	}
	orders, err := orderRepo.ListByUser("user-1")
	if err != nil || len(orders) != 0 {
		t.Fatalf("declined checkout must not create an order")
	}

	// 重新提交即可重试成功
	payment.rand = func() float64 { return 0.99 }
	if _, err := svc.Complete(ctx, "s1", "user-1", checkoutInput(intent.ID)); err != nil {
		t.Fatalf("retry after decline failed: %v", err)
	}
}

func TestCheckoutRejectsEmptyCartAndBadShipping(t *testing.T) {
	svc, cart, _, _ := setupCheckoutService(t)
	ctx := context.Background()

	if _, err := svc.CreatePaymentIntent(ctx, "s1", constants.ShippingMethodStandard); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}

	if _, err := cart.AddItem(ctx, "s1", 1, 1); err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}
	if _, err := svc.CreatePaymentIntent(ctx, "s1", "drone"); !errors.Is(err, ErrShippingInvalid) {
		t.Fatalf("expected ErrShippingInvalid, got %v", err)
	}

	input := checkoutInput("pi_x")
	input.ShippingMethod = "drone"
	if _, err := svc.Complete(ctx, "s1", "user-1", input); !errors.Is(err, ErrShippingInvalid) {
		t.Fatalf("expected ErrShippingInvalid on complete, got %v", err)
	}
}

func TestCheckoutShippingOptions(t *testing.T) {
	svc, _, _, _ := setupCheckoutService(t)

	options := svc.ShippingOptions()
	if len(options) != 3 {
		t.Fatalf("expected 3 shipping options, got %d", len(options))
	}
	want := map[string]string{
		constants.ShippingMethodStandard:  "5.99",
		constants.ShippingMethodExpress:   "14.99",
		constants.ShippingMethodOvernight: "24.99",
	}
	for _, opt := range options {
		if want[opt.Method] != opt.Cost.String() {
			t.Fatalf("option %s cost mismatch: %s", opt.Method, opt.Cost)
		}
	}
}

func TestCheckoutEstimatedDeliveryPerMethod(t *testing.T) {
	svc, _, _, _ := setupCheckoutService(t)
	anchor := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return anchor }

	if got := svc.estimatedDelivery(constants.ShippingMethodOvernight); !got.Equal(anchor.Add(24 * time.Hour)) {
		t.Fatalf("overnight estimate: %v", got)
	}
	if got := svc.estimatedDelivery(constants.ShippingMethodExpress); !got.Equal(anchor.Add(2 * 24 * time.Hour)) {
		t.Fatalf("express estimate: %v", got)
	}
	if got := svc.estimatedDelivery(constants.ShippingMethodStandard); !got.Equal(anchor.Add(5 * 24 * time.Hour)) {
		t.Fatalf("standard estimate: %v", got)
	}
}
