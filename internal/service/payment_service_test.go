package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cartana-shop/storefront/internal/config"
)

func setupPaymentService(t *testing.T) *PaymentService {
	t.Helper()
	cfg := &config.PaymentConfig{
		Currency:       "usd",
		DeclineRate:    0.1,
		IntentDelayMS:  0,
		ProcessDelayMS: 0,
	}
	return NewPaymentService(cfg)
}

func TestCreatePaymentIntentShape(t *testing.T) {
	svc := setupPaymentService(t)

	intent, err := svc.CreatePaymentIntent(context.Background(), 32497)
	if err != nil {
		t.Fatalf("create intent failed: %v", err)
	}
	if !strings.HasPrefix(intent.ID, "pi_") {
		t.Fatalf("intent id shape: %s", intent.ID)
	}
	if !strings.HasPrefix(intent.ClientSecret, "pi_") || !strings.Contains(intent.ClientSecret, "_secret_") {
		t.Fatalf("client secret shape: %s", intent.ClientSecret)
	}
	if intent.Amount != 32497 || intent.Currency != "usd" {
		t.Fatalf("intent fields: %+v", intent)
	}
}

func TestCreatePaymentIntentRejectsNonPositiveAmount(t *testing.T) {
	svc := setupPaymentService(t)
	if _, err := svc.CreatePaymentIntent(context.Background(), 0); !errors.Is(err, ErrPaymentAmountInvalid) {
		t.Fatalf("expected ErrPaymentAmountInvalid, got %v", err)
	}
}

func TestProcessPaymentSuccess(t *testing.T) {
	svc := setupPaymentService(t)
	svc.rand = func() float64 { return 0.99 } // 永不拒绝
	ctx := context.Background()

	intent, err := svc.CreatePaymentIntent(ctx, 1000)
	if err != nil {
		t.Fatalf("create intent failed: %v", err)
	}
	result, err := svc.ProcessPayment(ctx, intent.ID, 1000)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if !strings.HasPrefix(result.PaymentID, "py_") || !strings.HasPrefix(result.OrderID, "order_") {
		t.Fatalf("result id shapes: %+v", result)
	}

	// 凭证一次性消费
	if _, err := svc.ProcessPayment(ctx, intent.ID, 1000); !errors.Is(err, ErrPaymentIntentInvalid) {
		t.Fatalf("consumed intent must be invalid, got %v", err)
	}
}

func TestProcessPaymentDeclineIsRetryable(t *testing.T) {
	svc := setupPaymentService(t)
	svc.rand = func() float64 { return 0.0 } // 必然拒绝
	ctx := context.Background()

	intent, err := svc.CreatePaymentIntent(ctx, 1000)
	if err != nil {
		t.Fatalf("create intent failed: %v", err)
	}
	if _, err := svc.ProcessPayment(ctx, intent.ID, 1000); !errors.Is(err, ErrPaymentDeclined) {
		t.Fatalf("expected ErrPaymentDeclined, got %v", err)
	}

	// 拒绝不消费凭证，重试可以成功
	svc.rand = func() float64 { return 0.99 }
	if _, err := svc.ProcessPayment(ctx, intent.ID, 1000); err != nil {
		t.Fatalf("retry after decline failed: %v", err)
	}
}

func TestProcessPaymentValidatesIntentAndAmount(t *testing.T) {
	svc := setupPaymentService(t)
	svc.rand = func() float64 { return 0.99 }
	ctx := context.Background()

	if _, err := svc.ProcessPayment(ctx, "pi_unknown", 1000); !errors.Is(err, ErrPaymentIntentInvalid) {
		t.Fatalf("expected ErrPaymentIntentInvalid, got %v", err)
	}

	intent, err := svc.CreatePaymentIntent(ctx, 1000)
	if err != nil {
		t.Fatalf("create intent failed: %v", err)
	}
	if _, err := svc.ProcessPayment(ctx, intent.ID, 999); !errors.Is(err, ErrPaymentAmountInvalid) {
		t.Fatalf("expected ErrPaymentAmountInvalid, got %v", err)
	}
}

func TestProcessPaymentHonorsCancellation(t *testing.T) {
	svc := setupPaymentService(t)
	svc.cfg.ProcessDelayMS = 5000
	ctx := context.Background()

	intent, err := svc.CreatePaymentIntent(ctx, 1000)
	if err != nil {
		t.Fatalf("create intent failed: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := svc.ProcessPayment(cancelled, intent.ID, 1000); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
