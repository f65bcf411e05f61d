package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/cartana-shop/storefront/internal/constants"
	"github.com/cartana-shop/storefront/internal/models"
	"github.com/cartana-shop/storefront/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupFulfillmentService(t *testing.T) (*FulfillmentService, *repository.GormOrderRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:fulfillment_svc_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate orders failed: %v", err)
	}
	repo := repository.NewOrderRepository(db)
	svc := NewFulfillmentService(repo)
	svc.trackingNumber = func() string { return "TRK000000001" }
	return svc, repo
}

func seedOrderWithStatus(t *testing.T, repo *repository.GormOrderRepository, id, status string) {
	t.Helper()
	order := &models.Order{
		ID:             id,
		UserID:         "user-1",
		Status:         status,
		Currency:       "usd",
		ShippingMethod: constants.ShippingMethodStandard,
		PlacedAt:       time.Now(),
	}
	if err := repo.Create(order, nil); err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
}

func TestAdvanceStatusForward(t *testing.T) {
	svc, repo := setupFulfillmentService(t)
	seedOrderWithStatus(t, repo, "ORD-1", constants.OrderStatusProcessing)

	if err := svc.AdvanceStatus("ORD-1", constants.OrderStatusConfirmed); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	order, _ := repo.GetByID("ORD-1")
	if order.Status != constants.OrderStatusConfirmed {
		t.Fatalf("status not advanced: %s", order.Status)
	}
	if order.TrackingNumber != "" {
		t.Fatalf("tracking number must not exist before shipping")
	}

	if err := svc.AdvanceStatus("ORD-1", constants.OrderStatusShipped); err != nil {
		t.Fatalf("advance to shipped failed: %v", err)
	}
	order, _ = repo.GetByID("ORD-1")
	if order.Status != constants.OrderStatusShipped {
		t.Fatalf("status not advanced: %s", order.Status)
	}
	if order.TrackingNumber != "TRK000000001" {
		t.Fatalf("shipping must assign a tracking number: %q", order.TrackingNumber)
	}
}

func TestAdvanceStatusNeverMovesBackward(t *testing.T) {
	svc, repo := setupFulfillmentService(t)
	seedOrderWithStatus(t, repo, "ORD-1", constants.OrderStatusDelivered)

	if err := svc.AdvanceStatus("ORD-1", constants.OrderStatusConfirmed); err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	order, _ := repo.GetByID("ORD-1")
	if order.Status != constants.OrderStatusDelivered {
		t.Fatalf("delivered order must not move backward: %s", order.Status)
	}
}

func TestAdvanceStatusSkipsCancelledAndMissing(t *testing.T) {
	svc, repo := setupFulfillmentService(t)
	seedOrderWithStatus(t, repo, "ORD-1", constants.OrderStatusCancelled)

	if err := svc.AdvanceStatus("ORD-1", constants.OrderStatusConfirmed); err != nil {
		t.Fatalf("cancelled order advance must be a no-op: %v", err)
	}
	order, _ := repo.GetByID("ORD-1")
	if order.Status != constants.OrderStatusCancelled {
		t.Fatalf("cancelled order must stay cancelled: %s", order.Status)
	}

	if err := svc.AdvanceStatus("ORD-MISSING", constants.OrderStatusConfirmed); err != nil {
		t.Fatalf("missing order advance must be a no-op: %v", err)
	}
}
