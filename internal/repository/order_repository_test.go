package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/cartana-shop/storefront/internal/constants"
	"github.com/cartana-shop/storefront/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate orders failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func createTestOrder(t *testing.T, repo *GormOrderRepository, id string, userID string, total int64) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:             id,
		UserID:         userID,
		Status:         constants.OrderStatusProcessing,
		Currency:       "usd",
		TotalAmount:    models.NewMoneyFromDecimal(decimal.NewFromInt(total)),
		ShippingMethod: constants.ShippingMethodStandard,
		PlacedAt:       time.Now(),
	}
	items := []models.OrderItem{
		{ProductID: 1, Name: "Wireless Headphones", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(total)), Quantity: 1, TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(total))},
	}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderRepositoryGetByIDAbsentReturnsNil(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)

	order, err := repo.GetByID("ORD-MISSING")
	if err != nil {
		t.Fatalf("absent order must not error: %v", err)
	}
	if order != nil {
		t.Fatalf("expected nil for absent order, got %+v", order)
	}
}

func TestOrderRepositoryCreateAndGet(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	createTestOrder(t, repo, "ORD-2024-001", "user-1", 149)

	order, err := repo.GetByID("ORD-2024-001")
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if order == nil {
		t.Fatal("expected order, got nil")
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 item preloaded, got %d", len(order.Items))
	}
	if order.Items[0].OrderID != order.ID {
		t.Fatalf("item not linked to order: %s", order.Items[0].OrderID)
	}
}

func TestOrderRepositoryCreateRollsBackOnItemFailure(t *testing.T) {
	repo, db := setupOrderRepositoryTest(t)

	// 占用条目主键，迫使订单项写入触发唯一约束
	taken := models.OrderItem{ID: 1, OrderID: "ORD-OTHER", ProductID: 9, Name: "Chef Knife", Quantity: 1}
	if err := db.Create(&taken).Error; err != nil {
		t.Fatalf("seed conflicting item failed: %v", err)
	}

	order := &models.Order{
		ID:             "ORD-2024-020",
		UserID:         "user-1",
		Status:         constants.OrderStatusProcessing,
		Currency:       "usd",
		TotalAmount:    models.NewMoneyFromDecimal(decimal.NewFromInt(70)),
		ShippingMethod: constants.ShippingMethodStandard,
		PlacedAt:       time.Now(),
	}
	items := []models.OrderItem{
		{ID: 1, ProductID: 9, Name: "Chef Knife", UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(70)), Quantity: 1, TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(70))},
	}
	if err := repo.Create(order, items); err == nil {
		t.Fatal("expected create to fail on item conflict")
	}

	got, err := repo.GetByID("ORD-2024-020")
	if err != nil {
		t.Fatalf("reload after failed create errored: %v", err)
	}
	if got != nil {
		t.Fatalf("order row survived failed item insert: %+v", got)
	}
}

func TestOrderRepositoryListByUserFilters(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	createTestOrder(t, repo, "ORD-2024-001", "user-1", 149)
	createTestOrder(t, repo, "ORD-2024-002", "user-1", 89)
	createTestOrder(t, repo, "ORD-2024-003", "user-2", 42)

	orders, err := repo.ListByUser("user-1")
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders for user-1, got %d", len(orders))
	}
	for _, o := range orders {
		if o.UserID != "user-1" {
			t.Fatalf("foreign order leaked: %s belongs to %s", o.ID, o.UserID)
		}
	}

	empty, err := repo.ListByUser("user-none")
	if err != nil {
		t.Fatalf("list for unknown user failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty slice for unknown user, got %d", len(empty))
	}
}

func TestOrderRepositoryUpdateStatus(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	createTestOrder(t, repo, "ORD-2024-010", "user-1", 59)

	err := repo.UpdateStatus("ORD-2024-010", constants.OrderStatusShipped, map[string]interface{}{
		"tracking_number": "TRK123456789",
	})
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}

	order, err := repo.GetByID("ORD-2024-010")
	if err != nil || order == nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if order.Status != constants.OrderStatusShipped {
		t.Fatalf("status not updated: %s", order.Status)
	}
	if order.TrackingNumber != "TRK123456789" {
		t.Fatalf("tracking number not assigned: %q", order.TrackingNumber)
	}
}
