package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cartana-shop/storefront/internal/constants"
	"github.com/cartana-shop/storefront/internal/models"
	"github.com/cartana-shop/storefront/internal/provider"
	"github.com/cartana-shop/storefront/internal/queue"
	"github.com/cartana-shop/storefront/internal/repository"
	"github.com/cartana-shop/storefront/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *repository.GormOrderRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate orders failed: %v", err)
	}
	orderRepo := repository.NewOrderRepository(db)
	container := &provider.Container{
		OrderRepo:          orderRepo,
		FulfillmentService: service.NewFulfillmentService(orderRepo),
	}
	return NewConsumer(container), orderRepo
}

func createWorkerOrder(t *testing.T, repo *repository.GormOrderRepository, id, status string) {
	t.Helper()
	order := &models.Order{
		ID:          id,
		UserID:      "user-1",
		Status:      status,
		Currency:    "usd",
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		PlacedAt:    time.Now(),
	}
	if err := repo.Create(order, nil); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
}

func advanceTask(t *testing.T, orderID, nextStatus string) *asynq.Task {
	t.Helper()
	task, err := queue.NewOrderStatusAdvanceTask(queue.OrderStatusAdvancePayload{
		OrderID:    orderID,
		NextStatus: nextStatus,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func TestHandleOrderStatusAdvance(t *testing.T) {
	consumer, repo := setupConsumerTest(t)
	createWorkerOrder(t, repo, "ORD-1", constants.OrderStatusProcessing)

	task := advanceTask(t, "ORD-1", constants.OrderStatusConfirmed)
	if err := consumer.handleOrderStatusAdvance(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}

	order, err := repo.GetByID("ORD-1")
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if order.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected status %q, got %q", constants.OrderStatusConfirmed, order.Status)
	}
}

func TestHandleOrderStatusAdvanceMissingOrderIsNoop(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := advanceTask(t, "ORD-MISSING", constants.OrderStatusConfirmed)
	if err := consumer.handleOrderStatusAdvance(context.Background(), task); err != nil {
		t.Fatalf("expected missing order to be skipped, got %v", err)
	}
}

func TestHandleOrderStatusAdvanceInvalidPayloadIsNoop(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := asynq.NewTask(queue.TaskOrderStatusAdvance, []byte(`{"order_id":""}`))
	if err := consumer.handleOrderStatusAdvance(context.Background(), task); err != nil {
		t.Fatalf("expected invalid payload to be skipped, got %v", err)
	}
}

func TestHandleOrderStatusAdvanceMalformedPayloadFails(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := asynq.NewTask(queue.TaskOrderStatusAdvance, []byte(`not-json`))
	if err := consumer.handleOrderStatusAdvance(context.Background(), task); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}
