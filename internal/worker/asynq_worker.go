package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cartana-shop/storefront/internal/logger"
	"github.com/cartana-shop/storefront/internal/provider"
	"github.com/cartana-shop/storefront/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderStatusAdvance, c.handleOrderStatusAdvance)
}

func (c *Consumer) handleOrderStatusAdvance(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_advance_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusAdvancePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_advance_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.OrderID) == "" || strings.TrimSpace(payload.NextStatus) == "" {
		logger.Debugw("worker_order_status_advance_skip_invalid_payload",
			"order_id", payload.OrderID,
			"next_status", payload.NextStatus,
		)
		return nil
	}
	if c.FulfillmentService == nil {
		logger.Warnw("worker_order_status_advance_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.FulfillmentService.AdvanceStatus(payload.OrderID, payload.NextStatus); err != nil {
		logger.Warnw("worker_order_status_advance_failed",
			"order_id", payload.OrderID,
			"next_status", payload.NextStatus,
			"error", err,
		)
		return err
	}
	return nil
}
