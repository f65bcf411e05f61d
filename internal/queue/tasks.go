package queue

import (
	"encoding/json"

	"github.com/cartana-shop/storefront/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusAdvance 订单状态推进任务
	TaskOrderStatusAdvance = constants.TaskOrderStatusAdvance
)

// OrderStatusAdvancePayload 订单状态推进任务载荷
type OrderStatusAdvancePayload struct {
	OrderID    string `json:"order_id"`
	NextStatus string `json:"next_status"`
}

// NewOrderStatusAdvanceTask 创建订单状态推进任务
func NewOrderStatusAdvanceTask(payload OrderStatusAdvancePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusAdvance, body), nil
}
