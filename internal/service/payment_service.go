package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/cartana-shop/storefront/internal/config"
	"github.com/cartana-shop/storefront/internal/logger"
)

// PaymentIntent 模拟支付凭证
type PaymentIntent struct {
	ID           string    `json:"id"`
	ClientSecret string    `json:"clientSecret"`
	Amount       int64     `json:"amount"` // 最小货币单位（美分）
	Currency     string    `json:"currency"`
	Created      time.Time `json:"created"`
}

// PaymentResult 模拟支付结果
type PaymentResult struct {
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"`
}

// PaymentService 模拟支付边界。不接真实支付通道，按固定概率拒绝以演练失败路径
type PaymentService struct {
	cfg  *config.PaymentConfig
	rand func() float64

	mu      sync.Mutex
	intents map[string]PaymentIntent
}

// NewPaymentService 创建模拟支付服务
func NewPaymentService(cfg *config.PaymentConfig) *PaymentService {
	return &PaymentService{
		cfg:     cfg,
		rand:    rand.Float64,
		intents: make(map[string]PaymentIntent),
	}
}

// token 生成 36 进制随机片段（模拟支付网关的 ID 形态）
func token(n int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// sleep 模拟网关延迟，同时响应取消
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CreatePaymentIntent 创建支付凭证
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, amount int64) (*PaymentIntent, error) {
	if amount <= 0 {
		return nil, ErrPaymentAmountInvalid
	}
	if err := sleep(ctx, time.Duration(s.cfg.IntentDelayMS)*time.Millisecond); err != nil {
		return nil, err
	}

	currency := strings.TrimSpace(s.cfg.Currency)
	if currency == "" {
		currency = "usd"
	}
	intent := PaymentIntent{
		ID:           "pi_" + token(10),
		ClientSecret: fmt.Sprintf("pi_%s_secret_%s", token(12), token(12)),
		Amount:       amount,
		Currency:     currency,
		Created:      time.Now(),
	}

	s.mu.Lock()
	s.intents[intent.ID] = intent
	s.pruneLocked()
	s.mu.Unlock()

	logger.Infow("payment_intent_created", "intent_id", intent.ID, "amount", amount, "currency", currency)
	return &intent, nil
}

// pruneLocked 清理过期凭证，调用方需持锁
func (s *PaymentService) pruneLocked() {
	ttl := time.Duration(s.cfg.IntentTTLMinutes) * time.Minute
	if ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-ttl)
	for id, intent := range s.intents {
		if intent.Created.Before(cutoff) {
			delete(s.intents, id)
		}
	}
}

// ProcessPayment 处理支付。约一成请求被拒绝，返回可重试的 ErrPaymentDeclined
func (s *PaymentService) ProcessPayment(ctx context.Context, intentID string, amount int64) (*PaymentResult, error) {
	s.mu.Lock()
	intent, ok := s.intents[intentID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrPaymentIntentInvalid
	}
	if amount > 0 && intent.Amount != amount {
		return nil, ErrPaymentAmountInvalid
	}

	if err := sleep(ctx, time.Duration(s.cfg.ProcessDelayMS)*time.Millisecond); err != nil {
		return nil, err
	}

	if s.rand() < s.cfg.DeclineRate {
		logger.Warnw("payment_declined", "intent_id", intentID, "amount", intent.Amount)
		return nil, ErrPaymentDeclined
	}

	s.mu.Lock()
	delete(s.intents, intentID)
	s.mu.Unlock()

	result := &PaymentResult{
		PaymentID: "py_" + token(10),
		OrderID:   fmt.Sprintf("order_%d", time.Now().UnixMilli()),
	}
	logger.Infow("payment_processed", "intent_id", intentID, "payment_id", result.PaymentID)
	return result, nil
}
