package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/cartana-shop/storefront/internal/constants"
	"github.com/cartana-shop/storefront/internal/logger"
	"github.com/cartana-shop/storefront/internal/models"
	"github.com/cartana-shop/storefront/internal/repository"
	"github.com/cartana-shop/storefront/internal/storage"

	"github.com/shopspring/decimal"
)

// CartView 购物车视图（条目 + 派生汇总，每次读取重新计算）
type CartView struct {
	Lines      []models.CartLine `json:"items"`
	Subtotal   models.Money      `json:"subtotal"`
	Savings    models.Money      `json:"savings"`
	TotalItems int               `json:"totalItems"`
}

// CartService 购物车服务，状态整体以 JSON 存入 KV，按会话串行写入
type CartService struct {
	kv          storage.KV
	productRepo repository.ProductRepository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCartService 创建购物车服务
func NewCartService(kv storage.KV, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		kv:          kv,
		productRepo: productRepo,
		locks:       make(map[string]*sync.Mutex),
	}
}

// lockFor 获取会话级互斥锁，同一会话的变更与 KV 写入串行执行
func (s *CartService) lockFor(session string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[session]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[session] = lock
	}
	return lock
}

func cartKey(session string) string {
	return constants.KVKeyCartPrefix + session
}

// load 读取会话购物车。键不存在或值损坏时回落为空购物车（只记录日志，不向上报错）
func (s *CartService) load(ctx context.Context, session string) []models.CartLine {
	raw, found, err := s.kv.Get(ctx, cartKey(session))
	if err != nil {
		logger.Warnw("cart_load_failed", "session", session, "error", err)
		return []models.CartLine{}
	}
	if !found {
		return []models.CartLine{}
	}
	var lines []models.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		logger.Warnw("cart_state_corrupt", "session", session, "error", err)
		return []models.CartLine{}
	}
	return lines
}

// save 将购物车整体写入 KV
func (s *CartService) save(ctx context.Context, session string, lines []models.CartLine) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return ErrCartStorageFailed
	}
	if err := s.kv.Set(ctx, cartKey(session), payload); err != nil {
		logger.Errorw("cart_save_failed", "session", session, "error", err)
		return ErrCartStorageFailed
	}
	return nil
}

// view 计算派生汇总
func view(lines []models.CartLine) CartView {
	subtotal := decimal.Zero
	savings := decimal.Zero
	totalItems := 0
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		subtotal = subtotal.Add(line.Price.Mul(qty))
		if line.OriginalPrice != nil && line.OriginalPrice.GreaterThan(line.Price.Decimal) {
			savings = savings.Add(line.OriginalPrice.Sub(line.Price.Decimal).Mul(qty))
		}
		totalItems += line.Quantity
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	return CartView{
		Lines:      lines,
		Subtotal:   models.NewMoneyFromDecimal(subtotal),
		Savings:    models.NewMoneyFromDecimal(savings),
		TotalItems: totalItems,
	}
}

// Get 获取会话购物车视图
func (s *CartService) Get(ctx context.Context, session string) (CartView, error) {
	if strings.TrimSpace(session) == "" {
		return CartView{}, ErrSessionRequired
	}
	lock := s.lockFor(session)
	lock.Lock()
	defer lock.Unlock()
	return view(s.load(ctx, session)), nil
}

// AddItem 添加商品到购物车，已存在的条目按数量合并
func (s *CartService) AddItem(ctx context.Context, session string, productID uint, quantity int) (CartView, error) {
	if strings.TrimSpace(session) == "" {
		return CartView{}, ErrSessionRequired
	}
	if quantity <= 0 {
		quantity = 1
	}
	if productID == 0 {
		return CartView{}, ErrInvalidCartLine
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return CartView{}, err
	}
	if product == nil {
		return CartView{}, ErrProductNotAvailable
	}

	lock := s.lockFor(session)
	lock.Lock()
	defer lock.Unlock()

	lines := s.load(ctx, session)
	merged := false
	for i := range lines {
		if lines[i].ID == productID {
			lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, models.CartLineFromProduct(*product, quantity))
	}
	if err := s.save(ctx, session, lines); err != nil {
		return CartView{}, err
	}
	return view(lines), nil
}

// RemoveItem 移除条目，条目不存在时为无操作
func (s *CartService) RemoveItem(ctx context.Context, session string, productID uint) (CartView, error) {
	if strings.TrimSpace(session) == "" {
		return CartView{}, ErrSessionRequired
	}
	lock := s.lockFor(session)
	lock.Lock()
	defer lock.Unlock()

	lines := s.load(ctx, session)
	filtered := lines[:0]
	for _, line := range lines {
		if line.ID != productID {
			filtered = append(filtered, line)
		}
	}
	if err := s.save(ctx, session, filtered); err != nil {
		return CartView{}, err
	}
	return view(filtered), nil
}

// UpdateQuantity 更新条目数量，数量降到 0 及以下时移除条目；条目不存在为无操作
func (s *CartService) UpdateQuantity(ctx context.Context, session string, productID uint, quantity int) (CartView, error) {
	if strings.TrimSpace(session) == "" {
		return CartView{}, ErrSessionRequired
	}
	lock := s.lockFor(session)
	lock.Lock()
	defer lock.Unlock()

	lines := s.load(ctx, session)
	if quantity <= 0 {
		filtered := lines[:0]
		for _, line := range lines {
			if line.ID != productID {
				filtered = append(filtered, line)
			}
		}
		lines = filtered
	} else {
		for i := range lines {
			if lines[i].ID == productID {
				lines[i].Quantity = quantity
				break
			}
		}
	}
	if err := s.save(ctx, session, lines); err != nil {
		return CartView{}, err
	}
	return view(lines), nil
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, session string) (CartView, error) {
	if strings.TrimSpace(session) == "" {
		return CartView{}, ErrSessionRequired
	}
	lock := s.lockFor(session)
	lock.Lock()
	defer lock.Unlock()

	empty := []models.CartLine{}
	if err := s.save(ctx, session, empty); err != nil {
		return CartView{}, err
	}
	return view(empty), nil
}
