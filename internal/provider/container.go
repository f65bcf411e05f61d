package provider

import (
	"github.com/cartana-shop/storefront/internal/cache"
	"github.com/cartana-shop/storefront/internal/config"
	"github.com/cartana-shop/storefront/internal/logger"
	"github.com/cartana-shop/storefront/internal/models"
	"github.com/cartana-shop/storefront/internal/queue"
	"github.com/cartana-shop/storefront/internal/repository"
	"github.com/cartana-shop/storefront/internal/service"
	"github.com/cartana-shop/storefront/internal/storage"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// 会话态存储（购物车、登录会话）
	KV storage.KV

	// Repositories
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	OrderRepo   repository.OrderRepository

	// Services
	CartService        *service.CartService
	AuthService        *service.AuthService
	OrderService       *service.OrderService
	ChatService        *service.ChatService
	PaymentService     *service.PaymentService
	CheckoutService    *service.CheckoutService
	CaptchaService     *service.CaptchaService
	FulfillmentService *service.FulfillmentService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories 与会话存储
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)

	// Redis 可用时会话数据走 Redis，否则落到数据库 KV 表
	if cache.Enabled() {
		c.KV = storage.NewRedisKV(cache.Client(), cache.BuildKey)
	} else {
		c.KV = storage.NewGormKV(db)
	}
}

func (c *Container) initServices() {
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.CartService = service.NewCartService(c.KV, c.ProductRepo)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.KV)
	c.OrderService = service.NewOrderService(c.OrderRepo)
	c.ChatService = service.NewChatService(&c.Config.Chat, c.ProductRepo)
	c.PaymentService = service.NewPaymentService(&c.Config.Payment)
	c.CheckoutService = service.NewCheckoutService(c.CartService, c.PaymentService, c.OrderRepo, c.QueueClient, &c.Config.Fulfillment)
	c.FulfillmentService = service.NewFulfillmentService(c.OrderRepo)
}
