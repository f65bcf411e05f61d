package router

import (
	"fmt"
	"strings"

	"github.com/cartana-shop/storefront/internal/cache"
	"github.com/cartana-shop/storefront/internal/config"
	publichandlers "github.com/cartana-shop/storefront/internal/http/handlers/public"
	"github.com/cartana-shop/storefront/internal/logger"
	"github.com/cartana-shop/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ca"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 聊天上传的图片
	r.Static("/uploads", "./uploads")

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", handler.GetProducts)
			public.GET("/products/:id", handler.GetProduct)
			public.GET("/captcha/image", handler.GetImageCaptcha)
		}

		// 会话接口（购物车、聊天、结账，匿名可用）
		session := apiV1.Group("")
		session.Use(SessionMiddleware())
		{
			session.GET("/cart", handler.GetCart)
			session.POST("/cart/items", handler.AddCartItem)
			session.PUT("/cart/items/:id", handler.UpdateCartItem)
			session.DELETE("/cart/items/:id", handler.DeleteCartItem)
			session.DELETE("/cart", handler.ClearCart)

			session.GET("/chat/messages", handler.GetChatMessages)
			session.POST("/chat/messages", handler.SendChatMessage)
			session.POST("/chat/images", handler.UploadChatImage)
			session.DELETE("/chat/messages", handler.ClearChat)

			session.GET("/checkout/shipping-options", handler.GetShippingOptions)
			session.POST("/checkout/payment-intents", handler.CreatePaymentIntent)
			session.POST("/checkout/complete", OptionalUserJWTMiddleware(cfg.JWT.SecretKey), handler.CompleteCheckout)

			// 认证接口（登录会话与匿名会话共用同一会话标识）
			session.POST("/auth/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), handler.Login)
			session.POST("/auth/register", handler.Register)
			session.POST("/auth/logout", handler.Logout)
			session.POST("/auth/forgot-password", handler.ForgotPassword)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", handler.GetCurrentUser)
			user.GET("/orders", handler.ListOrders)
			user.GET("/orders/:id", handler.GetOrder)
			user.GET("/orders/:id/tracking", handler.GetOrderTracking)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
