package main

import (
	"time"

	"github.com/cartana-shop/storefront/internal/config"
	"github.com/cartana-shop/storefront/internal/constants"
	"github.com/cartana-shop/storefront/internal/logger"
	"github.com/cartana-shop/storefront/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func money(amount float64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromFloat(amount))
}

func moneyPtr(amount float64) *models.Money {
	m := money(amount)
	return &m
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加商品
	products := []models.Product{
		{
			Name:                "Wireless Headphones",
			Description:         "Premium over-ear headphones with active noise cancellation and 30-hour battery life.",
			PriceAmount:         money(149.99),
			OriginalPriceAmount: moneyPtr(199.99),
			Image:               "/placeholder.svg?height=400&width=400",
			Category:            constants.CategoryElectronics,
			Rating:              4.6,
			Reviews:             1243,
			SortOrder:           100,
			IsActive:            true,
		},
		{
			Name:        "Smart Watch",
			Description: "Fitness tracking, heart-rate monitoring and a week of battery on a single charge.",
			PriceAmount: money(299.99),
			Image:       "/placeholder.svg?height=400&width=400",
			Category:    constants.CategoryElectronics,
			Rating:      4.4,
			Reviews:     867,
			SortOrder:   95,
			IsActive:    true,
		},
		{
			Name:                "Bluetooth Speaker",
			Description:         "Portable waterproof speaker with deep bass and 12-hour playtime.",
			PriceAmount:         money(79.99),
			OriginalPriceAmount: moneyPtr(99.99),
			Image:               "/placeholder.svg?height=400&width=400",
			Category:            constants.CategoryElectronics,
			Rating:              4.3,
			Reviews:             542,
			SortOrder:           90,
			IsActive:            true,
		},
		{
			Name:        "Cotton T-Shirt",
			Description: "Soft organic cotton tee with a relaxed fit, available in multiple colors.",
			PriceAmount: money(24.99),
			Image:       "/placeholder.svg?height=400&width=400",
			Category:    constants.CategoryClothing,
			Rating:      4.2,
			Reviews:     310,
			SortOrder:   85,
			IsActive:    true,
		},
		{
			Name:                "Denim Jacket",
			Description:         "Classic denim jacket with a vintage wash and durable stitching.",
			PriceAmount:         money(89.99),
			OriginalPriceAmount: moneyPtr(119.99),
			Image:               "/placeholder.svg?height=400&width=400",
			Category:            constants.CategoryClothing,
			Rating:              4.5,
			Reviews:             198,
			SortOrder:           80,
			IsActive:            true,
		},
		{
			Name:        "Vitamin C Serum",
			Description: "Brightening facial serum with hyaluronic acid for daily use.",
			PriceAmount: money(34.99),
			Image:       "/placeholder.svg?height=400&width=400",
			Category:    constants.CategoryBeauty,
			Rating:      4.7,
			Reviews:     723,
			SortOrder:   75,
			IsActive:    true,
		},
		{
			Name:        "Scented Candle Set",
			Description: "Set of three soy wax candles with lavender, vanilla and sandalwood scents.",
			PriceAmount: money(42.00),
			Image:       "/placeholder.svg?height=400&width=400",
			Category:    constants.CategoryHome,
			Rating:      4.8,
			Reviews:     456,
			SortOrder:   70,
			IsActive:    true,
		},
		{
			Name:                "Throw Blanket",
			Description:         "Chunky knit throw blanket, machine washable and extra cozy.",
			PriceAmount:         money(59.99),
			OriginalPriceAmount: moneyPtr(79.99),
			Image:               "/placeholder.svg?height=400&width=400",
			Category:            constants.CategoryHome,
			Rating:              4.4,
			Reviews:             267,
			SortOrder:           65,
			IsActive:            true,
		},
		{
			Name:        "Chef Knife",
			Description: "8-inch high-carbon stainless steel chef knife with ergonomic handle.",
			PriceAmount: money(69.99),
			Image:       "/placeholder.svg?height=400&width=400",
			Category:    constants.CategoryKitchen,
			Rating:      4.9,
			Reviews:     1089,
			SortOrder:   60,
			IsActive:    true,
		},
		{
			Name:                "Pour-Over Coffee Maker",
			Description:         "Borosilicate glass pour-over brewer with reusable stainless filter.",
			PriceAmount:         money(39.99),
			OriginalPriceAmount: moneyPtr(49.99),
			Image:               "/placeholder.svg?height=400&width=400",
			Category:            constants.CategoryKitchen,
			Rating:              4.5,
			Reviews:             384,
			SortOrder:           55,
			IsActive:            true,
		},
	}

	for _, prod := range products {
		var existing models.Product
		if err := models.DB.Where("name = ?", prod.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Name, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Name)
			}
		} else {
			stdLog.Printf("Product already exists: %s", prod.Name)
		}
	}

	// 添加演示账号
	demoUserID := "user-1"
	var existingUser models.User
	if err := models.DB.Where("id = ?", demoUserID).First(&existingUser).Error; err != nil {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if hashErr != nil {
			stdLog.Fatalf("Failed to hash demo password: %v", hashErr)
		}
		user := models.User{
			ID:           demoUserID,
			Name:         "Demo User",
			Email:        "demo@example.com",
			PasswordHash: string(hash),
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create demo user: %v", err)
		} else {
			stdLog.Printf("Created demo user: %s (password123)", user.Email)
		}
	} else {
		stdLog.Printf("Demo user already exists: %s", existingUser.Email)
	}

	// 添加演示订单
	now := time.Now()
	estDelivered := now.AddDate(0, 0, -12)
	estShipped := now.AddDate(0, 0, 2)
	orders := []struct {
		order models.Order
		items []models.OrderItem
	}{
		{
			order: models.Order{
				ID:                "ORD-2024-001",
				UserID:            demoUserID,
				Status:            constants.OrderStatusDelivered,
				Currency:          "usd",
				SubtotalAmount:    money(174.98),
				ShippingAmount:    money(5.99),
				TotalAmount:       money(180.97),
				ShippingName:      "Demo User",
				ShippingStreet:    "123 Main Street",
				ShippingCity:      "Boston",
				ShippingState:     "MA",
				ShippingZip:       "02101",
				ShippingCountry:   "US",
				ShippingMethod:    constants.ShippingMethodStandard,
				TrackingNumber:    "TRK001234567",
				PaymentMethod:     constants.PaymentMethodCreditCard,
				CardLast4:         "4242",
				EstimatedDelivery: &estDelivered,
				PlacedAt:          now.AddDate(0, 0, -18),
			},
			items: []models.OrderItem{
				{ProductID: 1, Name: "Wireless Headphones", UnitPrice: money(149.99), Quantity: 1, TotalPrice: money(149.99), Image: "/placeholder.svg?height=400&width=400"},
				{ProductID: 4, Name: "Cotton T-Shirt", UnitPrice: money(24.99), Quantity: 1, TotalPrice: money(24.99), Image: "/placeholder.svg?height=400&width=400"},
			},
		},
		{
			order: models.Order{
				ID:                "ORD-2024-002",
				UserID:            demoUserID,
				Status:            constants.OrderStatusShipped,
				Currency:          "usd",
				SubtotalAmount:    money(299.99),
				ShippingAmount:    money(14.99),
				TotalAmount:       money(314.98),
				ShippingName:      "Demo User",
				ShippingStreet:    "123 Main Street",
				ShippingCity:      "Boston",
				ShippingState:     "MA",
				ShippingZip:       "02101",
				ShippingCountry:   "US",
				ShippingMethod:    constants.ShippingMethodExpress,
				TrackingNumber:    "TRK007654321",
				PaymentMethod:     constants.PaymentMethodCreditCard,
				CardLast4:         "4242",
				EstimatedDelivery: &estShipped,
				PlacedAt:          now.AddDate(0, 0, -4),
			},
			items: []models.OrderItem{
				{ProductID: 2, Name: "Smart Watch", UnitPrice: money(299.99), Quantity: 1, TotalPrice: money(299.99), Image: "/placeholder.svg?height=400&width=400"},
			},
		},
		{
			order: models.Order{
				ID:              "ORD-2024-003",
				UserID:          demoUserID,
				Status:          constants.OrderStatusProcessing,
				Currency:        "usd",
				SubtotalAmount:  money(111.99),
				ShippingAmount:  money(5.99),
				TotalAmount:     money(117.98),
				ShippingName:    "Demo User",
				ShippingStreet:  "123 Main Street",
				ShippingCity:    "Boston",
				ShippingState:   "MA",
				ShippingZip:     "02101",
				ShippingCountry: "US",
				ShippingMethod:  constants.ShippingMethodStandard,
				PaymentMethod:   constants.PaymentMethodPaypal,
				PlacedAt:        now.AddDate(0, 0, -1),
			},
			items: []models.OrderItem{
				{ProductID: 9, Name: "Chef Knife", UnitPrice: money(69.99), Quantity: 1, TotalPrice: money(69.99), Image: "/placeholder.svg?height=400&width=400"},
				{ProductID: 7, Name: "Scented Candle Set", UnitPrice: money(42.00), Quantity: 1, TotalPrice: money(42.00), Image: "/placeholder.svg?height=400&width=400"},
			},
		},
	}

	for _, entry := range orders {
		var existing models.Order
		if err := models.DB.Where("id = ?", entry.order.ID).First(&existing).Error; err != nil {
			order := entry.order
			items := entry.items
			for i := range items {
				items[i].OrderID = order.ID
			}
			if err := models.DB.Create(&order).Error; err != nil {
				stdLog.Printf("Failed to create order %s: %v", order.ID, err)
				continue
			}
			if err := models.DB.Create(&items).Error; err != nil {
				stdLog.Printf("Failed to create order items for %s: %v", order.ID, err)
				continue
			}
			stdLog.Printf("Created order: %s", order.ID)
		} else {
			stdLog.Printf("Order already exists: %s", entry.order.ID)
		}
	}

	stdLog.Printf("Seed completed")
}
