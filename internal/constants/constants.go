package constants

// 订单状态常量
const (
	OrderStatusProcessing = "processing"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// 配送方式常量
const (
	ShippingMethodStandard  = "standard"
	ShippingMethodExpress   = "express"
	ShippingMethodOvernight = "overnight"
)

// 商品分类常量
const (
	CategoryElectronics = "electronics"
	CategoryClothing    = "clothing"
	CategoryBeauty      = "beauty"
	CategoryHome        = "home"
	CategoryKitchen     = "kitchen"
)

// AllCategories 全部商品分类（聊天分类识别与搜索面板使用）
var AllCategories = []string{
	CategoryElectronics,
	CategoryClothing,
	CategoryBeauty,
	CategoryHome,
	CategoryKitchen,
}

// 支付方式常量
const (
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodPaypal     = "paypal"
	PaymentMethodApplePay   = "apple_pay"
	PaymentMethodGooglePay  = "google_pay"
)

// 聊天消息角色常量
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// 聊天回复数据类型常量
const (
	ChatDataTypeProducts      = "products"
	ChatDataTypeProductDetail = "product-detail"
	ChatDataTypeSearchResults = "search-results"
)

// 聊天商品排版常量
const (
	ChatLayoutGrid       = "grid"
	ChatLayoutCarousel   = "carousel"
	ChatLayoutComparison = "comparison"
)

// 持久化键前缀（会话级 KV）
const (
	KVKeyCartPrefix = "cart:"
	KVKeyUserPrefix = "user:"
)

// 验证码场景常量
const (
	CaptchaSceneLogin = "login"
)

// 队列常量
const (
	QueueDefault = "default"

	TaskOrderStatusAdvance = "order:status_advance"
)
