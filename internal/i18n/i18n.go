package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleEnUS = "en-US"
	LocaleZhCN = "zh-CN"

	// DefaultLocale 默认语言
	DefaultLocale = LocaleEnUS
)

// messages 按语言索引的文案表
var messages = map[string]map[string]string{
	LocaleEnUS: {
		"error.bad_request":             "Invalid request",
		"error.unauthorized":            "Unauthorized",
		"error.forbidden":               "Forbidden",
		"error.not_found":               "Not found",
		"error.internal":                "Internal server error",
		"error.rate_limited":            "Too many attempts, please try again later",
		"error.token_invalid":           "Invalid or expired token",
		"error.auth_header_missing":     "Authorization header missing",
		"error.auth_header_invalid":     "Authorization header invalid",
		"error.jwt_secret_missing":      "Authentication is not configured",
		"error.session_required":        "Session ID required",
		"error.invalid_credentials":     "Invalid email or password",
		"error.invalid_email":           "Invalid email address",
		"error.invalid_cart_line":       "Invalid cart item",
		"error.cart_storage_failed":     "Failed to persist cart",
		"error.order_not_found":         "Order not found",
		"error.product_not_found":       "Product not found",
		"error.empty_message":           "Message must not be empty",
		"error.payment_declined":        "Your card was declined. Please try a different payment method.",
		"error.payment_intent":          "Invalid payment intent",
		"error.captcha_required":        "Captcha required",
		"error.captcha_invalid":         "Captcha verification failed",
		"error.captcha_generate_failed": "Failed to generate captcha",
		"error.invalid_password":        "Password must be at least 6 characters",
		"error.empty_image":             "Image content is empty",
		"error.image_upload_failed":     "Failed to upload image",
		"error.empty_cart":              "Your cart is empty",
		"error.shipping_invalid":        "Invalid shipping method",
		"error.payment_amount_invalid":  "Invalid payment amount",
		"error.product_not_available":   "Product is not available",
		"error.login_too_many":          "Too many login attempts, please retry in %d seconds",
		"error.rate_limit_unavailable":  "Rate limiter unavailable",
		"auth.logged_out":               "Logged out",
		"auth.reset_email_sent":         "If that email exists, a reset link has been sent",
		"checkout.order_placed":         "Order placed successfully",
		"chat.cleared":                  "Conversation cleared",
	},
	LocaleZhCN: {
		"error.bad_request":             "请求参数无效",
		"error.unauthorized":            "未授权",
		"error.forbidden":               "无权限",
		"error.not_found":               "资源不存在",
		"error.internal":                "服务器内部错误",
		"error.rate_limited":            "尝试次数过多，请稍后再试",
		"error.token_invalid":           "令牌无效或已过期",
		"error.auth_header_missing":     "缺少授权头",
		"error.auth_header_invalid":     "授权头格式错误",
		"error.jwt_secret_missing":      "认证未配置",
		"error.session_required":        "缺少会话标识",
		"error.invalid_credentials":     "邮箱或密码错误",
		"error.invalid_email":           "邮箱地址无效",
		"error.invalid_cart_line":       "购物车条目无效",
		"error.cart_storage_failed":     "购物车保存失败",
		"error.order_not_found":         "订单不存在",
		"error.product_not_found":       "商品不存在",
		"error.empty_message":           "消息内容不能为空",
		"error.payment_declined":        "银行卡被拒绝，请尝试其他支付方式。",
		"error.payment_intent":          "支付凭证无效",
		"error.captcha_required":        "需要验证码",
		"error.captcha_invalid":         "验证码校验失败",
		"error.captcha_generate_failed": "验证码生成失败",
		"error.invalid_password":        "密码长度至少 6 位",
		"error.empty_image":             "图片内容为空",
		"error.image_upload_failed":     "图片上传失败",
		"error.empty_cart":              "购物车为空",
		"error.shipping_invalid":        "配送方式无效",
		"error.payment_amount_invalid":  "支付金额无效",
		"error.product_not_available":   "商品不可用",
		"error.login_too_many":          "登录尝试次数过多，请 %d 秒后重试",
		"error.rate_limit_unavailable":  "限流服务不可用",
		"auth.logged_out":               "已退出登录",
		"auth.reset_email_sent":         "如果该邮箱存在，重置链接已发送",
		"checkout.order_placed":         "下单成功",
		"chat.cleared":                  "会话已清空",
	},
}

// ResolveLocale 从请求中解析语言，优先 query 参数，其次 Accept-Language 头
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if v := strings.TrimSpace(c.Query("lang")); v != "" {
		return normalize(v)
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		if loc := normalize(tag); loc != "" {
			return loc
		}
	}
	return DefaultLocale
}

// normalize 将语言标签归一化到受支持的语言
func normalize(tag string) string {
	lower := strings.ToLower(tag)
	switch {
	case strings.HasPrefix(lower, "zh"):
		return LocaleZhCN
	case strings.HasPrefix(lower, "en"):
		return LocaleEnUS
	}
	return ""
}

// T 按语言查找文案，缺失时回落默认语言，再缺失返回 key 本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if locale != DefaultLocale {
		if msg, ok := messages[DefaultLocale][key]; ok {
			return msg
		}
	}
	return key
}

// Sprintf 带参数的文案格式化
func Sprintf(locale, key string, args ...any) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
