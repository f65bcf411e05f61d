package public

import (
	"github.com/cartana-shop/storefront/internal/http/response"
	"github.com/cartana-shop/storefront/internal/i18n"
	"github.com/cartana-shop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentIntentRequest 创建支付凭证请求
type PaymentIntentRequest struct {
	ShippingMethod string `json:"shippingMethod" binding:"required"`
}

// GetShippingOptions 获取可用配送方式
func (h *Handler) GetShippingOptions(c *gin.Context) {
	response.Success(c, gin.H{
		"options": h.CheckoutService.ShippingOptions(),
	})
}

// CreatePaymentIntent 基于当前购物车创建支付凭证
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	session, ok := getSessionID(c)
	if !ok {
		return
	}
	var req PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	intent, err := h.CheckoutService.CreatePaymentIntent(c.Request.Context(), session, req.ShippingMethod)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, intent)
}

// CompleteCheckout 执行支付并落库订单
func (h *Handler) CompleteCheckout(c *gin.Context) {
	session, ok := getSessionID(c)
	if !ok {
		return
	}
	var input service.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	// 登录用户下单时归属到其账号，匿名会话允许游客结账
	userID := ""
	if value, exists := c.Get("user_id"); exists {
		if id, ok := value.(string); ok {
			userID = id
		}
	}

	order, err := h.CheckoutService.Complete(c.Request.Context(), session, userID, input)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "checkout.order_placed"), h.orderView(*order))
}
