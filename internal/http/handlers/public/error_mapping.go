package public

import (
	"errors"

	"github.com/cartana-shop/storefront/internal/http/response"
	"github.com/cartana-shop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrSessionRequired, code: response.CodeBadRequest, key: "error.session_required"},
	{target: service.ErrInvalidCartLine, code: response.CodeBadRequest, key: "error.invalid_cart_line"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
	{target: service.ErrCartStorageFailed, code: response.CodeInternal, key: "error.cart_storage_failed"},
}

var checkoutExtraErrorRules = []mappedHandlerError{
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, key: "error.empty_cart"},
	{target: service.ErrShippingInvalid, code: response.CodeBadRequest, key: "error.shipping_invalid"},
	{target: service.ErrPaymentDeclined, code: response.CodeBadRequest, key: "error.payment_declined"},
	{target: service.ErrPaymentIntentInvalid, code: response.CodeBadRequest, key: "error.payment_intent"},
	{target: service.ErrPaymentAmountInvalid, code: response.CodeBadRequest, key: "error.payment_amount_invalid"},
}

var chatErrorRules = []mappedHandlerError{
	{target: service.ErrSessionRequired, code: response.CodeBadRequest, key: "error.session_required"},
	{target: service.ErrEmptyMessage, code: response.CodeBadRequest, key: "error.empty_message"},
	{target: service.ErrEmptyImage, code: response.CodeBadRequest, key: "error.empty_image"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(cartErrorRules, checkoutExtraErrorRules), response.CodeInternal, "error.internal")
}

func respondChatError(c *gin.Context, err error) {
	respondWithMappedError(c, err, chatErrorRules, response.CodeInternal, "error.internal")
}
