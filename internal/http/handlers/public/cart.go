package public

import (
	"strconv"

	"github.com/cartana-shop/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车写入请求
type CartItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// GetCart 获取当前会话的购物车
func (h *Handler) GetCart(c *gin.Context) {
	session, ok := getSessionID(c)
	if !ok {
		return
	}
	view, err := h.CartService.Get(c.Request.Context(), session)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// AddCartItem 向购物车添加商品
func (h *Handler) AddCartItem(c *gin.Context) {
	session, ok := getSessionID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CartService.AddItem(c.Request.Context(), session, req.ProductID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateCartItem 调整购物车内商品数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	session, ok := getSessionID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CartService.UpdateQuantity(c.Request.Context(), session, uint(productID), req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// DeleteCartItem 从购物车移除商品
func (h *Handler) DeleteCartItem(c *gin.Context) {
	session, ok := getSessionID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.CartService.RemoveItem(c.Request.Context(), session, uint(productID))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	session, ok := getSessionID(c)
	if !ok {
		return
	}
	view, err := h.CartService.Clear(c.Request.Context(), session)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, view)
}
