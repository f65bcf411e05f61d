package public

import (
	"strconv"
	"strings"

	"github.com/cartana-shop/storefront/internal/http/response"
	"github.com/cartana-shop/storefront/internal/repository"

	"github.com/gin-gonic/gin"
)

const publicProductListLimit = 100

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit <= 0 || limit > publicProductListLimit {
		limit = publicProductListLimit
	}

	products, err := h.ProductRepo.List(repository.ProductListFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Keyword:  strings.TrimSpace(c.Query("search")),
		Limit:    limit,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{
		"items": products,
		"total": len(products),
	})
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	product, err := h.ProductRepo.GetByID(uint(id))
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if product == nil {
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
		return
	}

	response.Success(c, product)
}
