package public

import (
	"strings"

	"github.com/cartana-shop/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// getSessionID 读取会话中间件注入的会话标识。
func getSessionID(c *gin.Context) (string, bool) {
	value, exists := c.Get("session_id")
	if !exists {
		respondError(c, response.CodeBadRequest, "error.session_required", nil)
		return "", false
	}
	session, ok := value.(string)
	if !ok || strings.TrimSpace(session) == "" {
		respondError(c, response.CodeBadRequest, "error.session_required", nil)
		return "", false
	}
	return session, true
}

// getUserID 读取 JWT 鉴权中间件注入的用户标识。
func getUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return "", false
	}
	userID, ok := value.(string)
	if !ok || strings.TrimSpace(userID) == "" {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return "", false
	}
	return userID, true
}
