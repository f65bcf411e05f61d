package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cartana-shop/storefront/internal/models"
	"github.com/cartana-shop/storefront/internal/repository"
	"github.com/cartana-shop/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}
}

func TestSessionMiddlewareIssuesAndEchoes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(SessionMiddleware())
	r.GET("/cart", func(c *gin.Context) {
		value, _ := c.Get(sessionIDKey)
		c.JSON(http.StatusOK, gin.H{"session_id": value})
	})

	// 未携带会话头时签发新会话
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.ServeHTTP(w, req)
	issued := strings.TrimSpace(w.Header().Get(sessionIDHeader))
	if issued == "" {
		t.Fatalf("expected a session id to be issued")
	}

	// 携带会话头时原样回写
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req2.Header.Set(sessionIDHeader, "sess-abc")
	r.ServeHTTP(w2, req2)
	if w2.Header().Get(sessionIDHeader) != "sess-abc" {
		t.Fatalf("session id want sess-abc got %s", w2.Header().Get(sessionIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w2.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["session_id"] != "sess-abc" {
		t.Fatalf("context session id want sess-abc got %s", resp["session_id"])
	}
}

func setupAuthMiddlewareTest(t *testing.T) (repository.UserRepository, string) {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate users failed: %v", err)
	}
	repo := repository.NewUserRepository(db)
	if err := repo.Create(&models.User{ID: "user-1", Name: "Demo User", Email: "demo@example.com"}); err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	secret := "router-test-secret"
	claims := service.UserJWTClaims{
		UserID: "user-1",
		Email:  "demo@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return repo, token
}

func TestUserJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo, token := setupAuthMiddlewareTest(t)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware("router-test-secret", repo))
	r.GET("/me", func(c *gin.Context) {
		value, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": value})
	})

	// 合法令牌放行并注入用户
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["user_id"] != "user-1" {
		t.Fatalf("user id want user-1 got %s", resp["user_id"])
	}

	// 缺失授权头拒绝
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w2, req2)
	var errResp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("unmarshal error response failed: %v", err)
	}
	if errResp.StatusCode != 401 {
		t.Fatalf("missing header want 401 got %d", errResp.StatusCode)
	}

	// 篡改令牌拒绝
	w3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodGet, "/me", nil)
	req3.Header.Set("Authorization", "Bearer "+token+"x")
	r.ServeHTTP(w3, req3)
	if err := json.Unmarshal(w3.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("unmarshal error response failed: %v", err)
	}
	if errResp.StatusCode != 401 {
		t.Fatalf("tampered token want 401 got %d", errResp.StatusCode)
	}
}

func TestOptionalUserJWTMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, token := setupAuthMiddlewareTest(t)

	r := gin.New()
	r.Use(OptionalUserJWTMiddleware("router-test-secret"))
	r.POST("/checkout/complete", func(c *gin.Context) {
		userID := ""
		if value, exists := c.Get("user_id"); exists {
			userID, _ = value.(string)
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	// 游客请求放行
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout/complete", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("guest request want 200 got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["user_id"] != "" {
		t.Fatalf("guest request should not carry user id, got %s", resp["user_id"])
	}

	// 合法令牌注入用户但不强制
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/checkout/complete", nil)
	req2.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w2, req2)
	if err := json.Unmarshal(w2.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["user_id"] != "user-1" {
		t.Fatalf("token request want user-1 got %s", resp["user_id"])
	}

	// 无效令牌按游客放行
	w3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodPost, "/checkout/complete", nil)
	req3.Header.Set("Authorization", "Bearer invalid")
	r.ServeHTTP(w3, req3)
	if w3.Code != http.StatusOK {
		t.Fatalf("invalid token should fall back to guest, got %d", w3.Code)
	}
}
