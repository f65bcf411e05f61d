package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/cartana-shop/storefront/internal/config"
	"github.com/cartana-shop/storefront/internal/constants"
	"github.com/cartana-shop/storefront/internal/logger"
	"github.com/cartana-shop/storefront/internal/models"
	"github.com/cartana-shop/storefront/internal/repository"
	"github.com/cartana-shop/storefront/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 用户认证服务。每个操作返回自身的结果与错误，服务不持有请求级状态
type AuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	kv       storage.KV
	now      func() time.Time
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, kv storage.KV) *AuthService {
	return &AuthService{
		cfg:      cfg,
		userRepo: userRepo,
		kv:       kv,
		now:      time.Now,
	}
}

// AuthResult 登录/注册结果
type AuthResult struct {
	User      models.PublicUser `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func userKey(session string) string {
	return constants.KVKeyUserPrefix + session
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(trimmed), nil
}

// Login 校验凭证。只有库中存在且密码匹配的账号可以登录，失败统一返回 ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, session, email, password string) (*AuthResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.TouchLastLogin(user.ID); err != nil {
		logger.Warnw("touch_last_login_failed", "user_id", user.ID, "error", err)
	}
	return s.establish(ctx, session, user)
}

// Register 注册新账号。与演示数据保持一致，不做重名拦截，ID 取 user-<毫秒时间戳>
func (s *AuthService) Register(ctx context.Context, session, name, email, password string) (*AuthResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(password) == "" {
		return nil, ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           fmt.Sprintf("user-%d", s.now().UnixMilli()),
		Name:         strings.TrimSpace(name),
		Email:        normalized,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		// 邮箱冲突不阻断注册流程，会话仍以新身份建立
		logger.Warnw("register_persist_failed", "email", normalized, "error", err)
	}
	return s.establish(ctx, session, user)
}

// establish 落地会话用户并签发 JWT
func (s *AuthService) establish(ctx context.Context, session string, user *models.User) (*AuthResult, error) {
	public := user.Public()
	if strings.TrimSpace(session) != "" {
		payload, err := json.Marshal(public)
		if err == nil {
			if err := s.kv.Set(ctx, userKey(session), payload); err != nil {
				logger.Warnw("session_user_persist_failed", "session", session, "error", err)
			}
		}
	}
	token, expiresAt, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: public, Token: token, ExpiresAt: expiresAt}, nil
}

// Logout 清除会话用户
func (s *AuthService) Logout(ctx context.Context, session string) error {
	if strings.TrimSpace(session) == "" {
		return nil
	}
	if err := s.kv.Delete(ctx, userKey(session)); err != nil {
		logger.Warnw("session_user_clear_failed", "session", session, "error", err)
	}
	return nil
}

// ForgotPassword 模拟找回密码，只校验邮箱格式，无其他可观察效果
func (s *AuthService) ForgotPassword(_ context.Context, email string) error {
	if _, err := normalizeEmail(email); err != nil {
		return err
	}
	return nil
}

// CurrentUser 读取会话当前用户。键不存在或值损坏时视为匿名（返回 nil）
func (s *AuthService) CurrentUser(ctx context.Context, session string) *models.PublicUser {
	if strings.TrimSpace(session) == "" {
		return nil
	}
	raw, found, err := s.kv.Get(ctx, userKey(session))
	if err != nil {
		logger.Warnw("session_user_load_failed", "session", session, "error", err)
		return nil
	}
	if !found {
		return nil
	}
	var user models.PublicUser
	if err := json.Unmarshal(raw, &user); err != nil {
		logger.Warnw("session_user_corrupt", "session", session, "error", err)
		return nil
	}
	if user.ID == "" {
		return nil
	}
	return &user
}

// GenerateToken 生成用户 JWT Token
func (s *AuthService) GenerateToken(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)
	claims := UserJWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken 解析用户 JWT Token
func (s *AuthService) ParseToken(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("无效的 token")
}
