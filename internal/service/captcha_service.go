package service

import (
	"strings"
	"sync"
	"time"

	"github.com/cartana-shop/storefront/internal/config"
	"github.com/cartana-shop/storefront/internal/constants"

	"github.com/mojocn/base64Captcha"
)

// 验证码提供方
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// CaptchaVerifyPayload 验证码校验请求载荷
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 验证码服务。按场景开关决定是否校验，仅支持图片验证码
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu         sync.Mutex
	imageStore base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: cfg}
}

// Enabled 验证码整体是否启用
func (s *CaptchaService) Enabled() bool {
	return strings.TrimSpace(s.cfg.Provider) == CaptchaProviderImage
}

// SceneEnabled 指定场景是否需要验证码
func (s *CaptchaService) SceneEnabled(scene string) bool {
	if !s.Enabled() {
		return false
	}
	switch scene {
	case constants.CaptchaSceneLogin:
		return s.cfg.Scenes.Login
	default:
		return false
	}
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if !s.Enabled() {
		return nil, ErrCaptchaRequired
	}
	driver := base64Captcha.NewDriverString(
		s.imageHeight(),
		s.imageWidth(),
		s.cfg.Image.NoiseCount,
		s.cfg.Image.ShowLine,
		s.imageLength(),
		"0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.ensureImageStore())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 按场景校验验证码。场景未启用时直接通过
func (s *CaptchaService) Verify(scene string, payload CaptchaVerifyPayload) error {
	if !s.SceneEnabled(scene) {
		return nil
	}
	captchaID := strings.TrimSpace(payload.CaptchaID)
	captchaCode := strings.TrimSpace(payload.CaptchaCode)
	if captchaID == "" || captchaCode == "" {
		return ErrCaptchaRequired
	}
	if !s.ensureImageStore().Verify(captchaID, captchaCode, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) ensureImageStore() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imageStore == nil {
		maxStore := s.cfg.Image.MaxStore
		if maxStore <= 0 {
			maxStore = base64Captcha.GCLimitNumber
		}
		expire := time.Duration(s.cfg.Image.ExpireSeconds) * time.Second
		if expire <= 0 {
			expire = base64Captcha.Expiration
		}
		s.imageStore = base64Captcha.NewMemoryStore(maxStore, expire)
	}
	return s.imageStore
}

func (s *CaptchaService) imageHeight() int {
	if s.cfg.Image.Height > 0 {
		return s.cfg.Image.Height
	}
	return 80
}

func (s *CaptchaService) imageWidth() int {
	if s.cfg.Image.Width > 0 {
		return s.cfg.Image.Width
	}
	return 240
}

func (s *CaptchaService) imageLength() int {
	if s.cfg.Image.Length > 0 {
		return s.cfg.Image.Length
	}
	return 5
}
