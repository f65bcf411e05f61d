package public

import (
	"errors"

	"github.com/cartana-shop/storefront/internal/constants"
	"github.com/cartana-shop/storefront/internal/http/response"
	"github.com/cartana-shop/storefront/internal/i18n"
	"github.com/cartana-shop/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email          string                `json:"email" binding:"required"`
	Password       string                `json:"password" binding:"required"`
	CaptchaPayload CaptchaPayloadRequest `json:"captcha_payload"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordRequest 找回密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	session, ok := getSessionID(c)
	if !ok {
		return
	}
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaPayload.toServicePayload()); captchaErr != nil {
		switch {
		case errors.Is(captchaErr, service.ErrCaptchaRequired):
			respondError(c, response.CodeBadRequest, "error.captcha_required", nil)
		case errors.Is(captchaErr, service.ErrCaptchaInvalid):
			respondError(c, response.CodeBadRequest, "error.captcha_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", captchaErr)
		}
		return
	}

	result, err := h.AuthService.Login(c.Request.Context(), session, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "error.invalid_credentials", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, result)
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	session, ok := getSessionID(c)
	if !ok {
		return
	}
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.AuthService.Register(c.Request.Context(), session, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.invalid_email", nil)
		case errors.Is(err, service.ErrInvalidPassword):
			respondError(c, response.CodeBadRequest, "error.invalid_password", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, result)
}

// Logout 退出登录
func (h *Handler) Logout(c *gin.Context) {
	session, ok := getSessionID(c)
	if !ok {
		return
	}
	_ = h.AuthService.Logout(c.Request.Context(), session)
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "auth.logged_out"), nil)
}

// ForgotPassword 找回密码（仅校验邮箱，避免泄露账号是否存在）
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "error.invalid_email", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "auth.reset_email_sent"), nil)
}

// GetCurrentUser 获取当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeUnauthorized, "error.token_invalid", nil)
		return
	}
	response.Success(c, user.Public())
}
