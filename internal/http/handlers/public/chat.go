package public

import (
	"io"

	"github.com/cartana-shop/storefront/internal/http/response"
	"github.com/cartana-shop/storefront/internal/i18n"

	"github.com/gin-gonic/gin"
)

// chatImageMaxBytes 聊天图片大小上限
const chatImageMaxBytes = 8 << 20

// ChatMessageRequest 发送聊天消息请求
type ChatMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// GetChatMessages 获取会话消息列表
func (h *Handler) GetChatMessages(c *gin.Context) {
	session, ok := getSessionID(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{
		"messages": h.ChatService.Messages(session),
		"isTyping": h.ChatService.IsTyping(session),
	})
}

// SendChatMessage 发送消息并等待助手回复
func (h *Handler) SendChatMessage(c *gin.Context) {
	session, ok := getSessionID(c)
	if !ok {
		return
	}
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	reply, err := h.ChatService.SendMessage(c.Request.Context(), session, req.Content)
	if err != nil {
		respondChatError(c, err)
		return
	}
	response.Success(c, gin.H{
		"message":  reply,
		"messages": h.ChatService.Messages(session),
	})
}

// UploadChatImage 上传聊天图片并触发助手回应
func (h *Handler) UploadChatImage(c *gin.Context) {
	session, ok := getSessionID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if fileHeader.Size > chatImageMaxBytes {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, response.CodeInternal, "error.image_upload_failed", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, chatImageMaxBytes))
	if err != nil {
		respondError(c, response.CodeInternal, "error.image_upload_failed", err)
		return
	}

	url, err := h.ChatService.UploadImage(c.Request.Context(), session, fileHeader.Filename, data)
	if err != nil {
		respondChatError(c, err)
		return
	}
	response.Success(c, gin.H{
		"url":      url,
		"messages": h.ChatService.Messages(session),
	})
}

// ClearChat 清空会话并重置欢迎语
func (h *Handler) ClearChat(c *gin.Context) {
	session, ok := getSessionID(c)
	if !ok {
		return
	}
	messages := h.ChatService.Clear(session)
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.T(locale, "chat.cleared"), gin.H{
		"messages": messages,
	})
}
