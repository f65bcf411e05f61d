package service

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cartana-shop/storefront/internal/config"
	"github.com/cartana-shop/storefront/internal/constants"
	"github.com/cartana-shop/storefront/internal/logger"
	"github.com/cartana-shop/storefront/internal/models"
	"github.com/cartana-shop/storefront/internal/repository"

	"github.com/google/uuid"
)

// CategoryFacet 搜索结果分类面板项
type CategoryFacet struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PriceRangeFacet 搜索结果价格区间面板项，Max 为 nil 表示无上限
type PriceRangeFacet struct {
	Min   float64  `json:"min"`
	Max   *float64 `json:"max"`
	Count int      `json:"count"`
}

// MessageData 助手回复的结构化负载，Type 区分变体
type MessageData struct {
	Type        string            `json:"type,omitempty"`
	Products    []models.Product  `json:"products,omitempty"`
	Product     *models.Product   `json:"product,omitempty"`
	Layout      string            `json:"layout,omitempty"`
	SearchTerm  string            `json:"searchTerm,omitempty"`
	Categories  []CategoryFacet   `json:"categories,omitempty"`
	PriceRanges []PriceRangeFacet `json:"priceRanges,omitempty"`
	ToolsUsed   []string          `json:"tools_used,omitempty"`
	ImageURL    string            `json:"image_url,omitempty"`
}

// ChatMessage 聊天消息
type ChatMessage struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	Role      string       `json:"role"`
	Timestamp time.Time    `json:"timestamp"`
	Data      *MessageData `json:"data,omitempty"`
}

// chatSession 会话内存状态（消息记录 + 最近上传的图片句柄）
type chatSession struct {
	mu                sync.Mutex
	messages          []ChatMessage
	typing            bool
	lastUploadedImage string
}

// chatRule 调度规则。规则按声明顺序逐条求值，首个命中者生成回复
type chatRule struct {
	name    string
	match   func(content string, sess *chatSession) bool
	respond func(s *ChatService, content string, sess *chatSession) ChatMessage
}

// ChatService 聊天调度服务。没有真实模型，按规则表匹配用户意图
type ChatService struct {
	cfg         *config.ChatConfig
	productRepo repository.ProductRepository
	rules       []chatRule
	now         func() time.Time
	randIntn    func(n int) int

	mu       sync.Mutex
	sessions map[string]*chatSession
}

// NewChatService 创建聊天服务
func NewChatService(cfg *config.ChatConfig, productRepo repository.ProductRepository) *ChatService {
	s := &ChatService{
		cfg:         cfg,
		productRepo: productRepo,
		now:         time.Now,
		randIntn:    rand.Intn,
		sessions:    make(map[string]*chatSession),
	}
	s.rules = defaultChatRules()
	return s
}

// welcomeMessage 欢迎语（清空会话后也回到这条）
func (s *ChatService) welcomeMessage() ChatMessage {
	name := strings.TrimSpace(s.cfg.AssistantName)
	if name == "" {
		name = "Cartana"
	}
	return ChatMessage{
		ID:        "welcome",
		Content:   fmt.Sprintf("Hi there! I'm %s, your AI shopping assistant. How can I help you today?", name),
		Role:      constants.ChatRoleAssistant,
		Timestamp: s.now(),
	}
}

// session 获取或初始化会话
func (s *ChatService) session(id string) *chatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &chatSession{messages: []ChatMessage{s.welcomeMessage()}}
		s.sessions[id] = sess
	}
	return sess
}

// Messages 获取会话消息记录
func (s *ChatService) Messages(session string) []ChatMessage {
	sess := s.session(session)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]ChatMessage, len(sess.messages))
	copy(out, sess.messages)
	return out
}

// IsTyping 会话当前是否处于输入中状态
func (s *ChatService) IsTyping(session string) bool {
	sess := s.session(session)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.typing
}

// Clear 清空会话，回到单条欢迎语并丢弃图片记忆
func (s *ChatService) Clear(session string) []ChatMessage {
	sess := s.session(session)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.messages = []ChatMessage{s.welcomeMessage()}
	sess.lastUploadedImage = ""
	sess.typing = false
	out := make([]ChatMessage, len(sess.messages))
	copy(out, sess.messages)
	return out
}

// UploadImage 接收图片并保存会话级句柄（仅会话内有效，不做持久化）
func (s *ChatService) UploadImage(ctx context.Context, session string, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	sess := s.session(session)

	sess.mu.Lock()
	sess.typing = true
	sess.mu.Unlock()

	err := sleep(ctx, time.Duration(s.cfg.ImageUploadDelayMS)*time.Millisecond)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.typing = false
	if err != nil {
		return "", err
	}

	ext := ""
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		ext = filename[idx:]
	}
	imageURL := fmt.Sprintf("/uploads/chat/%s%s", uuid.NewString(), ext)
	sess.lastUploadedImage = imageURL
	logger.Infow("chat_image_uploaded", "session", session, "image_url", imageURL, "bytes", len(data))
	return imageURL, nil
}

// SendMessage 处理一条用户消息：记录消息、模拟思考延迟、按规则表生成唯一一条回复。
// ctx 取消时不产出回复，输入中状态复位
func (s *ChatService) SendMessage(ctx context.Context, session string, content string) (*ChatMessage, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}
	sess := s.session(session)
	lower := strings.ToLower(content)

	sess.mu.Lock()
	userMsg := ChatMessage{
		ID:        fmt.Sprintf("user-%d", s.now().UnixMilli()),
		Content:   content,
		Role:      constants.ChatRoleUser,
		Timestamp: s.now(),
	}
	// 消息涉及图片时在用户消息上回链最近上传的图片
	if sess.lastUploadedImage != "" &&
		(strings.Contains(lower, "image") || strings.Contains(lower, "similar") || strings.Contains(lower, "this")) {
		userMsg.Data = &MessageData{ImageURL: sess.lastUploadedImage}
	}
	sess.messages = append(sess.messages, userMsg)
	sess.typing = true
	sess.mu.Unlock()

	if err := sleep(ctx, time.Duration(s.cfg.ReplyDelayMS)*time.Millisecond); err != nil {
		sess.mu.Lock()
		sess.typing = false
		sess.mu.Unlock()
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	reply := s.dispatch(lower, sess)
	sess.messages = append(sess.messages, reply)
	sess.typing = false
	return &reply, nil
}

// dispatch 按顺序求值规则表，首个命中者生成回复，末条兜底规则必然命中
func (s *ChatService) dispatch(lower string, sess *chatSession) ChatMessage {
	for _, rule := range s.rules {
		if rule.match(lower, sess) {
			reply := rule.respond(s, lower, sess)
			logger.Debugw("chat_rule_matched", "rule", rule.name)
			return reply
		}
	}
	// 兜底规则 match 恒真，不会走到这里
	return s.assistantText("I can help you find products that match your needs. What are you looking for?")
}

func (s *ChatService) assistantText(content string) ChatMessage {
	return ChatMessage{
		ID:        fmt.Sprintf("assistant-%d", s.now().UnixMilli()),
		Content:   content,
		Role:      constants.ChatRoleAssistant,
		Timestamp: s.now(),
	}
}

func (s *ChatService) assistantData(content string, data MessageData) ChatMessage {
	msg := s.assistantText(content)
	msg.Data = &data
	return msg
}

// topProducts 取商品列表前 n 个
func (s *ChatService) topProducts(n int, category string) []models.Product {
	products, err := s.productRepo.List(repository.ProductListFilter{Category: category, Limit: n})
	if err != nil {
		logger.Warnw("chat_product_lookup_failed", "error", err)
		return []models.Product{}
	}
	return products
}

func containsAny(content string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(content, term) {
			return true
		}
	}
	return false
}

var searchTermCleaner = regexp.MustCompile(`(?i)search for|search|find|show me`)

// defaultChatRules 规则表。顺序即优先级；"search" 规则被上面的商品检索规则
// 遮蔽（其触发词是前者触发词的子集），保留声明以维持与检索面板的兼容行为
func defaultChatRules() []chatRule {
	return []chatRule{
		{
			name: "image_product_search",
			match: func(content string, sess *chatSession) bool {
				return sess.lastUploadedImage != "" && containsAny(content, "image", "similar")
			},
			respond: func(s *ChatService, content string, sess *chatSession) ChatMessage {
				max := s.maxCarousel()
				return s.assistantData("I analyzed your uploaded image and found these similar products:", MessageData{
					Type:      constants.ChatDataTypeProducts,
					Products:  s.topProducts(max, ""),
					Layout:    constants.ChatLayoutCarousel,
					ImageURL:  sess.lastUploadedImage,
					ToolsUsed: []string{"image_product_search"},
				})
			},
		},
		{
			name: "search_products",
			match: func(content string, _ *chatSession) bool {
				return containsAny(content, "show", "find", "search", "looking for")
			},
			respond: func(s *ChatService, content string, _ *chatSession) ChatMessage {
				category := ""
				for _, term := range constants.AllCategories {
					if strings.Contains(content, term) {
						category = term
						break
					}
				}
				products := s.topProducts(s.maxCarousel(), category)
				if len(products) == 0 {
					return s.assistantText("I couldn't find any products matching your request. Could you try different search terms?")
				}
				label := ""
				if category != "" {
					label = category + " "
				}
				return s.assistantData(fmt.Sprintf("Here are some %sproducts that might interest you:", label), MessageData{
					Type:      constants.ChatDataTypeProducts,
					Products:  products,
					Layout:    constants.ChatLayoutCarousel,
					ToolsUsed: []string{"search_products"},
				})
			},
		},
		{
			name: "compare_products",
			match: func(content string, _ *chatSession) bool {
				return strings.Contains(content, "compare")
			},
			respond: func(s *ChatService, _ string, _ *chatSession) ChatMessage {
				return s.assistantData("Here's a comparison of products you might be interested in:", MessageData{
					Type:      constants.ChatDataTypeProducts,
					Products:  s.topProducts(2, ""),
					Layout:    constants.ChatLayoutComparison,
					ToolsUsed: []string{"compare_products"},
				})
			},
		},
		{
			name: "get_product_details",
			match: func(content string, _ *chatSession) bool {
				return containsAny(content, "detail", "more info", "specifications")
			},
			respond: func(s *ChatService, _ string, _ *chatSession) ChatMessage {
				products := s.topProducts(1, "")
				var product *models.Product
				if len(products) > 0 {
					product = &products[0]
				}
				return s.assistantData("Here are the details for the product you requested:", MessageData{
					Type:      constants.ChatDataTypeProductDetail,
					Product:   product,
					ToolsUsed: []string{"get_product_details"},
				})
			},
		},
		{
			name: "search_results_view",
			match: func(content string, _ *chatSession) bool {
				return strings.Contains(content, "search")
			},
			respond: func(s *ChatService, content string, _ *chatSession) ChatMessage {
				term := strings.TrimSpace(searchTermCleaner.ReplaceAllString(content, ""))
				max200 := 200.0
				max100 := 100.0
				return s.assistantData(fmt.Sprintf("Here are your search results for %q:", term), MessageData{
					Type:       constants.ChatDataTypeSearchResults,
					SearchTerm: term,
					Products:   s.topProducts(s.maxSearchResults(), ""),
					Categories: []CategoryFacet{
						{Name: "Electronics", Count: 3},
						{Name: "Clothing", Count: 2},
						{Name: "Home & Kitchen", Count: 1},
					},
					PriceRanges: []PriceRangeFacet{
						{Min: 0, Max: &max100, Count: 2},
						{Min: 100, Max: &max200, Count: 3},
						{Min: 200, Max: nil, Count: 1},
					},
					ToolsUsed: []string{"search_products"},
				})
			},
		},
		{
			name:  "fallback",
			match: func(string, *chatSession) bool { return true },
			respond: func(s *ChatService, _ string, _ *chatSession) ChatMessage {
				responses := []string{
					"I can help you find products that match your needs. What are you looking for?",
					"Would you like me to recommend some of our bestsellers?",
					"I can show you our latest arrivals if you're interested.",
					"Is there a specific category you're interested in?",
					"I can help you compare different products if you'd like.",
					"You can also upload an image, and I'll find similar products for you!",
				}
				return s.assistantText(responses[s.randIntn(len(responses))])
			},
		},
	}
}

func (s *ChatService) maxCarousel() int {
	if s.cfg.MaxCarouselProducts > 0 {
		return s.cfg.MaxCarouselProducts
	}
	return 4
}

func (s *ChatService) maxSearchResults() int {
	if s.cfg.MaxSearchResultItems > 0 {
		return s.cfg.MaxSearchResultItems
	}
	return 6
}
