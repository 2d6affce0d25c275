package server

import (
	"net/http"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/gin-gonic/gin"

	"github.com/cortivus/chat-api/internal/config"
	"github.com/cortivus/chat-api/internal/llm"
	"github.com/cortivus/chat-api/internal/model"
	"github.com/cortivus/chat-api/internal/retrieval"
	"github.com/cortivus/chat-api/internal/service"
)

// ChatHandler handles chat requests: retrieval, generation, then response
// shaping with cited sources.
type ChatHandler struct {
	config         *config.Config
	retriever      *retrieval.Retriever
	llmClient      *llm.Client
	chatLogService *service.ChatLogService
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(cfg *config.Config, retriever *retrieval.Retriever, llmClient *llm.Client, chatLogService *service.ChatLogService) *ChatHandler {
	return &ChatHandler{
		config:         cfg,
		retriever:      retriever,
		llmClient:      llmClient,
		chatLogService: chatLogService,
	}
}

// ChatRequest is the inbound chat payload.
type ChatRequest struct {
	Message string           `json:"message"`
	Mode    string           `json:"mode"`
	History []HistoryMessage `json:"history"`
}

// HistoryMessage is one prior turn as the frontend sends it.
type HistoryMessage struct {
	Type string `json:"type"` // "user" or "bot"
	Text string `json:"text"`
}

// Chat processes one chat turn.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if req.Message == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "No message provided"})
		return
	}

	modeStr := req.Mode
	if modeStr == "" {
		modeStr = h.config.Retrieval.DefaultMode
	}
	mode, err := retrieval.ParseMode(modeStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	// Demo modes short-circuit with canned text: no retrieval, no
	// generation call.
	if reply, ok := mode.StaticReply(); ok {
		c.JSON(http.StatusOK, model.ChatResponse{
			Response:  reply,
			Sources:   []string{},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	// Persistence is best effort throughout; a dead log store must never
	// break the conversation.
	userLog, err := h.chatLogService.CreateUserMessage(string(mode), req.Message)
	if err != nil {
		logx.Error("Failed to save user message: %v", err)
	}

	docs := h.retriever.Retrieve(c.Request.Context(), req.Message, mode)

	responseText, tokenUsage := h.llmClient.Generate(
		c.Request.Context(),
		req.Message,
		docs,
		translateHistory(req.History),
		mode,
	)
	logx.Info("Generated reply, mode %s, documents %d, tokens %d", mode, len(docs), tokenUsage)

	sources := extractSources(docs)

	if userLog != nil {
		if _, err := h.chatLogService.CreateAssistantMessage(
			string(mode), responseText, userLog.ID, sources, tokenUsage,
		); err != nil {
			logx.Error("Failed to save assistant reply: %v", err)
		}
	}

	c.JSON(http.StatusOK, model.ChatResponse{
		Response:  responseText,
		Sources:   sources,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// translateHistory converts frontend history entries to conversation turns:
// "user" maps to the user role, "bot" to assistant, anything else is dropped.
func translateHistory(history []HistoryMessage) []llm.ConversationTurn {
	turns := make([]llm.ConversationTurn, 0, len(history))
	for _, msg := range history {
		switch msg.Type {
		case "user":
			turns = append(turns, llm.ConversationTurn{Role: llm.RoleUser, Content: msg.Text})
		case "bot":
			turns = append(turns, llm.ConversationTurn{Role: llm.RoleAssistant, Content: msg.Text})
		}
	}
	return turns
}

// extractSources collects the distinct document sources in first-occurrence
// order.
func extractSources(docs []retrieval.Document) []string {
	sources := make([]string, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if doc.Source == "" || seen[doc.Source] {
			continue
		}
		seen[doc.Source] = true
		sources = append(sources, doc.Source)
	}
	return sources
}
