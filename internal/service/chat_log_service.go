package service

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/cortivus/chat-api/internal/model"
)

// ChatLogService persists chat exchanges. Persistence is best effort: the
// caller logs failures but never blocks a chat response on them.
type ChatLogService struct {
	db *gorm.DB
}

// NewChatLogService creates a chat log service on the given connection.
func NewChatLogService(db *gorm.DB) *ChatLogService {
	return &ChatLogService{db: db}
}

// CreateUserMessage records an inbound user message.
func (s *ChatLogService) CreateUserMessage(mode, content string) (*model.ChatLog, error) {
	log := &model.ChatLog{
		Mode:     mode,
		ChatType: model.ChatTypeUser,
		Content:  content,
	}
	if err := s.db.Create(log).Error; err != nil {
		return nil, err
	}
	return log, nil
}

// CreateAssistantMessage records a generated reply, linked to the user
// message it answers, with its cited sources and token usage.
func (s *ChatLogService) CreateAssistantMessage(mode, content string, parentID uint, sources []string, tokenUsage int) (*model.ChatLog, error) {
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return nil, err
	}

	log := &model.ChatLog{
		Mode:       mode,
		ChatType:   model.ChatTypeAssistant,
		ParentID:   parentID,
		Content:    content,
		Sources:    string(sourcesJSON),
		TokenUsage: tokenUsage,
	}
	if err := s.db.Create(log).Error; err != nil {
		return nil, err
	}
	return log, nil
}

// RecentLogs returns the newest entries, most recent first.
func (s *ChatLogService) RecentLogs(limit int) ([]model.ChatLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []model.ChatLog
	err := s.db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
