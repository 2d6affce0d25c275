package model

import "time"

// Chat log entry kinds.
const (
	ChatTypeUser      = 1
	ChatTypeAssistant = 2
)

// ChatLog records one side of a chat exchange.
type ChatLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Mode       string    `json:"mode" gorm:"index;size:20"`
	ChatType   int       `json:"chat_type" gorm:"index"` // 1=user message, 2=assistant reply
	ParentID   uint      `json:"parent_id"`              // user message this reply answers
	Content    string    `json:"content" gorm:"type:text"`
	Sources    string    `json:"sources" gorm:"type:text"` // JSON array of cited sources
	TokenUsage int       `json:"token_usage"`
}

// TableName sets the table name.
func (ChatLog) TableName() string {
	return "chat_logs"
}
