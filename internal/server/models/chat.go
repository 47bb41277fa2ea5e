package models

import "time"

type ChatSession struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Title        string     `json:"title"`
	Subject      string     `json:"subject"`
	IsActive     bool       `json:"is_active"`
	MessageCount int64      `json:"message_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

type ChatMessage struct {
	ID           int64     `json:"id"`
	SessionID    int64     `json:"session_id"`
	Role         string    `json:"role"`
	Content      string    `json:"content"`
	TokensUsed   int64     `json:"tokens_used"`
	ModelUsed    string    `json:"model_used,omitempty"`
	ResponseTime int64     `json:"response_time"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
