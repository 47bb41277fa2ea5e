// Package models defines the client-side data records exchanged with the
// answering service. Wire shapes (snake_case JSON, integer ids) follow the
// service's API.
package models

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation transcript.
//
// A message exists in exactly one of two id spaces: provisional messages are
// created locally with a LocalID and a zero server ID, and are replaced
// atomically once the service answers; authoritative messages carry the
// server-assigned ID and no LocalID. The two spaces cannot collide.
type Message struct {
	ID           int64     `json:"id"`
	SessionID    int64     `json:"session_id,omitempty"`
	Role         Role      `json:"role"`
	Content      string    `json:"content"`
	TokensUsed   int       `json:"tokens_used,omitempty"`
	ModelUsed    string    `json:"model_used,omitempty"`
	ResponseTime int64     `json:"response_time,omitempty"` // milliseconds
	CreatedAt    time.Time `json:"created_at"`

	// LocalID tags a not-yet-acknowledged optimistic message. Never sent
	// to or received from the service.
	LocalID string `json:"-"`
}

// Provisional reports whether the message is a local optimistic placeholder.
func (m Message) Provisional() bool {
	return m.LocalID != "" && m.ID == 0
}

// SessionSummary is the service's metadata view of one study session.
type SessionSummary struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id,omitempty"`
	Title        string     `json:"title"`
	Subject      string     `json:"subject"`
	IsActive     bool       `json:"is_active"`
	MessageCount int        `json:"message_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
