package chats

import (
	"context"

	"github.com/studybuddy-app/studybuddy/internal/server/models"
)

type Repository interface {
	CreateSession(ctx context.Context, session *models.ChatSession) (*models.ChatSession, error)
	GetSession(ctx context.Context, id, userID int64) (*models.ChatSession, error)
	ListSessions(ctx context.Context, userID int64, activeOnly bool) ([]models.ChatSession, error)
	UpdateSession(ctx context.Context, session *models.ChatSession) (*models.ChatSession, error)
	// DeleteSession marks the session inactive; messages are kept.
	DeleteSession(ctx context.Context, id, userID int64) error

	CreateMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error)
	ListMessages(ctx context.Context, sessionID int64) ([]models.ChatMessage, error)
	RecentMessages(ctx context.Context, sessionID int64, limit int) ([]models.ChatMessage, error)
	IncrementMessageCount(ctx context.Context, sessionID int64, delta int64) error
}
