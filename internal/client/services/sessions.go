package services

import (
	"context"
	"fmt"

	"github.com/studybuddy-app/studybuddy/internal/client/api"
	"github.com/studybuddy-app/studybuddy/internal/client/chat"
	"github.com/studybuddy-app/studybuddy/internal/client/models"
)

// SessionService works with stored study sessions: the dashboard listing,
// reopening a session into a bound conversation, renaming, archiving and
// deleting.
type SessionService struct {
	client api.Client
}

func NewSessionService(client api.Client) *SessionService {
	return &SessionService{client: client}
}

func (s *SessionService) List(ctx context.Context, activeOnly bool) ([]models.SessionSummary, error) {
	return s.client.ListSessions(ctx, activeOnly)
}

// Open loads a stored session with its full message history and rebuilds
// it as a bound conversation.
func (s *SessionService) Open(ctx context.Context, sessionID int64) (*chat.Conversation, error) {
	summary, err := s.client.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	history, err := s.client.GetSessionMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	return chat.RestoreConversation(*summary, history), nil
}

func (s *SessionService) Rename(ctx context.Context, sessionID int64, title string) (*models.SessionSummary, error) {
	return s.client.UpdateSession(ctx, sessionID, api.SessionPatch{Title: &title})
}

// Archive marks a session inactive so it drops out of active-only listings.
func (s *SessionService) Archive(ctx context.Context, sessionID int64) (*models.SessionSummary, error) {
	active := false
	return s.client.UpdateSession(ctx, sessionID, api.SessionPatch{IsActive: &active})
}

func (s *SessionService) Delete(ctx context.Context, sessionID int64) error {
	return s.client.DeleteSession(ctx, sessionID)
}
