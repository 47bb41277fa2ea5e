package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/studybuddy-app/studybuddy/internal/common"
	"github.com/studybuddy-app/studybuddy/internal/logging"
	"github.com/studybuddy-app/studybuddy/internal/server/assistant"
	"github.com/studybuddy-app/studybuddy/internal/server/config"
	"github.com/studybuddy-app/studybuddy/internal/server/models"
	"github.com/studybuddy-app/studybuddy/internal/server/repositories/chats"
)

const titleLimit = 50

// SessionPatch lists the session fields a user may change. Nil fields keep
// their current values.
type SessionPatch struct {
	Title    *string
	Subject  *string
	IsActive *bool
}

// Exchange is the outcome of one send: the session the messages landed in
// and both stored rows.
type Exchange struct {
	Session          *models.ChatSession
	UserMessage      *models.ChatMessage
	AssistantMessage *models.ChatMessage
}

type ChatService struct {
	repo        chats.Repository
	assistant   assistant.Assistant
	historySize int
	log         logging.Logger
}

func NewChatService(repo chats.Repository, a assistant.Assistant, cfg *config.Config, log logging.Logger) *ChatService {
	return &ChatService{
		repo:        repo,
		assistant:   a,
		historySize: cfg.AssistantHistorySize,
		log:         log,
	}
}

// SendMessage appends the user's message to the session (creating the
// session first if sessionID is nil), asks the assistant for an answer with
// the session's recent history as context, and stores the answer.
func (s *ChatService) SendMessage(ctx context.Context, userID int64, sessionID *int64, subject, content string) (*Exchange, error) {

	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", common.ErrValidation)
	}

	var session *models.ChatSession
	var err error
	if sessionID == nil {
		session, err = s.repo.CreateSession(ctx, &models.ChatSession{
			UserID:  userID,
			Title:   titleFromContent(content),
			Subject: subject,
		})
	} else {
		session, err = s.repo.GetSession(ctx, *sessionID, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("error resolving session: %w", err)
	}

	history, err := s.repo.RecentMessages(ctx, session.ID, s.historySize)
	if err != nil {
		return nil, fmt.Errorf("error loading history: %w", err)
	}
	turns := make([]assistant.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, assistant.Turn{Role: m.Role, Content: m.Content})
	}

	start := time.Now()
	answer, err := s.assistant.Reply(ctx, session.Subject, turns, content)
	if err != nil {
		return nil, fmt.Errorf("error generating answer: %w", err)
	}
	elapsed := time.Since(start).Milliseconds()

	userMsg, err := s.repo.CreateMessage(ctx, &models.ChatMessage{
		SessionID: session.ID,
		Role:      models.RoleUser,
		Content:   content,
	})
	if err != nil {
		return nil, fmt.Errorf("error storing user message: %w", err)
	}

	assistantMsg, err := s.repo.CreateMessage(ctx, &models.ChatMessage{
		SessionID:    session.ID,
		Role:         models.RoleAssistant,
		Content:      answer.Content,
		TokensUsed:   answer.TokensUsed,
		ModelUsed:    answer.Model,
		ResponseTime: elapsed,
	})
	if err != nil {
		return nil, fmt.Errorf("error storing assistant message: %w", err)
	}

	if err := s.repo.IncrementMessageCount(ctx, session.ID, 2); err != nil {
		return nil, fmt.Errorf("error updating session: %w", err)
	}
	session.MessageCount += 2

	s.log.Debug(ctx, "message exchanged",
		"session_id", session.ID, "tokens", answer.TokensUsed, "response_ms", elapsed)

	return &Exchange{Session: session, UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

func (s *ChatService) CreateSession(ctx context.Context, userID int64, title, subject string) (*models.ChatSession, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	return s.repo.CreateSession(ctx, &models.ChatSession{
		UserID:  userID,
		Title:   title,
		Subject: subject,
	})
}

func (s *ChatService) ListSessions(ctx context.Context, userID int64, activeOnly bool) ([]models.ChatSession, error) {
	return s.repo.ListSessions(ctx, userID, activeOnly)
}

func (s *ChatService) GetSession(ctx context.Context, userID, sessionID int64) (*models.ChatSession, error) {
	return s.repo.GetSession(ctx, sessionID, userID)
}

func (s *ChatService) GetSessionMessages(ctx context.Context, userID, sessionID int64) ([]models.ChatMessage, error) {
	if _, err := s.repo.GetSession(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, sessionID)
}

func (s *ChatService) UpdateSession(ctx context.Context, userID, sessionID int64, patch SessionPatch) (*models.ChatSession, error) {

	session, err := s.repo.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		session.Title = *patch.Title
	}
	if patch.Subject != nil {
		session.Subject = *patch.Subject
	}
	if patch.IsActive != nil {
		session.IsActive = *patch.IsActive
	}

	return s.repo.UpdateSession(ctx, session)
}

// DeleteSession deactivates the session. The transcript is never dropped;
// the session only leaves active listings.
func (s *ChatService) DeleteSession(ctx context.Context, userID, sessionID int64) error {
	return s.repo.DeleteSession(ctx, sessionID, userID)
}

// titleFromContent derives a session title from the first message.
func titleFromContent(content string) string {
	if utf8.RuneCountInString(content) <= titleLimit {
		return content
	}
	runes := []rune(content)
	return string(runes[:titleLimit]) + "..."
}
