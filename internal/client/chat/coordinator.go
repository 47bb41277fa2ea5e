package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/studybuddy-app/studybuddy/internal/client/api"
	"github.com/studybuddy-app/studybuddy/internal/client/models"
	"github.com/studybuddy-app/studybuddy/internal/logging"
)

var (
	// ErrEmptyMessage rejects input that is empty after trimming.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrBusy rejects a submit while another send is in flight for the
	// same conversation.
	ErrBusy = errors.New("send already in progress")
)

// Sender is the slice of the remote client the coordinator needs.
type Sender interface {
	SendMessage(ctx context.Context, req api.SendMessageRequest) (*api.SendMessageResponse, error)
}

// Coordinator orchestrates one send at a time against one conversation:
// optimistic insert, remote call, and then either commit of the two
// authoritative records or rollback with draft restore.
//
// Per conversation the machine is Idle -> Sending -> Idle; no state is
// terminal and only one send may be in flight, so transcript order is
// exactly commit order. Results are always applied to the conversation the
// coordinator owns, keyed by its bound or pending identity, never to
// whichever conversation happens to be displayed.
type Coordinator struct {
	conv   *Conversation
	client Sender
	log    logging.Logger

	mu      sync.Mutex
	sending bool
}

func NewCoordinator(conv *Conversation, client Sender, log logging.Logger) *Coordinator {
	return &Coordinator{conv: conv, client: client, log: log}
}

// Conversation returns the conversation this coordinator reconciles into.
func (s *Coordinator) Conversation() *Conversation {
	return s.conv
}

// Sending reports whether a send is currently in flight.
func (s *Coordinator) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// Submit sends raw to the assistant.
//
// Empty trimmed input and submits while Sending are rejected up front with
// no network call and no transcript mutation. Otherwise a provisional user
// message appears immediately; on success it is atomically replaced by the
// authoritative [user, assistant] pair (binding the session id first when
// the conversation was unbound), and on failure it is removed, the trimmed
// text is restored as the conversation draft, and a descriptive error is
// returned. The coordinator is Idle again on return either way.
func (s *Coordinator) Submit(ctx context.Context, raw string) (*api.SendMessageResponse, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.sending = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sending = false
		s.mu.Unlock()
	}()

	provisional := models.Message{
		LocalID:   uuid.NewString(),
		Role:      models.RoleUser,
		Content:   text,
		CreatedAt: time.Now(),
	}
	if err := s.conv.Append(provisional); err != nil {
		return nil, err
	}

	req := api.SendMessageRequest{Content: text, Subject: s.conv.Subject()}
	if id := s.conv.ID(); id != 0 {
		req.SessionID = &id
	}

	resp, err := s.client.SendMessage(ctx, req)
	if err != nil {
		s.rollback(ctx, provisional.LocalID, text, err)
		return nil, fmt.Errorf("send message: %w", err)
	}

	if !s.conv.Bound() {
		if err := s.conv.Bind(resp.SessionID); err != nil {
			s.rollback(ctx, provisional.LocalID, text, err)
			return nil, err
		}
	}

	if err := s.conv.Replace(provisional.LocalID, resp.UserMessage, resp.AssistantMessage); err != nil {
		s.rollback(ctx, provisional.LocalID, text, err)
		return nil, err
	}
	s.conv.SetDraft("")

	s.log.Debug(ctx, "message exchange committed",
		"session_id", resp.SessionID,
		"user_message_id", resp.UserMessage.ID,
		"assistant_message_id", resp.AssistantMessage.ID,
	)
	return resp, nil
}

// rollback removes the provisional message and restores the submitted text
// as the pending draft so the user can resubmit unchanged.
func (s *Coordinator) rollback(ctx context.Context, localID, text string, cause error) {
	if err := s.conv.Replace(localID); err != nil {
		s.log.Error(ctx, "rollback failed", "error", err)
	}
	s.conv.SetDraft(text)
	s.log.Warn(ctx, "send rolled back", "error", cause)
}
