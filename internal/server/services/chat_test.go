package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/studybuddy-app/studybuddy/internal/common"
	"github.com/studybuddy-app/studybuddy/internal/logging"
	"github.com/studybuddy-app/studybuddy/internal/server/assistant"
	"github.com/studybuddy-app/studybuddy/internal/server/models"
)

// fakeChatRepo implements chats.Repository in memory.
type fakeChatRepo struct {
	nextSessionID int64
	nextMessageID int64
	sessions      map[int64]*models.ChatSession
	messages      map[int64][]models.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		nextSessionID: 1,
		nextMessageID: 1,
		sessions:      map[int64]*models.ChatSession{},
		messages:      map[int64][]models.ChatMessage{},
	}
}

func (f *fakeChatRepo) CreateSession(ctx context.Context, session *models.ChatSession) (*models.ChatSession, error) {
	copied := *session
	copied.ID = f.nextSessionID
	copied.IsActive = true
	copied.CreatedAt = time.Now()
	f.nextSessionID++
	f.sessions[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (f *fakeChatRepo) GetSession(ctx context.Context, id, userID int64) (*models.ChatSession, error) {
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return nil, common.ErrNotFound
	}
	out := *s
	return &out, nil
}

func (f *fakeChatRepo) ListSessions(ctx context.Context, userID int64, activeOnly bool) ([]models.ChatSession, error) {
	var out []models.ChatSession
	for _, s := range f.sessions {
		if s.UserID != userID {
			continue
		}
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeChatRepo) UpdateSession(ctx context.Context, session *models.ChatSession) (*models.ChatSession, error) {
	if _, ok := f.sessions[session.ID]; !ok {
		return nil, common.ErrNotFound
	}
	copied := *session
	f.sessions[session.ID] = &copied
	out := copied
	return &out, nil
}

func (f *fakeChatRepo) DeleteSession(ctx context.Context, id, userID int64) error {
	s, ok := f.sessions[id]
	if !ok || s.UserID != userID {
		return common.ErrNotFound
	}
	s.IsActive = false
	return nil
}

func (f *fakeChatRepo) CreateMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	copied := *msg
	copied.ID = f.nextMessageID
	copied.CreatedAt = time.Now()
	f.nextMessageID++
	f.messages[copied.SessionID] = append(f.messages[copied.SessionID], copied)
	out := copied
	return &out, nil
}

func (f *fakeChatRepo) ListMessages(ctx context.Context, sessionID int64) ([]models.ChatMessage, error) {
	return append([]models.ChatMessage(nil), f.messages[sessionID]...), nil
}

func (f *fakeChatRepo) RecentMessages(ctx context.Context, sessionID int64, limit int) ([]models.ChatMessage, error) {
	msgs := f.messages[sessionID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]models.ChatMessage(nil), msgs...), nil
}

func (f *fakeChatRepo) IncrementMessageCount(ctx context.Context, sessionID int64, delta int64) error {
	s, ok := f.sessions[sessionID]
	if !ok {
		return common.ErrNotFound
	}
	s.MessageCount += delta
	return nil
}

// fakeAssistant echoes a canned answer and records what it was asked.
type fakeAssistant struct {
	Answer assistant.Answer
	Err    error

	LastSubject  string
	LastHistory  []assistant.Turn
	LastQuestion string
}

func (f *fakeAssistant) Reply(ctx context.Context, subject string, history []assistant.Turn, question string) (*assistant.Answer, error) {
	f.LastSubject = subject
	f.LastHistory = history
	f.LastQuestion = question
	if f.Err != nil {
		return nil, f.Err
	}
	out := f.Answer
	return &out, nil
}

func testChatLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newChatService(repo *fakeChatRepo, tutor *fakeAssistant) *ChatService {
	return NewChatService(repo, tutor, testConfig(), testChatLogger())
}

func TestSendMessageCreatesSession(t *testing.T) {
	repo := newFakeChatRepo()
	tutor := &fakeAssistant{Answer: assistant.Answer{Content: "an answer", TokensUsed: 42, Model: "gpt-test"}}
	svc := newChatService(repo, tutor)

	exchange, err := svc.SendMessage(context.Background(), 1, nil, "math", "what is a derivative?")
	require.NoError(t, err)

	require.Equal(t, "what is a derivative?", exchange.Session.Title)
	require.Equal(t, "math", exchange.Session.Subject)
	require.Equal(t, int64(2), exchange.Session.MessageCount)

	require.Equal(t, models.RoleUser, exchange.UserMessage.Role)
	require.Equal(t, "what is a derivative?", exchange.UserMessage.Content)
	require.Equal(t, models.RoleAssistant, exchange.AssistantMessage.Role)
	require.Equal(t, "an answer", exchange.AssistantMessage.Content)
	require.Equal(t, int64(42), exchange.AssistantMessage.TokensUsed)
	require.Equal(t, "gpt-test", exchange.AssistantMessage.ModelUsed)

	require.Equal(t, "math", tutor.LastSubject)
	require.Empty(t, tutor.LastHistory)
}

func TestSendMessageContinuesSession(t *testing.T) {
	repo := newFakeChatRepo()
	tutor := &fakeAssistant{Answer: assistant.Answer{Content: "an answer"}}
	svc := newChatService(repo, tutor)

	first, err := svc.SendMessage(context.Background(), 1, nil, "math", "first question")
	require.NoError(t, err)

	id := first.Session.ID
	second, err := svc.SendMessage(context.Background(), 1, &id, "", "second question")
	require.NoError(t, err)
	require.Equal(t, id, second.Session.ID)
	require.Equal(t, int64(4), second.Session.MessageCount)

	// the assistant saw the first exchange as history
	require.Len(t, tutor.LastHistory, 2)
	require.Equal(t, "first question", tutor.LastHistory[0].Content)
	require.Equal(t, "second question", tutor.LastQuestion)

	msgs, err := svc.GetSessionMessages(context.Background(), 1, id)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
}

func TestSendMessageUnknownSession(t *testing.T) {
	svc := newChatService(newFakeChatRepo(), &fakeAssistant{})

	id := int64(404)
	_, err := svc.SendMessage(context.Background(), 1, &id, "", "hello")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSendMessageOtherUsersSession(t *testing.T) {
	repo := newFakeChatRepo()
	tutor := &fakeAssistant{Answer: assistant.Answer{Content: "a"}}
	svc := newChatService(repo, tutor)

	first, err := svc.SendMessage(context.Background(), 1, nil, "", "mine")
	require.NoError(t, err)

	id := first.Session.ID
	_, err = svc.SendMessage(context.Background(), 2, &id, "", "not yours")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSendMessageEmptyContent(t *testing.T) {
	svc := newChatService(newFakeChatRepo(), &fakeAssistant{})

	_, err := svc.SendMessage(context.Background(), 1, nil, "", "")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestSendMessageAssistantFailureStoresNothing(t *testing.T) {
	repo := newFakeChatRepo()
	tutor := &fakeAssistant{Err: context.DeadlineExceeded}
	svc := newChatService(repo, tutor)

	first, err := svc.SendMessage(context.Background(), 1, nil, "", "works")
	require.Error(t, err)
	require.Nil(t, first)

	// the created session holds no half-written exchange
	for id := range repo.messages {
		require.Empty(t, repo.messages[id])
	}
}

func TestTitleFromContent(t *testing.T) {
	require.Equal(t, "short question", titleFromContent("short question"))

	long := strings.Repeat("x", 80)
	title := titleFromContent(long)
	require.Equal(t, 53, len(title))
	require.True(t, strings.HasSuffix(title, "..."))
}

func TestUpdateSessionPatch(t *testing.T) {
	repo := newFakeChatRepo()
	tutor := &fakeAssistant{Answer: assistant.Answer{Content: "a"}}
	svc := newChatService(repo, tutor)

	first, err := svc.SendMessage(context.Background(), 1, nil, "math", "question")
	require.NoError(t, err)

	inactive := false
	title := "Archived algebra"
	updated, err := svc.UpdateSession(context.Background(), 1, first.Session.ID, SessionPatch{
		Title: &title, IsActive: &inactive,
	})
	require.NoError(t, err)
	require.Equal(t, "Archived algebra", updated.Title)
	require.False(t, updated.IsActive)
	require.Equal(t, "math", updated.Subject)

	active, err := svc.ListSessions(context.Background(), 1, true)
	require.NoError(t, err)
	require.Empty(t, active)

	all, err := svc.ListSessions(context.Background(), 1, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestDeleteSessionDeactivates(t *testing.T) {
	repo := newFakeChatRepo()
	tutor := &fakeAssistant{Answer: assistant.Answer{Content: "a"}}
	svc := newChatService(repo, tutor)

	first, err := svc.SendMessage(context.Background(), 1, nil, "", "question")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(context.Background(), 1, first.Session.ID))

	// gone from active listings, still present with its transcript
	active, err := svc.ListSessions(context.Background(), 1, true)
	require.NoError(t, err)
	require.Empty(t, active)

	all, err := svc.ListSessions(context.Background(), 1, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.False(t, all[0].IsActive)

	msgs, err := svc.GetSessionMessages(context.Background(), 1, first.Session.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	// deleting an already inactive session is a no-op, not an error
	require.NoError(t, svc.DeleteSession(context.Background(), 1, first.Session.ID))
}

func TestDeleteSessionUnknown(t *testing.T) {
	svc := newChatService(newFakeChatRepo(), &fakeAssistant{})
	require.ErrorIs(t, svc.DeleteSession(context.Background(), 1, 404), common.ErrNotFound)
}
