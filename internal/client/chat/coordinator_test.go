package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/studybuddy-app/studybuddy/internal/client/api"
	"github.com/studybuddy-app/studybuddy/internal/client/models"
	"github.com/studybuddy-app/studybuddy/internal/logging"
)

// fakeSender implements Sender for coordinator tests.
type fakeSender struct {
	Resp *api.SendMessageResponse
	Err  error

	Calls   int
	LastReq api.SendMessageRequest

	// OnSend runs inside SendMessage, after the request is recorded.
	OnSend func(req api.SendMessageRequest)
}

func (f *fakeSender) SendMessage(ctx context.Context, req api.SendMessageRequest) (*api.SendMessageResponse, error) {
	f.Calls++
	f.LastReq = req
	if f.OnSend != nil {
		f.OnSend(req)
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Resp, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func exchangeResponse(sessionID, userID, assistantID int64, question string) *api.SendMessageResponse {
	return &api.SendMessageResponse{
		SessionID: sessionID,
		UserMessage: models.Message{
			ID: userID, SessionID: sessionID, Role: models.RoleUser,
			Content: question, CreatedAt: time.Now(),
		},
		AssistantMessage: models.Message{
			ID: assistantID, SessionID: sessionID, Role: models.RoleAssistant,
			Content: "here is how it works", TokensUsed: 42, ResponseTime: 1200,
			CreatedAt: time.Now(),
		},
	}
}

func TestSubmitEmptyInput(t *testing.T) {
	conv := NewConversation("New Study Session", "math")
	client := &fakeSender{}
	coord := NewCoordinator(conv, client, testLogger())

	_, err := coord.Submit(context.Background(), "   \n")
	require.ErrorIs(t, err, ErrEmptyMessage)
	require.Equal(t, 0, client.Calls)
	require.Equal(t, 0, conv.Len())
}

func TestSubmitFirstSendBindsSession(t *testing.T) {
	conv := NewConversation("New Study Session", "math")
	client := &fakeSender{Resp: exchangeResponse(7, 101, 102, "what is a derivative?")}
	coord := NewCoordinator(conv, client, testLogger())

	resp, err := coord.Submit(context.Background(), "what is a derivative?")
	require.NoError(t, err)
	require.Equal(t, int64(7), resp.SessionID)

	// unbound conversations send no session id
	require.Nil(t, client.LastReq.SessionID)
	require.Equal(t, "math", client.LastReq.Subject)

	require.True(t, conv.Bound())
	require.Equal(t, int64(7), conv.ID())

	msgs := conv.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, int64(101), msgs[0].ID)
	require.False(t, msgs[0].Provisional())
	require.Equal(t, int64(102), msgs[1].ID)
	require.Equal(t, models.RoleAssistant, msgs[1].Role)
	require.Empty(t, conv.Draft())
}

func TestSubmitBoundSendKeepsSessionID(t *testing.T) {
	conv := NewConversation("New Study Session", "math")
	require.NoError(t, conv.Bind(7))

	client := &fakeSender{Resp: exchangeResponse(7, 103, 104, "and an integral?")}
	coord := NewCoordinator(conv, client, testLogger())

	_, err := coord.Submit(context.Background(), "and an integral?")
	require.NoError(t, err)

	require.NotNil(t, client.LastReq.SessionID)
	require.Equal(t, int64(7), *client.LastReq.SessionID)
	require.Equal(t, int64(7), conv.ID())
}

func TestSubmitProvisionalVisibleDuringSend(t *testing.T) {
	conv := NewConversation("New Study Session", "math")
	client := &fakeSender{Resp: exchangeResponse(7, 101, 102, "question")}
	client.OnSend = func(req api.SendMessageRequest) {
		msgs := conv.Messages()
		require.Len(t, msgs, 1)
		require.True(t, msgs[0].Provisional())
		require.Equal(t, "question", msgs[0].Content)
	}
	coord := NewCoordinator(conv, client, testLogger())

	_, err := coord.Submit(context.Background(), "question")
	require.NoError(t, err)
}

func TestSubmitFailureRollsBackAndRestoresDraft(t *testing.T) {
	conv := NewConversation("New Study Session", "math")
	cause := errors.New("connection refused")
	client := &fakeSender{Err: cause}
	coord := NewCoordinator(conv, client, testLogger())

	_, err := coord.Submit(context.Background(), "  what is a derivative?  ")
	require.ErrorIs(t, err, cause)

	require.Equal(t, 0, conv.Len())
	require.Equal(t, "what is a derivative?", conv.Draft())
	require.False(t, conv.Bound())
	require.False(t, coord.Sending())
}

func TestSubmitRetryAfterFailure(t *testing.T) {
	conv := NewConversation("New Study Session", "math")
	client := &fakeSender{Err: errors.New("connection refused")}
	coord := NewCoordinator(conv, client, testLogger())

	_, err := coord.Submit(context.Background(), "question")
	require.Error(t, err)

	client.Err = nil
	client.Resp = exchangeResponse(7, 101, 102, "question")

	resp, err := coord.Submit(context.Background(), conv.Draft())
	require.NoError(t, err)
	require.Equal(t, int64(7), resp.SessionID)
	require.Equal(t, 2, conv.Len())
	require.Empty(t, conv.Draft())
}

func TestSubmitWhileSendingIsRejected(t *testing.T) {
	conv := NewConversation("New Study Session", "math")
	client := &fakeSender{Resp: exchangeResponse(7, 101, 102, "question")}
	coord := NewCoordinator(conv, client, testLogger())

	client.OnSend = func(req api.SendMessageRequest) {
		_, err := coord.Submit(context.Background(), "impatient")
		require.ErrorIs(t, err, ErrBusy)
	}

	_, err := coord.Submit(context.Background(), "question")
	require.NoError(t, err)
	require.Equal(t, 1, client.Calls)
}
