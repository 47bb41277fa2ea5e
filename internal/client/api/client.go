// Package api defines the remote answering-service contract used by the
// client, plus its HTTP/JSON implementation. Callers depend on the Client
// interface; everything above this package is transport-agnostic.
package api

import (
	"context"

	"github.com/studybuddy-app/studybuddy/internal/client/models"
)

// Client is the request/response surface of the answering service.
//
// All methods honor context cancellation and deadlines. Failures map onto
// the shared sentinel errors: common.ErrUnauthorized for a rejected
// credential, common.ErrValidation for rejected input (with the server's
// description preserved), common.ErrNotFound for missing resources,
// ErrUnavailable for transport failures, and ErrServer for everything else.
type Client interface {
	Close() error

	Login(ctx context.Context, identifier, password string) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)

	SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error)
	CreateSession(ctx context.Context, req CreateSessionRequest) (*models.SessionSummary, error)
	ListSessions(ctx context.Context, activeOnly bool) ([]models.SessionSummary, error)
	GetSession(ctx context.Context, sessionID int64) (*models.SessionSummary, error)
	GetSessionMessages(ctx context.Context, sessionID int64) ([]models.Message, error)
	UpdateSession(ctx context.Context, sessionID int64, patch SessionPatch) (*models.SessionSummary, error)
	DeleteSession(ctx context.Context, sessionID int64) error

	GetProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, patch ProfilePatch) (*models.Profile, error)
}

// AuthResponse is returned by both Login and Register.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        models.Profile `json:"user"`
}

type LoginRequest struct {
	Identifier string `json:"email_or_username"`
	Password   string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// SendMessageRequest asks the assistant to answer Content. SessionID is nil
// for a conversation that has not yet been bound to a server session; the
// service then creates one and reports its id in the response.
type SendMessageRequest struct {
	Content   string `json:"content"`
	SessionID *int64 `json:"session_id,omitempty"`
	Subject   string `json:"subject,omitempty"`
}

// SendMessageResponse carries the two authoritative records minted for one
// exchange, in transcript order.
type SendMessageResponse struct {
	SessionID        int64          `json:"session_id"`
	UserMessage      models.Message `json:"user_message"`
	AssistantMessage models.Message `json:"assistant_message"`
}

type CreateSessionRequest struct {
	Title   string `json:"title,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// SessionPatch is a partial update of session metadata; nil fields are
// left unchanged.
type SessionPatch struct {
	Title    *string `json:"title,omitempty"`
	Subject  *string `json:"subject,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ProfilePatch is a partial update of the user's profile; nil fields are
// left unchanged.
type ProfilePatch struct {
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p ProfilePatch) Empty() bool {
	return p.Email == nil && p.Username == nil && p.FullName == nil && p.Password == nil
}
