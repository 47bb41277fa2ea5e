package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/studybuddy-app/studybuddy/internal/common"
	"github.com/studybuddy-app/studybuddy/internal/logging"
	"github.com/studybuddy-app/studybuddy/internal/server/auth"
	"github.com/studybuddy-app/studybuddy/internal/server/models"
	"github.com/studybuddy-app/studybuddy/internal/server/services"
)

type contextKey string

const userIDKey contextKey = "userID"

type Handler struct {
	users     *services.UserService
	chat      *services.ChatService
	jwtSecret []byte
	log       logging.Logger
}

func NewHandler(users *services.UserService, chat *services.ChatService, jwtSecret []byte, log logging.Logger) *Handler {
	return &Handler{users: users, chat: chat, jwtSecret: jwtSecret, log: log}
}

// Authenticate verifies the bearer token and stores the user id in the
// request context.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Detail: "authorization required"})
			return
		}

		userID, err := auth.GetUserIDFromToken(token, h.jwtSecret)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Detail: "invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestUserID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", common.ErrValidation)
	}
	return nil
}

func sessionIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "sessionID"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid session id", common.ErrValidation)
	}
	return id, nil
}

type loginRequest struct {
	EmailOrUsername string `json:"email_or_username"`
	Password        string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	user, token, err := h.users.Login(r.Context(), req.EmailOrUsername, req.Password)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{AccessToken: token, TokenType: "bearer", User: user})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	user, token, err := h.users.Register(r.Context(), req.Email, req.Username, req.FullName, req.Password)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{AccessToken: token, TokenType: "bearer", User: user})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetProfile(r.Context(), requestUserID(r))
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type profilePatchRequest struct {
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profilePatchRequest
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), requestUserID(r), services.ProfilePatch{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type sendMessageRequest struct {
	Content   string `json:"content"`
	SessionID *int64 `json:"session_id,omitempty"`
	Subject   string `json:"subject"`
}

type sendMessageResponse struct {
	SessionID        int64               `json:"session_id"`
	UserMessage      *models.ChatMessage `json:"user_message"`
	AssistantMessage *models.ChatMessage `json:"assistant_message"`
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	exchange, err := h.chat.SendMessage(r.Context(), requestUserID(r), req.SessionID, req.Subject, req.Content)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		SessionID:        exchange.Session.ID,
		UserMessage:      exchange.UserMessage,
		AssistantMessage: exchange.AssistantMessage,
	})
}

type createSessionRequest struct {
	Title   string `json:"title"`
	Subject string `json:"subject"`
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	session, err := h.chat.CreateSession(r.Context(), requestUserID(r), req.Title, req.Subject)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	sessions, err := h.chat.ListSessions(r.Context(), requestUserID(r), activeOnly)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	if sessions == nil {
		sessions = []models.ChatSession{}
	}

	writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	session, err := h.chat.GetSession(r.Context(), requestUserID(r), sessionID)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) GetSessionMessages(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	messages, err := h.chat.GetSessionMessages(r.Context(), requestUserID(r), sessionID)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	writeJSON(w, http.StatusOK, messages)
}

type sessionPatchRequest struct {
	Title    *string `json:"title,omitempty"`
	Subject  *string `json:"subject,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	var req sessionPatchRequest
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	session, err := h.chat.UpdateSession(r.Context(), requestUserID(r), sessionID, services.SessionPatch{
		Title:    req.Title,
		Subject:  req.Subject,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	if err := h.chat.DeleteSession(r.Context(), requestUserID(r), sessionID); err != nil {
		writeError(r.Context(), w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
