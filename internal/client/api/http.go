package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/studybuddy-app/studybuddy/internal/client/models"
	"github.com/studybuddy-app/studybuddy/internal/common"
)

// TokenSource supplies the bearer credential attached to authenticated
// requests. An empty string means "no credential"; the request is then sent
// without an Authorization header and the server decides.
type TokenSource func() string

// HTTPClient implements Client over the service's JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// NewHTTPClient builds a client for the API rooted at baseURL
// (e.g. "http://localhost:8080"). The token source may be nil for an
// unauthenticated client.
func NewHTTPClient(baseURL string, timeout time.Duration, token TokenSource) *HTTPClient {
	if token == nil {
		token = func() string { return "" }
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		http:    &http.Client{Timeout: timeout},
		token:   token,
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do performs one exchange: encodes body (if any), attaches the bearer
// token, maps the response status onto sentinel errors, and decodes the
// payload into out (if non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError turns a non-2xx response into a sentinel-wrapped error,
// keeping the server's "detail" description when it sends one.
func statusError(resp *http.Response) error {
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	detail := payload.Detail
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, detail)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, detail)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", common.ErrValidation, detail)
	default:
		return fmt.Errorf("%w: %s (status %d)", ErrServer, detail, resp.StatusCode)
	}
}

func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (*AuthResponse, error) {
	var out AuthResponse
	req := LoginRequest{Identifier: identifier, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error) {
	var out SendMessageResponse
	if err := c.do(ctx, http.MethodPost, "/chat/message", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateSession(ctx context.Context, req CreateSessionRequest) (*models.SessionSummary, error) {
	var out models.SessionSummary
	if err := c.do(ctx, http.MethodPost, "/chat/sessions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListSessions(ctx context.Context, activeOnly bool) ([]models.SessionSummary, error) {
	path := "/chat/sessions"
	if activeOnly {
		path += "?active_only=" + url.QueryEscape("true")
	}
	var out []models.SessionSummary
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetSession(ctx context.Context, sessionID int64) (*models.SessionSummary, error) {
	var out models.SessionSummary
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/chat/sessions/%d", sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetSessionMessages(ctx context.Context, sessionID int64) ([]models.Message, error) {
	var out []models.Message
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/chat/sessions/%d/messages", sessionID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateSession(ctx context.Context, sessionID int64, patch SessionPatch) (*models.SessionSummary, error) {
	var out models.SessionSummary
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/chat/sessions/%d", sessionID), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteSession(ctx context.Context, sessionID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/chat/sessions/%d", sessionID), nil, nil)
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, patch ProfilePatch) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodPatch, "/users/me", patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ Client = (*HTTPClient)(nil)
