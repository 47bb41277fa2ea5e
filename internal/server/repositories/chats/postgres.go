package chats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/studybuddy-app/studybuddy/internal/common"
	"github.com/studybuddy-app/studybuddy/internal/dbx"
	"github.com/studybuddy-app/studybuddy/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, user_id, title, subject, is_active, message_count, created_at, updated_at`
const messageColumns = `id, session_id, role, content, tokens_used, model_used, response_time, created_at`

func scanSession(row *sql.Row) (*models.ChatSession, error) {
	s := &models.ChatSession{}
	err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.Subject,
		&s.IsActive, &s.MessageCount, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) CreateSession(ctx context.Context, session *models.ChatSession) (*models.ChatSession, error) {

	query :=
		`INSERT INTO chat_sessions (user_id, title, subject)
		 VALUES ($1, $2, $3)
		 RETURNING ` + sessionColumns

	row := r.db.QueryRowContext(ctx, query, session.UserID, session.Title, session.Subject)
	return scanSession(row)
}

func (r *PostgresRepository) GetSession(ctx context.Context, id, userID int64) (*models.ChatSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE id = $1 AND user_id = $2`
	return scanSession(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) ListSessions(ctx context.Context, userID int64, activeOnly bool) ([]models.ChatSession, error) {

	query := `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE user_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var sessions []models.ChatSession
	for rows.Next() {
		var s models.ChatSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Subject,
			&s.IsActive, &s.MessageCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

func (r *PostgresRepository) UpdateSession(ctx context.Context, session *models.ChatSession) (*models.ChatSession, error) {

	query :=
		`UPDATE chat_sessions
		 SET title = $3, subject = $4, is_active = $5, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + sessionColumns

	row := r.db.QueryRowContext(ctx, query,
		session.ID, session.UserID, session.Title, session.Subject, session.IsActive)

	return scanSession(row)
}

// DeleteSession deactivates the session rather than removing the row, so
// the transcript survives and the session still shows up in "all" listings.
func (r *PostgresRepository) DeleteSession(ctx context.Context, id, userID int64) error {
	query := `UPDATE chat_sessions SET is_active = false, updated_at = now() WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {

	query :=
		`INSERT INTO chat_messages (session_id, role, content, tokens_used, model_used, response_time)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		msg.SessionID, msg.Role, msg.Content, msg.TokensUsed, msg.ModelUsed, msg.ResponseTime).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}

func (r *PostgresRepository) ListMessages(ctx context.Context, sessionID int64) ([]models.ChatMessage, error) {
	query := `SELECT ` + messageColumns + ` FROM chat_messages WHERE session_id = $1 ORDER BY id`
	return r.queryMessages(ctx, query, sessionID)
}

// RecentMessages returns the last limit messages in chronological order.
func (r *PostgresRepository) RecentMessages(ctx context.Context, sessionID int64, limit int) ([]models.ChatMessage, error) {
	query :=
		`SELECT ` + messageColumns + ` FROM (
		   SELECT ` + messageColumns + ` FROM chat_messages
		   WHERE session_id = $1 ORDER BY id DESC LIMIT $2
		 ) recent ORDER BY id`
	return r.queryMessages(ctx, query, sessionID, limit)
}

func (r *PostgresRepository) IncrementMessageCount(ctx context.Context, sessionID int64, delta int64) error {
	query := `UPDATE chat_sessions SET message_count = message_count + $2, updated_at = now() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, sessionID, delta); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) queryMessages(ctx context.Context, query string, args ...any) ([]models.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content,
			&m.TokensUsed, &m.ModelUsed, &m.ResponseTime, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
