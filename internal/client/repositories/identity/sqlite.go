package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/studybuddy-app/studybuddy/internal/dbx"
)

const (
	keyCredential = "credential"
	keyProfile    = "profile"
)

// SQLiteRepository keeps the identity pair in the local identity table as
// two keyed rows. Both writers run inside one transaction via dbx.WithTx.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) get(ctx context.Context, q dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM identity WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, q dbx.DBTX, key string, value []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO identity (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set identity[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context) (string, []byte, error) {
	credential, err := r.get(ctx, r.db, keyCredential)
	if err != nil {
		return "", nil, err
	}
	profile, err := r.get(ctx, r.db, keyProfile)
	if err != nil {
		return "", nil, err
	}
	// A partial pair counts as absent; Save/Clear never produce one, but a
	// torn database should not yield a credential without an owner.
	if len(credential) == 0 || len(profile) == 0 {
		return "", nil, nil
	}
	return string(credential), profile, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, credential string, profile []byte) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyCredential, []byte(credential)); err != nil {
			return err
		}
		return set(ctx, tx, keyProfile, profile)
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM identity WHERE key IN (?, ?)`, keyCredential, keyProfile)
	if err != nil {
		return fmt.Errorf("failed to clear identity: %w", err)
	}
	return nil
}

var _ Repository = (*SQLiteRepository)(nil)
