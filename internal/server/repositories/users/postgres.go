package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/studybuddy-app/studybuddy/internal/common"
	"github.com/studybuddy-app/studybuddy/internal/dbx"
	"github.com/studybuddy-app/studybuddy/internal/server/models"
)

// uniqueViolation is the postgres error code for unique constraint failures.
const uniqueViolation = "23505"

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: email or username already registered", common.ErrValidation)
	}
	return err
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, username, full_name, hashed_password, role, is_active, created_at, last_login`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.FullName,
		&user.HashedPassword, &user.Role, &user.IsActive, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, username, full_name, hashed_password, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query,
		user.Email, user.Username, user.FullName, user.HashedPassword, user.Role)

	created, err := scanUser(row)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, identifier))
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`UPDATE users
		 SET email = $2, username = $3, full_name = $4, hashed_password = $5
		 WHERE id = $1
		 RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.Username, user.FullName, user.HashedPassword)

	updated, err := scanUser(row)
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return updated, nil
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	query := `UPDATE users SET last_login = now() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
