// Package server initializes and runs the StudyBuddy API server.
// It opens the database, applies migrations, wires the services and handles
// graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/studybuddy-app/studybuddy/internal/logging"
	"github.com/studybuddy-app/studybuddy/internal/server/api"
	"github.com/studybuddy-app/studybuddy/internal/server/assistant"
	"github.com/studybuddy-app/studybuddy/internal/server/config"
	"github.com/studybuddy-app/studybuddy/internal/server/migrations"
	"github.com/studybuddy-app/studybuddy/internal/server/repositories/chats"
	"github.com/studybuddy-app/studybuddy/internal/server/repositories/users"
	"github.com/studybuddy-app/studybuddy/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	userService := services.NewUserService(users.NewPostgresRepository(db), cfg)

	var tutor assistant.Assistant
	if cfg.OpenAIAPIKey != "" {
		tutor = assistant.NewOpenAIAssistant(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIMaxTokens, 0.7)
	} else {
		logger.Warn(ctx, "OPENAI_API_KEY not set, answering with the mock assistant")
		tutor = assistant.MockAssistant{}
	}

	chatService := services.NewChatService(chats.NewPostgresRepository(db), tutor, cfg, logger)

	handler := api.NewRouter(api.NewHandler(userService, chatService, []byte(cfg.SecretKey), logger))

	return &App{config: cfg, logger: logger, db: db, handler: handler}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	defer app.db.Close()

	server := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
