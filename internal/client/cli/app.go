package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/studybuddy-app/studybuddy/internal/client/api"
	"github.com/studybuddy-app/studybuddy/internal/client/config"
	"github.com/studybuddy-app/studybuddy/internal/client/identity"
	"github.com/studybuddy-app/studybuddy/internal/client/models"
	"github.com/studybuddy-app/studybuddy/internal/client/profile"
	identityrepo "github.com/studybuddy-app/studybuddy/internal/client/repositories/identity"
	"github.com/studybuddy-app/studybuddy/internal/client/services"
	"github.com/studybuddy-app/studybuddy/internal/logging"
)

const localDBName = "studybuddy.db"

// App wires the CLI together: config, identity cache, remote client and the
// application services. It keeps its view of the signed-in user current by
// subscribing to the identity cache.
type App struct {
	config   *config.Config
	log      logging.Logger
	client   api.Client
	cache    *identity.Cache
	auth     *services.AuthService
	sessions *services.SessionService
	updater  *profile.Updater
	reader   *bufio.Reader

	user *models.Profile
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	log := logging.NewSlogLogger(slog.New(handler))

	db, err := identityrepo.OpenDatabase(ctx, filepath.Join(cfg.DataDir, localDBName))
	if err != nil {
		return nil, fmt.Errorf("init local storage: %w", err)
	}

	cache := identity.NewCache(identityrepo.NewSQLiteRepository(db))
	client := api.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout, cache.Credential)

	a := &App{
		config:   cfg,
		log:      log,
		client:   client,
		cache:    cache,
		auth:     services.NewAuthService(client, cache, log),
		sessions: services.NewSessionService(client),
		updater:  profile.NewUpdater(client, cache),
		reader:   bufio.NewReader(os.Stdin),
	}

	cache.Subscribe(func(r *identity.Record) {
		if r == nil {
			a.user = nil
			return
		}
		p := r.Profile
		a.user = &p
	})

	return a, nil
}

// Run hydrates the identity cache once and enters the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	record, err := a.cache.Hydrate(ctx)
	if err != nil {
		a.log.Error(ctx, "identity hydration failed", "error", err)
	}
	if record != nil {
		p := record.Profile
		a.user = &p
		fmt.Printf("Welcome back, %s!\n", p.Username)
	} else {
		fmt.Println("Welcome to StudyBuddy (type 'help' for commands)")
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) status() string {
	if a.user == nil {
		return "(signed out)"
	}
	return fmt.Sprintf("(%s)", a.user.Username)
}
