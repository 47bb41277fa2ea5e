package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	server "github.com/studybuddy-app/studybuddy/internal/server"
	"github.com/studybuddy-app/studybuddy/internal/server/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
