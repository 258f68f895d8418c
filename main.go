package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/va6996/ainews/bootstrap"
	"github.com/va6996/ainews/config"
	"github.com/va6996/ainews/log"
	"github.com/va6996/ainews/server"
)

func main() {
	// Initialize logging
	log.Init()

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 0. Load Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(context.Background(), "Failed to load config: %v", err)
	}
	if err := log.SetLevelName(cfg.Log.Level); err != nil {
		log.Warnf(context.Background(), "Ignoring log level %q: %v", cfg.Log.Level, err)
	}

	// 1-3. Init App Components using Bootstrap
	app, err := bootstrap.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf(context.Background(), "Setup failed: %v", err)
	}
	defer app.Close()

	// 4. Start API Server
	srv := server.New(app.Agent, app.Registry, nil)
	if err := srv.ListenAndServe(ctx, ":"+cfg.Server.Port); err != nil {
		log.Fatalf(context.Background(), "Server failed: %v", err)
	}
}
