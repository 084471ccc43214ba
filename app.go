package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"klaew-klad/internal/config"
	"klaew-klad/internal/database"
	"klaew-klad/internal/server"
)

// App struct holds the Wails application state
type App struct {
	ctx    context.Context
	server *server.Server
	url    string
}

// NewApp loads configuration and starts the internal HTTP server on a random
// local port before the window opens
func NewApp() *App {
	app := &App{}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.Server.Addr = "127.0.0.1:0"

	if cfg.Database.Path == "" {
		cfg.Database.Path, err = database.GetDefaultDBPath()
		if err != nil {
			log.Fatalf("Failed to resolve database path: %v", err)
		}
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	addr, err := srv.Start()
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	app.server = srv
	app.url = fmt.Sprintf("http://%s", addr)
	log.Printf("Internal HTTP server running at %s", app.url)

	return app
}

// startup is called when the app starts
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// domReady points the dashboard at the internal server
func (a *App) domReady(ctx context.Context) {
	runtime.WindowExecJS(ctx, fmt.Sprintf(`window.klaewKlad.connect(%q)`, a.url))
}

// APIBaseURL returns the internal server address for the frontend
func (a *App) APIBaseURL() string {
	return a.url
}

// shutdown is called when the app closes
func (a *App) shutdown(ctx context.Context) {
	if a.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}
}
