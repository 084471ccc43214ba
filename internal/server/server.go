package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"klaew-klad/internal/config"
	"klaew-klad/internal/database"
	"klaew-klad/internal/flood"
	"klaew-klad/internal/handlers"
	"klaew-klad/internal/routing"
	"klaew-klad/internal/sqlite"
)

// Server wraps the HTTP server and all dependencies
type Server struct {
	httpServer *http.Server
	handler    *handlers.Handler
	db         database.DataStore
	sweeper    *AlertSweeper
	listener   net.Listener
	addr       string
}

// New opens the store at cfg.Database.Path and wires the server (does not start it)
func New(cfg *config.Config) (*Server, error) {
	log.Printf("Initializing data store...")
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize data store: %w", err)
	}

	if cfg.Database.Seed {
		if err := store.Seed(context.Background(), time.Now().UTC()); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to seed data store: %w", err)
		}
	}

	srv, err := NewWithStore(cfg, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return srv, nil
}

// NewWithStore wires the server around an already opened store
func NewWithStore(cfg *config.Config, db database.DataStore) (*Server, error) {
	planner := routing.NewService(routing.ServiceConfig{
		Seed:          cfg.Routing.Seed,
		WaypointCount: cfg.Routing.Waypoints,
	})
	floodSvc := flood.NewService(db, cfg.Routing.Seed)

	handler := handlers.New(db, planner, floodSvc, handlers.Options{
		HazardAware:   cfg.Routing.HazardAware,
		HazardRadiusM: cfg.Routing.HazardRadiusM,
	})

	sweeper, err := NewAlertSweeper(db.Alerts(), cfg.Alerts.SweepSchedule)
	if err != nil {
		return nil, err
	}

	mux := setupRoutes(handler)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      loggingMiddleware(corsMiddleware(cfg.Server.CorsOrigins, mux)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
		db:         db,
		sweeper:    sweeper,
		addr:       cfg.Server.Addr,
	}, nil
}

// Handler returns the root HTTP handler including middleware
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server and the alert sweeper and returns the actual
// address (useful for random port)
func (s *Server) Start() (string, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = listener
	actualAddr := listener.Addr().String()
	log.Printf("Starting server on %s", actualAddr)

	s.sweeper.Start()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server error: %v", err)
		}
	}()

	return actualAddr, nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.sweeper.Stop(ctx)
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	return s.db.Close()
}

// setupRoutes configures all HTTP routes
func setupRoutes(handler *handlers.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", handler.HandleRoot)
	mux.HandleFunc("GET /health", handler.HandleHealthCheck)

	mux.HandleFunc("POST /api/evacuation/routes", handler.HandleComputeRoutes)
	mux.HandleFunc("GET /api/evacuation/shelters", handler.HandleListShelters)
	mux.HandleFunc("GET /api/evacuation/shelters.kml", handler.HandleSheltersKML)
	mux.HandleFunc("GET /api/evacuation/shelters/{id}", handler.HandleGetShelter)
	mux.HandleFunc("PUT /api/evacuation/shelters/{id}/occupancy", handler.HandleUpdateOccupancy)

	mux.HandleFunc("GET /api/flood/current-status", handler.HandleCurrentStatus)
	mux.HandleFunc("GET /api/flood/forecast", handler.HandleForecast)
	mux.HandleFunc("PUT /api/flood/areas/{id}", handler.HandleUpdateFloodArea)
	mux.HandleFunc("PUT /api/flood/situation", handler.HandleUpdateSituation)

	mux.HandleFunc("GET /api/alerts", handler.HandleListAlerts)
	mux.HandleFunc("POST /api/alerts", handler.HandleCreateAlert)
	mux.HandleFunc("DELETE /api/alerts/{id}", handler.HandleDeleteAlert)

	return mux
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		duration := time.Since(start)
		log.Printf("[HTTP] %s %s %d %v", r.Method, r.URL.Path, lrw.statusCode, duration)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware allows the configured origins; "*" allows any origin but
// without credentials. The Wails webview and localhost are always allowed.
func corsMiddleware(allowed []string, next http.Handler) http.Handler {
	anyOrigin := slices.Contains(allowed, "*")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		trusted := origin != "" && (slices.Contains(allowed, origin) || isLocalOrigin(origin))

		if trusted || (origin != "" && anyOrigin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if trusted {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isLocalOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost:") ||
		strings.HasPrefix(origin, "http://127.0.0.1:") ||
		strings.HasPrefix(origin, "wails://") ||
		origin == "http://wails.localhost"
}
