// Package server is the composition root: it wires the store, the session
// manager, the router, and the HTTP handlers, and owns startup and
// graceful shutdown.
//
// DEPENDENCY CHAIN:
//
//	store.SQLite → session.Manager → router.Router → handlers → chi routes
//
// Each layer only receives what it needs: the manager gets the store
// interface, the router gets the manager's guard surface, handlers get
// both but never touch the store.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/thakurAarusH/skillforge/internal/auth"
	"github.com/thakurAarusH/skillforge/internal/handler"
	"github.com/thakurAarusH/skillforge/internal/middleware"
	"github.com/thakurAarusH/skillforge/internal/router"
	"github.com/thakurAarusH/skillforge/internal/session"
	"github.com/thakurAarusH/skillforge/internal/store"
)

// Config holds server configuration.
type Config struct {
	Addr       string        // listen address, e.g. ":8080"
	DBPath     string        // path to the SQLite database file
	LoginDelay time.Duration // simulated login round-trip; 0 means the default
}

// Server owns the HTTP mux and the resources behind it. The store is
// closed during graceful shutdown to flush the WAL and release the file
// lock.
type Server struct {
	mux    *chi.Mux
	config Config
	logger *slog.Logger
	db     *store.SQLite
}

// New assembles the full dependency chain and registers routes. Hydration
// happens here, inside session.NewManager, so the router's initial page
// already reflects any restored session.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	tokens, err := auth.NewTokenService(auth.MockSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	sessions := session.NewManager(context.Background(), session.Config{
		Store:      db,
		Tokens:     tokens,
		Logger:     logger,
		LoginDelay: cfg.LoginDelay,
	})
	views := router.New(sessions)

	s := &Server{
		mux:    chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(sessions, views)
	return s, nil
}

// setupRoutes configures middleware and the API surface.
//
//	GET    /api/state                → full snapshot (user, page, catalog, enrollments, stats)
//	POST   /api/role                 → select role, move to login
//	POST   /api/login                → begin login, respond at delay resolution
//	POST   /api/back                 → login → role selection
//	POST   /api/logout               → clear session, role selection
//	POST   /api/navigate             → move to a named page
//	PATCH  /api/profile              → merge whitelisted profile fields
//	GET    /api/courses              → catalog with ?search= and ?category=
//	POST   /api/courses              → author a course
//	POST   /api/courses/{id}/enroll  → enroll (idempotent)
func (s *Server) setupRoutes(sessions *session.Manager, views *router.Router) {
	s.mux.Use(chimiddleware.RequestID)
	s.mux.Use(chimiddleware.RealIP)
	s.mux.Use(chimiddleware.Recoverer)
	s.mux.Use(middleware.Logger(s.logger))

	sessionHandler := handler.NewSessionHandler(sessions, views, s.logger)
	catalogHandler := handler.NewCatalogHandler(sessions, views, s.logger)

	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/state", sessionHandler.HandleState)
		r.Post("/role", sessionHandler.HandleSelectRole)
		r.Post("/login", sessionHandler.HandleLogin)
		r.Post("/back", sessionHandler.HandleBack)
		r.Post("/logout", sessionHandler.HandleLogout)
		r.Post("/navigate", sessionHandler.HandleNavigate)
		r.Patch("/profile", sessionHandler.HandleUpdateProfile)

		r.Get("/courses", catalogHandler.HandleList)
		r.Post("/courses", catalogHandler.HandleCreate)
		r.Post("/courses/{id}/enroll", catalogHandler.HandleEnroll)
	})
}

// Start runs the HTTP server and blocks until a shutdown signal or a
// server error. In-flight requests get 30 seconds to finish, then the
// store is closed.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.String("addr", s.config.Addr),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
