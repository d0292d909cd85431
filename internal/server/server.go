// Package server sets up the HTTP server, router, and all route
// definitions.
//
// This is the composition root below main: New wires the whole dependency
// chain (DB → repositories → services → handlers → routes) in one place, so
// nothing else in the codebase constructs its own dependencies.
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

	"github.com/sakif/songvault/internal/auth"
	"github.com/sakif/songvault/internal/config"
	"github.com/sakif/songvault/internal/handler"
	"github.com/sakif/songvault/internal/middleware"
	sqliteRepo "github.com/sakif/songvault/internal/repository/sqlite"
	"github.com/sakif/songvault/internal/service"
)

// Server holds the router and the resources it owns. The DB connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server from the given config, assembling the full
// dependency chain.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
//	GET    /api/users                 → probe route (public)
//	POST   /api/users                 → register (public)
//	GET    /api/auth                  → current user (private)
//	POST   /api/auth                  → login (public)
//	GET    /api/songs                 → all songs with owner names (public)
//	GET    /api/songs/user/{user_id}  → songs of any user (public)
//	GET    /api/songs/me              → my songs (private)
//	POST   /api/songs                 → create song (private)
//	DELETE /api/songs/{song_id}       → delete own song (private)
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.Auth.JWTSecret, s.config.TokenTTL())
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	songService := service.NewSongService(s.db, s.logger)

	userHandler := handler.NewUserHandler(authService, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	songHandler := handler.NewSongHandler(songService, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/users", userHandler.HandleIndex)
		r.Post("/users", userHandler.HandleRegister)

		r.Post("/auth", authHandler.HandleLogin)
		r.With(requireAuth).Get("/auth", authHandler.HandleMe)

		r.Route("/songs", func(r chi.Router) {
			r.Get("/", songHandler.HandleListAll)
			r.Get("/user/{user_id}", songHandler.HandleListByUser)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", songHandler.HandleMine)
				r.Post("/", songHandler.HandleCreate)
				r.Delete("/{song_id}", songHandler.HandleDelete)
			})
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("database", s.config.Database.Path),
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
