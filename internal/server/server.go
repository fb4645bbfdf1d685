// Package server provides the HTTP API behind the job-search dashboard.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mehdishayek-png/ai-job-bot/internal/db"
	"github.com/mehdishayek-png/ai-job-bot/internal/types"
)

// MatchStore is the persistence surface the dashboard needs.
type MatchStore interface {
	ListMatches(ctx context.Context, limit int) ([]db.MatchRecord, error)
	SetPinned(ctx context.Context, dedupeKey string, pinned bool) (bool, error)
}

// QuotaSource reports remaining provider quota.
type QuotaSource interface {
	Status() map[string]types.QuotaStatus
}

// SearchRunner triggers a full search pipeline run.
type SearchRunner interface {
	Run(ctx context.Context) (jobsFound, matchesSaved int, err error)
}

// Config holds server configuration.
type Config struct {
	Port         int
	PasswordHash string
	JWTSecret    string
}

// Server is the dashboard HTTP server.
type Server struct {
	httpServer *http.Server
	store      MatchStore
	quota      QuotaSource
	runner     SearchRunner
	jwtService *JWTService
	auth       *AuthHandler
}

// New creates a dashboard server. The store, quota source and runner are
// injected so tests can run without Postgres or live providers.
func New(cfg Config, store MatchStore, quota QuotaSource, runner SearchRunner) (*Server, error) {
	jwtService, err := NewJWTService(cfg.JWTSecret, DefaultTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jwt service: %w", err)
	}

	s := &Server{
		store:      store,
		quota:      quota,
		runner:     runner,
		jwtService: jwtService,
		auth:       NewAuthHandler(cfg.PasswordHash, jwtService),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", s.auth.Login)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /matches", s.withAuth(http.HandlerFunc(s.handleListMatches)))
	mux.Handle("POST /matches/{key}/pin", s.withAuth(http.HandlerFunc(s.handlePin)))
	mux.Handle("POST /matches/{key}/unpin", s.withAuth(http.HandlerFunc(s.handleUnpin)))
	mux.Handle("GET /quota", s.withAuth(http.HandlerFunc(s.handleQuota)))
	mux.Handle("POST /search", s.withAuth(http.HandlerFunc(s.handleSearch)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // search runs are slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until interrupted, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[server] error: %v", err)
		}
	}()

	<-stop
	log.Println("[server] shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("[server] stopped")
	return nil
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[server] %s %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if err := s.jwtService.ValidateToken(token); err != nil {
			errorResponse(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
