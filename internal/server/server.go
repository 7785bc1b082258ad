// Package server exposes intake conversations over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jonathan/hiring-assistant/internal/privacy"
	"github.com/jonathan/hiring-assistant/internal/server/middleware"
	"github.com/jonathan/hiring-assistant/internal/server/ratelimit"
	"github.com/jonathan/hiring-assistant/internal/session"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	router      chi.Router
	sessions    *session.Manager
	tokens      *TokenService
	rateLimiter *ratelimit.Limiter
	metrics     http.Handler
	notice      privacy.NoticeOptions
	origins     []string
	logger      *slog.Logger
}

// Config holds server configuration
type Config struct {
	Port     string
	Sessions *session.Manager
	Tokens   *TokenService
	// RateLimit defaults to ratelimit.LoadConfig(nil) when nil
	RateLimit *ratelimit.Config
	// Metrics serves /metrics when set
	Metrics http.Handler
	Notice  privacy.NoticeOptions
	// AllowedOrigins applies to CORS and WebSocket upgrades; empty allows any
	AllowedOrigins []string
	Logger         *slog.Logger
}

// New creates a new server instance
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig(nil)
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		sessions:    cfg.Sessions,
		tokens:      cfg.Tokens,
		rateLimiter: ratelimit.NewLimiter(rl),
		metrics:     cfg.Metrics,
		notice:      cfg.Notice,
		origins:     origins,
		logger:      logger,
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(s.withLogging)
	r.Use(s.withCORS)
	r.Use(s.withRateLimit)

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/privacy", s.handlePrivacy)
		r.Post("/sessions", s.handleCreateSession)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(s.tokens.AsTokenValidator()))
			r.Use(s.requireSessionOwner)

			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/messages", s.handleMessage)
			r.Get("/transcript", s.handleTranscript)
			r.Get("/ws", s.handleWebSocket)
		})
	})
	s.router = r

	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      0, // WebSocket connections are long lived
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the routed handler with all middleware applied
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled and then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.Close()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.logger.Info("server stopped")
	return nil
}

// Close stops the rate limiter cleanup goroutine
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case slices.Contains(s.origins, "*"):
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging. Paths carry session ids, which are
// opaque and not PII.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chiMiddleware.GetReqID(r.Context()),
		)
	})
}

// requireSessionOwner rejects tokens issued for a different session than {id}
func (s *Server) requireSessionOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claimed, err := middleware.GetSessionID(r)
		if err != nil {
			s.writeError(w, &ErrUnauthorized{})
			return
		}
		if id := chi.URLParam(r, "id"); id != claimed {
			s.writeError(w, &ErrForbidden{SessionID: id})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status. Internal errors are logged, not echoed.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		s.errorResponse(w, status, "internal error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// retryAfterSeconds rounds the wait up to whole seconds; zero means no hint.
func retryAfterSeconds(info ratelimit.Info) int {
	if info.RetryAfter <= 0 {
		return 0
	}
	return int(info.RetryAfter.Seconds()) + 1
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if seconds := retryAfterSeconds(info); seconds > 0 {
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded", "limit", info.Limit, "reset", info.ResetTime.Format(time.RFC3339))
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
