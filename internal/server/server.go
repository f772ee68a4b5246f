// Package server provides the HTTP API of the resume editor.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/dialog"
	"github.com/jonathan/resume-editor/internal/server/middleware"
	"github.com/jonathan/resume-editor/internal/server/ratelimit"
	"github.com/jonathan/resume-editor/internal/sink"
	"github.com/jonathan/resume-editor/internal/store"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies. Documents with embedded pictures can
// be large.
const maxBodyBytes = 8 << 20

// ResumeRepository loads and locks stored resumes.
type ResumeRepository interface {
	GetResume(ctx context.Context, id string) (*db.Resume, error)
	SetLocked(ctx context.Context, id string, locked bool) error
}

// ChangeQueue accepts committed documents for asynchronous delivery.
type ChangeQueue interface {
	Enqueue(ev sink.Event) error
}

// Config holds server configuration
type Config struct {
	Addr         string
	CORSOrigin   string
	HistoryLimit int
	Logger       zerolog.Logger

	// Resumes enables opening sessions by resume_id. Optional.
	Resumes ResumeRepository
	// Changes receives every committed document. Optional.
	Changes ChangeQueue
	// JWT enables bearer authentication. Without it sessions are anonymous.
	JWT *JWTService
	// RateLimit defaults to ratelimit.LoadConfig().
	RateLimit *ratelimit.Config
	// KeepAlive is the interval of event stream comments. Zero means 15 seconds.
	KeepAlive time.Duration
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         Config
	log         zerolog.Logger
	sessions    *sessionRegistry
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
}

// New creates a new server instance
func New(cfg Config) *Server {
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 15 * time.Second
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}

	s := &Server{
		cfg:         cfg,
		log:         cfg.Logger.With().Str("component", "http").Logger(),
		sessions:    newSessionRegistry(),
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}

	var tokens middleware.TokenValidator
	if cfg.JWT != nil {
		tokens = cfg.JWT.AsTokenValidator()
	}
	auth := middleware.AuthMiddleware(tokens)
	protect := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /templates", s.handleTemplates)

	// Sessions
	mux.Handle("GET /sessions", protect(s.handleListSessions))
	mux.Handle("POST /sessions", protect(s.handleCreateSession))
	mux.Handle("GET /sessions/{id}", protect(s.handleGetSession))
	mux.Handle("DELETE /sessions/{id}", protect(s.handleCloseSession))
	mux.Handle("PUT /sessions/{id}/value", protect(s.handleSetValue))
	mux.Handle("PUT /sessions/{id}/lock", protect(s.handleSetLock))

	// Document edits
	mux.Handle("PATCH /sessions/{id}/data", protect(s.handlePatchData))
	mux.Handle("POST /sessions/{id}/undo", protect(s.handleUndo))
	mux.Handle("POST /sessions/{id}/redo", protect(s.handleRedo))
	mux.Handle("POST /sessions/{id}/sections/{kind}/items/{item_id}/move", protect(s.handleMoveItem))
	mux.Handle("DELETE /sessions/{id}/sections/{kind}/items/{item_id}", protect(s.handleRemoveItem))

	// Dialogs
	mux.Handle("GET /sessions/{id}/dialog", protect(s.handleGetDialog))
	mux.Handle("POST /sessions/{id}/dialog", protect(s.handleRequestDialog))
	mux.Handle("DELETE /sessions/{id}/dialog", protect(s.handleDismissDialog))
	mux.Handle("POST /sessions/{id}/dialog/submit", protect(s.handleSubmitDialog))

	// Notifications and events
	mux.Handle("GET /sessions/{id}/notifications", protect(s.handleListNotifications))
	mux.Handle("DELETE /sessions/{id}/notifications/{notice_id}", protect(s.handleDismissNotification))
	mux.Handle("GET /sessions/{id}/events", protect(s.handleEvents))

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
		// No WriteTimeout: event streams stay open.
	}

	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully and closes
// every open session.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("Server starting")
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Event streams only end once their sessions close.
	s.sessions.closeAll()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.Close()
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.log.Info().Msg("Server stopped")
	return nil
}

// Close closes all sessions and stops background work.
func (s *Server) Close() {
	s.sessions.closeAll()
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.CORSOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
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
			s.rateLimitResponse(w, clientID, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps event streams working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		ev := s.log.Info()
		if rec.status >= http.StatusInternalServerError {
			ev = s.log.Error()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Request completed")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.len(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to its status and writes it.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.log.Error().Err(err).Msg("Request failed")
		s.errorResponse(w, status, "internal server error")
		return
	}

	body := map[string]any{"error": err.Error()}
	if status == http.StatusLocked {
		body["error"] = store.LockedMessage
	}
	var formErr *dialog.ValidationError
	if errors.As(err, &formErr) {
		body["error"] = "validation failed"
		body["fields"] = formErr.Errors
	}
	s.jsonResponse(w, status, body)
}

// decodeJSON decodes the request body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(dst); err != nil {
		return extractValidationErrors(err)
	}
	return nil
}

// extractClientID extracts the client identifier from the request.
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
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, clientID string, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		retry := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = retry
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retry))
	}

	s.log.Warn().Str("client", clientID).Int("limit", info.Limit).Msg("Rate limit exceeded")
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
