// Package server serves the public careers site and the admin panel over the
// jobs backend.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Smithk0/job-fr/internal/admin"
	"github.com/Smithk0/job-fr/internal/backend"
	"github.com/Smithk0/job-fr/internal/server/middleware"
	"github.com/Smithk0/job-fr/internal/server/ratelimit"
	"github.com/Smithk0/job-fr/internal/session"
	"github.com/Smithk0/job-fr/internal/types"
)

// API is the part of the backend client the server uses.
type API interface {
	admin.JobService
	admin.Creator
	session.Verifier
	GetJob(ctx context.Context, id string) (*types.Job, error)
	SubmitApplication(ctx context.Context, jobID string, app types.Application) (*backend.Ack, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	api         API
	cache       *JobCache
	pages       *renderer
	rateLimiter *ratelimit.Limiter
	logoURL     string
}

// Config holds server configuration
type Config struct {
	Port int
	API  API

	// SessionSecret signs and seals the admin session cookie.
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	// Revalidate is how long the public job list is cached.
	Revalidate     time.Duration
	CompanyLogoURL string

	// RateLimit defaults to ratelimit.LoadConfig when nil.
	RateLimit *ratelimit.Config
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.API == nil {
		return nil, errors.New("server: backend API is required")
	}

	codec, err := session.NewTokenCodec(cfg.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create session codec: %w", err)
	}

	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig()
	}

	s := &Server{
		api:         cfg.API,
		cache:       NewJobCache(cfg.API.ListJobs, cfg.Revalidate),
		pages:       pages,
		rateLimiter: ratelimit.NewLimiter(rl),
		logoURL:     cfg.CompanyLogoURL,
	}

	withSession := middleware.Session(codec, middleware.SessionOptions{
		TTL:    cfg.SessionTTL,
		Cookie: session.CookieOptions{Secure: cfg.CookieSecure},
	})
	adminRoute := func(h http.HandlerFunc) http.Handler { return withSession(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Public site
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /jobs/{id}", s.handleJob)
	mux.HandleFunc("GET /apply/{id}", s.handleApplyForm)
	mux.HandleFunc("POST /apply/{id}", s.handleApply)

	// Admin panel
	mux.Handle("GET /admin", adminRoute(s.handleAdmin))
	mux.Handle("POST /admin/access", adminRoute(s.handleAccess))
	mux.Handle("POST /admin/logout", adminRoute(s.handleLogout))
	mux.Handle("POST /admin/jobs/{id}", adminRoute(s.handleUpdateJob))
	mux.Handle("POST /admin/jobs/{id}/delete", adminRoute(s.handleDeleteJob))
	mux.Handle("GET /admin/post", adminRoute(s.handlePostForm))
	mux.Handle("POST /admin/post", adminRoute(s.handlePostJob))

	mux.HandleFunc("/", s.handleNotFound)

	recoverer := middleware.Recover(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, http.StatusInternalServerError, "Something went wrong", "An unexpected error occurred.")
	})

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      middleware.RequestID(s.withRateLimit(s.withLogging(recoverer(mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Cache returns the public job list cache.
func (s *Server) Cache() *JobCache {
	return s.cache
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close stops background work. It does not stop a running listener.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusNotFound, "Page not found", "The page you are looking for does not exist.")
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// extractClientID returns the client IP from RemoteAddr.
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

// rateLimitResponse writes a 429 page, or JSON for the health endpoint.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded for %s %s: Limit=%d Reset=%s",
		r.Method, r.URL.Path, info.Limit, info.ResetTime.Format(time.RFC3339))

	if r.URL.Path == "/health" {
		s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
			"error":    "rate_limit_exceeded",
			"reset_at": info.ResetTime.Format(time.RFC3339),
		})
		return
	}
	s.renderError(w, r, http.StatusTooManyRequests, "Too many requests",
		"Rate limit exceeded. Please try again later.")
}

// errorView feeds error.html.
type errorView struct {
	page
	Heading string
	Message string
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, heading, message string) {
	s.pages.render(w, status, "error", errorView{
		page:    s.page(r, heading+" | Elite Residences"),
		Heading: heading,
		Message: message,
	})
}

// renderErr renders err as an error page with the status HTTPStatus picks.
func (s *Server) renderErr(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	switch status {
	case http.StatusNotFound:
		s.renderError(w, r, status, "Job not found", "The job you are looking for does not exist or is no longer available.")
	case http.StatusInternalServerError:
		log.Printf("[server] %s %s failed: %v", r.Method, r.URL.Path, err)
		s.renderError(w, r, status, "Something went wrong", "An unexpected error occurred.")
	default:
		s.renderError(w, r, status, "Something went wrong", admin.Message(err, "An unexpected error occurred."))
	}
}

func (s *Server) page(r *http.Request, title string) page {
	return page{Title: title, RequestID: middleware.GetRequestID(r)}
}
