// Package server exposes the compile pipeline over HTTP.
//
// The server wraps the same pipeline.Runner the CLI uses, so both entry
// points produce identical artifacts for the same input. Requests carry
// their own API token; each request gets a fresh client whose cache keys
// are scoped to that token, so tenants sharing one server never read each
// other's cached responses.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/framespec/pkg/cache"
	"github.com/matzehuels/framespec/pkg/figma"
	"github.com/matzehuels/framespec/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = ":8787"

	// DefaultTimeout bounds one compile request. Serial pacing against the
	// API makes large files slow, so this is generous.
	DefaultTimeout = 5 * time.Minute

	// maxRequestBytes bounds the compile request body.
	maxRequestBytes = 1 << 20
)

// Config holds the settings for a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8787".
	Addr string

	// Runner executes compiles. Nil creates one without caching.
	Runner *pipeline.Runner

	// Logger receives request and pipeline logs. Nil uses the default.
	Logger *log.Logger

	// Timeout bounds one request. Zero uses DefaultTimeout.
	Timeout time.Duration

	// NewAPI builds the per-request design-file client. Nil uses the
	// runner's cache with token-scoped keys; tests substitute stubs.
	NewAPI func(token string) pipeline.API
}

// Server serves the compile API.
type Server struct {
	cfg Config
}

// New creates a server with the given configuration, applying defaults for
// any zero field.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.NewAPI == nil {
		runner, logger := cfg.Runner, cfg.Logger
		cfg.NewAPI = func(token string) pipeline.API {
			return figma.NewClient(figma.ClientConfig{
				Token:  token,
				Cache:  runner.Cache,
				Keyer:  cache.NewScopedKeyer(runner.Keyer, tokenScope(token)+":"),
				Logger: logger,
			})
		}
	}
	return &Server{cfg: cfg}
}

// Handler returns the HTTP handler tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/compile", s.handleCompile)
		r.Get("/healthz", s.handleHealthz)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeErrorBody(w, http.StatusNotFound, "NOT_FOUND", "no such route: "+req.URL.Path, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeErrorBody(w, http.StatusMethodNotAllowed, "INVALID_INPUT", "method not allowed: "+req.Method, "")
	})
	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully with a 10 second drain.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.cfg.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// logRequests logs one line per request after it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.cfg.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

// tokenScope derives a short cache-key prefix from a token so one tenant's
// cached responses are invisible to another's. Only the hash prefix appears
// in keys, never the token itself.
func tokenScope(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:4])
}
