package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/heysubinoy/kvlookup/pkg/kv"
)

// HealthcheckPath is served regardless of the configured prefix.
const HealthcheckPath = "/healthcheck"

const healthyBody = "{ok: true}"

// Server wraps a kv.Reader and exposes it over HTTP.
// Only GET is served: /healthcheck probes the store, and any path under
// Prefix is looked up by the remainder of the path.
type Server struct {
	Reader kv.Reader
	Prefix string

	logger  hclog.Logger
	handler http.Handler
}

// NewServer creates a new HTTP server with the given reader and prefix.
func NewServer(reader kv.Reader, prefix string, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Server{
		Reader: reader,
		Prefix: prefix,
		logger: logger,
	}
	s.handler = withRequestLog(http.HandlerFunc(s.route), logger)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// route dispatches on the raw request path. The path is not cleaned,
// so keys containing "//" or "." segments reach the store unchanged.
func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := r.URL.EscapedPath()
	if path == HealthcheckPath {
		s.handleHealthcheck(w, r)
		return
	}
	key, ok := ResolveKey(path, s.Prefix)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.withError(func(w http.ResponseWriter, r *http.Request) error {
		return s.handleLookup(w, key)
	})(w, r)
}

// handleHealthcheck handles GET /healthcheck.
// An empty store is healthy; only a failing query yields 500.
func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if err := s.Reader.Probe(); err != nil {
		s.logger.Warn("healthcheck error", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, healthyBody)
}

// handleLookup writes the stored value as plain text, or 404 with an
// empty body. Store failures are returned to withError.
func (s *Server) handleLookup(w http.ResponseWriter, key string) error {
	value, found, err := s.Reader.Get(key)
	if err != nil {
		return fmt.Errorf("lookup %q: %w", key, err)
	}
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, value)
	return nil
}

// withError turns a handler error into a 500 response and logs its cause.
func (s *Server) withError(h func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.logger.Error("request failed", "method", r.Method, "path", r.URL.EscapedPath(), "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLog logs method, path, status and duration of every request.
func withRequestLog(next http.Handler, logger hclog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("request",
			"method", r.Method,
			"path", r.URL.EscapedPath(),
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
