// Package server exposes the engine over HTTP for sidecar and gateway
// deployments. The server is a thin collaborator: it parses field maps,
// calls the engine, and serializes the result. No classification logic
// lives here.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/dativo-io/shroud/internal/engine"
	"github.com/dativo-io/shroud/internal/otel"
)

const defaultTimeout = 15 * time.Second

// Server holds the HTTP API dependencies.
type Server struct {
	router  *chi.Mux
	engine  *engine.Engine
	limiter *rate.Limiter
	version string
}

// Option configures the Server.
type Option func(*Server)

// WithRateLimit installs a global token-bucket limiter (requests per second
// plus burst). Zero rps disables limiting.
func WithRateLimit(rps, burst int) Option {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithVersion sets the version string reported by /healthz.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New builds a Server around an engine.
func New(eng *engine.Engine, opts ...Option) *Server {
	s := &Server{engine: eng, version: "dev"}
	for _, o := range opts {
		o(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultTimeout))
	r.Use(otel.Middleware())
	r.Use(s.rateLimit)
	r.Use(accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/process", s.handleProcess)
		r.Post("/classify", s.handleClassify)
	})

	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks serving HTTP on addr.
func (s *Server) ListenAndServe(addr string) error {
	log.Info().Str("addr", addr).Msg("http_server_listening")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// rateLimit rejects requests above the configured global rate with 429.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog emits one structured line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Func(otel.LogTraceFields(r.Context())).
			Msg("http_request")
	})
}
