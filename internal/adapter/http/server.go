package http

import (
	"context"
	"net/http"
	"time"

	"github.com/bnema/galerie/internal/adapter/http/middleware"
	"github.com/bnema/galerie/internal/adapter/http/ratelimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	// AdminTokenHash is a bcrypt hash of the admin token and wins over
	// AdminToken when both are set.
	AdminTokenHash string
	AdminToken     string
	MaxUploadSize  int64
	SpoolDir       string
	TrustProxy     bool
}

type Server struct {
	mux        *http.ServeMux
	handler    http.Handler
	handlers   *Handlers
	sseHandler *SSEHandler
	limiter    *ratelimit.FailureLimiter
	verify     TokenVerifier
	health     HealthFunc
	cfg        Config
}

func NewServer(mediaSvc MediaService, events EventSubscriber, health HealthFunc, cfg Config) *Server {
	s := &Server{
		mux:        http.NewServeMux(),
		handlers:   NewHandlers(mediaSvc, cfg.SpoolDir, cfg.MaxUploadSize),
		sseHandler: NewSSEHandler(events, mediaSvc),
		limiter:    ratelimit.NewFailureLimiter(5, 15*time.Minute, 30*time.Minute),
		verify:     StaticToken(cfg.AdminToken),
		health:     health,
		cfg:        cfg,
	}
	if cfg.AdminTokenHash != "" {
		s.verify = BcryptToken(cfg.AdminTokenHash)
	}
	s.registerRoutes()

	s.handler = middleware.SecurityHeaders(
		middleware.RequestID(
			middleware.RequestLogger(
				middleware.Recovery(
					middleware.Metrics(s.mux)))))
	return s
}

func (s *Server) admin(next http.HandlerFunc) http.HandlerFunc {
	return AdminAuth(s.verify, s.limiter, s.cfg.TrustProxy, next)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /upload", s.handlers.Upload())
	s.mux.HandleFunc("GET /media/{id}", s.handlers.MediaInfo())
	s.mux.HandleFunc("GET /uploads/{key...}", s.handlers.Blob())
	s.mux.HandleFunc("GET /events/{id}", s.sseHandler.Events())

	s.mux.HandleFunc("GET /admin/jobs", s.admin(s.handlers.ListJobs()))
	s.mux.HandleFunc("POST /admin/jobs/{id}/retry", s.admin(s.handlers.RetryJob()))

	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", Health(s.health))
}

// Run prunes the admin limiter until ctx is done.
func (s *Server) Run(ctx context.Context) {
	s.limiter.Run(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
