package twin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kiroskirin/firefox-ios/internal/observability"
)

// Server wraps the twin's HTTP server.
type Server struct {
	httpServer *http.Server
	log        *slog.Logger
}

// NewServer builds the router and the HTTP server around it.
func NewServer(cfg Config, handler *Handler, obs *observability.Module, metrics *observability.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(observability.HTTPMetrics(metrics))
	r.Use(PerKeyRateLimit(cfg.RateLimit, metrics))

	handler.Routes(r)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", obs.MetricsHandler())

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: logger.With("component", "twin"),
	}
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info("twin listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("twin shutting down")
	return s.httpServer.Shutdown(ctx)
}
