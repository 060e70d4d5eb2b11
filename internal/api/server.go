package api

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/earnings-tracker/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type httpConfig interface {
	Addr() string
	RateLimit() float64
	RateBurst() int
	Timeout() time.Duration
	AllowedOrigins() []string
}

type Server struct {
	srv *http.Server
}

func NewServer(cfg httpConfig, deps Deps) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           NewRouter(cfg, deps),
			ReadHeaderTimeout: cfg.Timeout(),
			WriteTimeout:      cfg.Timeout(),
		},
	}
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server - start", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("http server - shutdown")
	return errors.Wrap(s.srv.Shutdown(shutdownCtx), "shutdown")
}
