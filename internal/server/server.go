package server

import (
	"context"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MKhiriev/go-hook-gate/internal/config"
	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/registry"
	"github.com/MKhiriev/go-hook-gate/internal/workers"
)

type server struct {
	httpServer *httpServer
	modules    *registry.Loaded
	workers    *workers.Workers
	logger     *logger.Logger

	shutdownOnce sync.Once
}

// NewServer assembles the gateway server around an already-built router.
// Module start hooks and background workers are optional; pass nil to run
// the HTTP transport alone.
func NewServer(router http.Handler, cfg config.Server, modules *registry.Loaded, workers *workers.Workers, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if router == nil {
		return nil, errNoRouter
	}

	return &server{
		httpServer: newHTTPServer(router, cfg.Address(), logger),
		modules:    modules,
		workers:    workers,
		logger:     logger,
	}, nil
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		s.logger.Error().Err(err).Msg("error running server")
	}
}

func (s *server) Shutdown() {
	s.shutdownOnce.Do(func() {
		// stop accepting new deliveries first, then let modules and
		// workers drain what is already in flight
		s.httpServer.Shutdown()

		if s.modules != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			s.modules.StopAll(ctx)
		}

		if s.workers != nil {
			s.workers.Wait()
		}
	})
}

func (s *server) run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if s.modules != nil {
		if err := s.modules.StartAll(ctx); err != nil {
			return err
		}
	}

	if s.workers != nil {
		s.workers.Run(ctx)
	}

	s.logger.Info().Str("address", s.httpServer.server.Addr).Msg("launching HTTP server")
	go s.httpServer.RunServer()

	// block until a stop signal arrives
	<-ctx.Done()
	stop()

	s.Shutdown()
	s.logger.Info().Msg("server shut down gracefully")

	return nil
}
