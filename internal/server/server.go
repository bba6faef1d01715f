package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/heysubinoy/kvlookup/internal/api"
	"github.com/heysubinoy/kvlookup/internal/store"
	"github.com/heysubinoy/kvlookup/pkg/config"
)

// ServiceName is reported by the gRPC health service and prefixes metrics.
const ServiceName = "kvlookup"

// Server owns the store connection and every listener of the process.
type Server struct {
	cfg    *config.Config
	logger hclog.Logger

	accessor *store.Accessor

	httpServer *http.Server
	httpLis    net.Listener

	grpcServer *grpc.Server
	grpcLis    net.Listener

	adminServer *http.Server
	adminLis    net.Listener
}

// New opens the store and binds all configured listeners. Any failure here
// is a startup error: everything opened so far is released.
func New(ctx context.Context, cfg *config.Config, logger hclog.Logger) (*Server, error) {
	logger.Info("starting kvlookup", "driver", cfg.Driver, "prefix", cfg.Prefix, "bind", cfg.Bind)

	provider, err := store.Open(ctx, cfg.Driver, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		accessor: store.NewAccessor(provider),
	}

	inm, err := store.SetupMetrics(ServiceName)
	if err != nil {
		s.closeAll()
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}
	reader := store.NewInstrumentedReader(s.accessor)

	httpLogger := logger.Named("http")
	s.httpLis, err = net.Listen("tcp", cfg.Bind)
	if err != nil {
		s.closeAll()
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Bind, err)
	}
	s.httpServer = newHTTPServer(api.NewServer(reader, cfg.Prefix, httpLogger), httpLogger)

	if cfg.GRPCAddr != "" {
		s.grpcLis, err = net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			s.closeAll()
			return nil, fmt.Errorf("failed to listen on %s: %w", cfg.GRPCAddr, err)
		}
		s.grpcServer = api.NewGRPCServer(api.NewHealthServer(reader, ServiceName, logger.Named("grpc")))
	}

	if cfg.AdminAddr != "" {
		s.adminLis, err = net.Listen("tcp", cfg.AdminAddr)
		if err != nil {
			s.closeAll()
			return nil, fmt.Errorf("failed to listen on %s: %w", cfg.AdminAddr, err)
		}
		adminLogger := logger.Named("admin")
		s.adminServer = newHTTPServer(api.NewAdminHandler(reader, inm), adminLogger)
	}

	return s, nil
}

// newHTTPServer has no write timeout: a lookup may wait on the store lock
// for as long as it takes.
func newHTTPServer(handler http.Handler, logger hclog.Logger) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}),
	}
}

// Addr returns the address of the HTTP listener.
func (s *Server) Addr() net.Addr {
	return s.httpLis.Addr()
}

// GRPCAddr returns the address of the gRPC listener, or nil when disabled.
func (s *Server) GRPCAddr() net.Addr {
	if s.grpcLis == nil {
		return nil
	}
	return s.grpcLis.Addr()
}

// AdminAddr returns the address of the admin listener, or nil when disabled.
func (s *Server) AdminAddr() net.Addr {
	if s.adminLis == nil {
		return nil
	}
	return s.adminLis.Addr()
}

// Run serves until ctx is done or a listener fails, then shuts every
// listener down and closes the store.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http server listening", "addr", s.httpLis.Addr().String())
		if err := s.httpServer.Serve(s.httpLis); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if s.grpcServer != nil {
		g.Go(func() error {
			s.logger.Info("grpc server listening", "addr", s.grpcLis.Addr().String())
			if err := s.grpcServer.Serve(s.grpcLis); err != nil {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	if s.adminServer != nil {
		g.Go(func() error {
			s.logger.Info("admin server listening", "addr", s.adminLis.Addr().String())
			if err := s.adminServer.Serve(s.adminLis); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	err := g.Wait()
	if closeErr := s.accessor.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close store: %w", closeErr)
	}
	s.logger.Info("kvlookup stopped")
	return err
}

// shutdown stops all listeners gracefully, waiting up to ShutdownTimeout.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}
	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
		}
	}
	if s.grpcServer != nil {
		stopped := make(chan struct{})
		go func() {
			s.grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			s.grpcServer.Stop()
		}
	}
	return errors.Join(errs...)
}

// closeAll releases whatever New opened before failing.
func (s *Server) closeAll() {
	for _, lis := range []net.Listener{s.httpLis, s.grpcLis, s.adminLis} {
		if lis != nil {
			_ = lis.Close()
		}
	}
	if err := s.accessor.Close(); err != nil {
		s.logger.Warn("failed to close store", "error", err)
	}
}
