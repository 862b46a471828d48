// Package server runs the query and metrics endpoints with graceful
// shutdown and SIGHUP-triggered catalog reloads.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dd0wney/drugnet/pkg/logging"
)

// DefaultShutdownTimeout bounds connection draining on SIGINT or SIGTERM.
const DefaultShutdownTimeout = 30 * time.Second

// ReloadFunc reloads served state, e.g. rescans the export directory.
type ReloadFunc func() error

// GracefulServer wraps an HTTP server with graceful shutdown capabilities
type GracefulServer struct {
	server       *http.Server
	logger       logging.Logger
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	reloadFn     ReloadFunc
	reloadMu     sync.RWMutex
}

// NewGracefulServer creates a new graceful HTTP server
func NewGracefulServer(addr string, handler http.Handler, logger logging.Logger) *GracefulServer {
	return &GracefulServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		logger:     logging.OrDefault(logger).With(logging.Component("server")),
		shutdownCh: make(chan struct{}),
	}
}

// Start listens on the configured address and serves until ctx is
// cancelled, a termination signal arrives or Shutdown is called.
func (gs *GracefulServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return err
	}
	return gs.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (gs *GracefulServer) Serve(ctx context.Context, ln net.Listener) error {
	stop := gs.handleSignals()
	defer stop()

	go func() {
		select {
		case <-ctx.Done():
			if err := gs.Shutdown(DefaultShutdownTimeout); err != nil {
				gs.logger.Error("shutdown failed", logging.Error(err))
			}
		case <-gs.shutdownCh:
		}
	}()

	gs.logger.Info("starting HTTP server", logging.String("addr", ln.Addr().String()))
	if err := gs.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown initiates a graceful shutdown
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.logger.Info("initiating graceful shutdown", logging.Duration("timeout", timeout))
		if err = gs.server.Shutdown(ctx); err != nil {
			gs.logger.Error("error during shutdown", logging.Error(err))
		} else {
			gs.logger.Info("server shutdown complete")
		}
	})
	return err
}

// handleSignals shuts down on SIGINT or SIGTERM and reloads on SIGHUP
// until the returned stop function is called.
func (gs *GracefulServer) handleSignals() (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					gs.logger.Info("received SIGHUP, reloading")
					_ = gs.Reload()
				default:
					gs.logger.Info("received signal, shutting down", logging.String("signal", sig.String()))
					go func() { _ = gs.Shutdown(DefaultShutdownTimeout) }()
				}
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}

// IsShuttingDown returns true if shutdown has been initiated
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel returns a channel that closes when shutdown is initiated
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

// SetReloadFunc sets the function run on SIGHUP
func (gs *GracefulServer) SetReloadFunc(fn ReloadFunc) {
	gs.reloadMu.Lock()
	defer gs.reloadMu.Unlock()
	gs.reloadFn = fn
}

// Reload runs the reload function, if any.
func (gs *GracefulServer) Reload() error {
	gs.reloadMu.RLock()
	fn := gs.reloadFn
	gs.reloadMu.RUnlock()

	if fn == nil {
		gs.logger.Warn("reload requested, but no reload function configured")
		return nil
	}

	timer := logging.StartTimer(gs.logger, "reloading")
	if err := fn(); err != nil {
		timer.EndError(err)
		return err
	}
	timer.End()
	return nil
}
