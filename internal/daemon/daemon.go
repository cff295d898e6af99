package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tutu-network/powergate/internal/api"
	"github.com/tutu-network/powergate/internal/planner"
)

// Daemon wires the planner to the HTTP API.
type Daemon struct {
	Config  Config
	Planner *planner.Planner
	Server  *api.Server
	cancel  context.CancelFunc
}

// New creates a Daemon from the on-disk configuration.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := planner.New(planner.Config{
		RequireSafe: cfg.Planner.RequireSafe,
		Verbose:     cfg.Debug(),
		Quiet:       cfg.Quiet(),
	})

	srv := api.NewServer(p, api.Options{
		DefaultPolicy:  cfg.DefaultPolicy(),
		Dimensions:     cfg.Defaults.Dimensions,
		CORSOrigins:    cfg.API.CORSOrigins,
		RequestTimeout: cfg.Timeout(),
		MaxBodyBytes:   cfg.API.MaxBodyBytes,
		RequestLog:     !cfg.Quiet(),
	})
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{Config: cfg, Planner: p, Server: srv}, nil
}

// Addr returns the host:port the server listens on.
func (d *Daemon) Addr() string {
	return fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)
}

// Serve starts the HTTP server and blocks until ctx is cancelled or the
// process receives SIGINT/SIGTERM.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	defer cancel()

	addr := d.Addr()
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           d.Server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[daemon] shutdown: %v", err)
		}
	}()

	log.Printf("[daemon] powergate serving on http://%s", addr)
	if d.Config.Telemetry.Prometheus {
		log.Printf("[daemon] metrics: http://%s/metrics", addr)
	}

	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Printf("[daemon] stopped")
	return nil
}

// Close stops a running Serve.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
}
