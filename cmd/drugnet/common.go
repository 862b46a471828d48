package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dd0wney/drugnet/pkg/config"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/metrics"
	"github.com/dd0wney/drugnet/pkg/server"
)

// env carries what every command sets up first.
type env struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
}

// commonFlags registers the flags shared by every command.
type commonFlags struct {
	configPath  string
	logLevel    string
	serveMetric bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", os.Getenv("DRUGNET_CONFIG"), "YAML configuration file")
	fs.StringVar(&c.logLevel, "log-level", "", "override the configured log level")
	fs.BoolVar(&c.serveMetric, "metrics", false, "serve /metrics on the configured address while running")
}

func newFlagSet(name string, stdout io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stdout)
	return fs
}

// setup loads the configuration and builds the logger and metrics registry.
// strict requires a configuration file that passes validation.
func (c *commonFlags) setup(strict bool) (*env, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case strict && c.configPath == "":
		return nil, fmt.Errorf("%w: -config is required", errUsage)
	case strict:
		cfg, err = config.Load(c.configPath)
	default:
		cfg, err = config.LoadOrDefault(c.configPath)
	}
	if err != nil {
		return nil, err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.Level())
	logging.SetDefaultLogger(logger)
	return &env{cfg: cfg, logger: logger, metrics: metrics.NewRegistry()}, nil
}

// serveMetrics exposes the registry in the background until ctx ends.
func (e *env) serveMetrics(ctx context.Context) {
	if e.cfg.Metrics.Addr == "" {
		return
	}
	mux := server.NewMux(http.NotFoundHandler(), e.metrics, nil)
	gs := server.NewGracefulServer(e.cfg.Metrics.Addr, mux, e.logger)
	go func() {
		if err := gs.Start(ctx); err != nil {
			e.logger.Error("metrics server failed", logging.Error(err))
		}
	}()
}
