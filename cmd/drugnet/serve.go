package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dd0wney/drugnet/pkg/graphql"
	"github.com/dd0wney/drugnet/pkg/health"
	"github.com/dd0wney/drugnet/pkg/runlog"
	"github.com/dd0wney/drugnet/pkg/server"
	"github.com/dd0wney/drugnet/pkg/validation"
)

func runServe(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("serve", stdout)
	var common commonFlags
	common.register(fs)
	dir := fs.String("dir", "", "directory of exported JSON graphs (default output.dir)")
	addr := fs.String("addr", ":8080", "listen address")
	maxDepth := fs.Int("max-depth", graphql.DefaultMaxDepth, "maximum query depth")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := common.setup(false)
	if err != nil {
		return err
	}
	if *dir == "" {
		*dir = e.cfg.Output.Dir
	}

	store, err := graphql.OpenDir(*dir, e.logger)
	if err != nil {
		return err
	}
	schema, err := graphql.NewSchema(store, graphql.DefaultLimitConfig())
	if err != nil {
		return err
	}

	hc := health.NewHealthChecker()
	hc.RegisterLivenessCheck("memory", health.MemoryCheck())
	hc.RegisterReadinessCheck("catalog", health.CatalogCheck(store.Count))
	if dsn := e.cfg.Sinks.PostgresDSN; dsn != "" {
		runs, err := runlog.NewPGStore(ctx, dsn)
		if err != nil {
			return err
		}
		defer runs.Close()
		hc.RegisterCheck("database", health.DatabaseCheck(runs.Ping, 2*time.Second))
	}

	handler := graphql.NewGraphQLHandler(schema, *maxDepth, e.logger)
	gs := server.NewGracefulServer(*addr, server.NewMux(handler, e.metrics, hc), e.logger)
	gs.SetReloadFunc(store.Reload)
	return gs.Start(ctx)
}

func runBest(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("best", stdout)
	var common commonFlags
	common.register(fs)
	var req validation.RunKeyRequest
	fs.StringVar(&req.Drug, "drug", "", "drug of the run")
	fs.StringVar(&req.Period, "period", "", "graph label: a year or aggregate")
	fs.StringVar(&req.Model, "model", "", "model name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validation.ValidateRunKeyRequest(&req); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	e, err := common.setup(false)
	if err != nil {
		return err
	}
	if e.cfg.Sinks.PostgresDSN == "" {
		return fmt.Errorf("no PostgreSQL DSN configured")
	}
	store, err := runlog.NewPGStore(ctx, e.cfg.Sinks.PostgresDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	auc, err := store.BestAUC(ctx, runlog.Key{Drug: req.Drug, Period: req.Period, Model: req.Model})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%.4f\n", auc)
	return nil
}
