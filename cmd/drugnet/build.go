package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dd0wney/drugnet/pkg/config"
	"github.com/dd0wney/drugnet/pkg/drugs"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/metrics"
	"github.com/dd0wney/drugnet/pkg/period"
	"github.com/dd0wney/drugnet/pkg/pipeline"
	"github.com/dd0wney/drugnet/pkg/sink"
	"github.com/dd0wney/drugnet/pkg/sources"
)

func runBuild(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("build", stdout)
	var common commonFlags
	common.register(fs)
	drugList := fs.String("drugs", "", "comma-separated drugs overriding the configured list")
	span := fs.String("period", "", "period overriding the configured one, e.g. 2006_2017")
	out := fs.String("out", "", "output directory overriding output.dir")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := common.setup(true)
	if err != nil {
		return err
	}
	if err := applyBuildOverrides(e.cfg, *drugList, *span, *out); err != nil {
		return err
	}
	if common.serveMetric {
		e.serveMetrics(ctx)
	}

	cats, err := e.cfg.Categories()
	if err != nil {
		return err
	}

	bundle, err := sources.LoadBundle(e.cfg.Sources)
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	for name, n := range bundle.Counts() {
		e.metrics.RecordLoaded(name, n)
	}

	artifacts, err := openSinks(ctx, e.cfg, e.metrics)
	if err != nil {
		return err
	}

	p, err := pipeline.New(bundle, pipeline.Options{
		Period:    e.cfg.Period,
		Drugs:     cats,
		Formats:   e.cfg.Formats(),
		Aggregate: e.cfg.Output.Aggregate,
		Sink:      artifacts,
		Logger:    e.logger,
		Metrics:   e.metrics,
	})
	if err != nil {
		return err
	}

	timer := logging.StartTimer(e.logger, "build", logging.Period(e.cfg.Period.String()), logging.Count(len(cats)))
	results, err := p.Run(ctx)
	if err != nil {
		timer.EndError(err)
		return err
	}
	timer.End()

	for _, r := range results {
		fmt.Fprintf(stdout, "%s: %d yearly graphs, %d artifacts\n", r.Drug, len(r.Graphs), len(r.Artifacts))
		for _, row := range r.Summary {
			fmt.Fprintf(stdout, "  %s  countries=%d  connections=%d\n", row.Label, row.Countries, row.Connections)
		}
	}
	return nil
}

func applyBuildOverrides(cfg *config.Config, drugList, span, out string) error {
	if drugList != "" {
		names := strings.Split(drugList, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
		if _, err := drugs.ParseAll(names); err != nil {
			return err
		}
		cfg.Drugs = names
	}
	if span != "" {
		p, err := period.Parse(span)
		if err != nil {
			return err
		}
		cfg.Period = p
	}
	if out != "" {
		cfg.Output.Dir = out
	}
	return cfg.Validate()
}

// openSinks returns the export directory sink, plus the S3 sink when enabled.
func openSinks(ctx context.Context, cfg *config.Config, reg *metrics.Registry) (sink.Sink, error) {
	sinks := sink.MultiSink{&sink.FileSink{Dir: cfg.Output.Dir, Compress: cfg.Output.Compress, Metrics: reg}}
	if !cfg.Sinks.S3.Enabled {
		return sinks, nil
	}
	s3, err := sink.NewS3Sink(ctx, sink.S3Config{
		Bucket:   cfg.Sinks.S3.Bucket,
		Prefix:   cfg.Sinks.S3.Prefix,
		Region:   cfg.Sinks.S3.Region,
		Endpoint: cfg.Sinks.S3.Endpoint,
	}, reg)
	if err != nil {
		return nil, fmt.Errorf("s3 sink: %w", err)
	}
	return append(sinks, s3), nil
}
