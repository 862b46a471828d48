package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dd0wney/drugnet/pkg/parallel"
	"github.com/dd0wney/drugnet/pkg/period"
	"github.com/dd0wney/drugnet/pkg/population"
)

func runFetchPopulation(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("fetch-population", stdout)
	var common commonFlags
	common.register(fs)
	out := fs.String("out", "", "CSV file to write (default sources.population, or stdout)")
	span := fs.String("period", "", "period overriding the configured one, e.g. 2006_2017")
	workers := fs.Int("workers", -1, "concurrent location fetches overriding population.workers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := common.setup(false)
	if err != nil {
		return err
	}
	p := e.cfg.Period
	if *span != "" {
		if p, err = period.Parse(*span); err != nil {
			return err
		}
	}
	if *workers >= 0 {
		e.cfg.Population.Workers = *workers
	}

	client := population.NewClient(e.cfg.Population.BaseURL)
	client.AgeMin, client.AgeMax = e.cfg.Population.AgeMin, e.cfg.Population.AgeMax
	if e.cfg.Population.Timeout > 0 {
		client.HTTP.Timeout = e.cfg.Population.Timeout
	}
	client.Logger = e.logger
	client.Metrics = e.metrics
	if e.cfg.Population.Workers > 0 {
		pool, err := parallel.NewWorkerPool(e.cfg.Population.Workers, e.logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		client.Pool = pool
	}

	rows, err := client.Fetch(ctx, p)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = e.cfg.Sources.Population
	}
	if path == "" {
		return population.WriteCSV(stdout, rows)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := population.WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %d rows to %s\n", len(rows), path)
	return nil
}
