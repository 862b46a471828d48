package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dd0wney/drugnet/pkg/linkpred"
	"github.com/dd0wney/drugnet/pkg/runlog"
)

func runTrain(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("train", stdout)
	var common commonFlags
	common.register(fs)
	dir := fs.String("dir", "", "directory of exported JSON graphs (default output.dir)")
	epochs := fs.Int("epochs", 0, "epochs per model overriding training.epochs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := common.setup(false)
	if err != nil {
		return err
	}
	if common.serveMetric {
		e.serveMetrics(ctx)
	}
	if *dir == "" {
		*dir = e.cfg.Output.Dir
	}

	opts := e.cfg.TrainingOptions()
	if *epochs > 0 {
		opts.Epochs = *epochs
	}
	opts.Logger = e.logger
	opts.Metrics = e.metrics

	store, err := openStores(ctx, e.cfg.Training.LogDir, e.cfg.Sinks.PostgresDSN)
	if err != nil {
		return err
	}
	defer store.Close()
	opts.Store = store

	res, err := linkpred.Sweep(ctx, *dir, opts)
	if err != nil {
		return err
	}
	return printRuns(stdout, res.Log)
}

// openStores returns the log directory store, plus PostgreSQL when dsn is set.
func openStores(ctx context.Context, logDir, dsn string) (runlog.MultiStore, error) {
	stores := runlog.MultiStore{&runlog.FileStore{Dir: logDir}}
	if dsn == "" {
		return stores, nil
	}
	pg, err := runlog.NewPGStore(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return append(stores, pg), nil
}

// printRuns writes the final epoch of every run.
func printRuns(w io.Writer, l *runlog.Log) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DRUG\tPERIOD\tMODEL\tEPOCHS\tLOSS\tAUC\tAP")
	for _, k := range l.Keys() {
		r, ok := l.Record(k)
		if !ok || r.Epochs() == 0 {
			continue
		}
		last := r.Epochs() - 1
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.4f\t%.4f\t%.4f\n",
			k.Drug, k.Period, k.Model, r.Epochs(), r.Train.Loss[last], r.Test.AUC[last], r.Test.AP[last])
	}
	return tw.Flush()
}
