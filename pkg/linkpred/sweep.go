package linkpred

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dd0wney/drugnet/pkg/assemble"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/runlog"
	"github.com/dd0wney/drugnet/pkg/sink"
)

const stage = "train"

func (o Options) models() []string {
	if len(o.Models) == 0 {
		return Models
	}
	return o.Models
}

// Train fits every configured model on g for opts.Epochs epochs. After each
// epoch the training loss and the test AUC and AP are appended to the
// returned log under (drug, label, model).
func Train(ctx context.Context, g *assemble.Graph, opts Options) (*runlog.Log, []Model, error) {
	logger := logging.OrDefault(opts.Logger).With(logging.Stage(stage), logging.Drug(g.Drug), logging.Period(g.RunPeriod()))

	s, err := NewSplit(g, opts.TestRatio, opts.Seed)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", g.Drug, g.Label, err)
	}
	testPairs, testLabels := s.testSet()

	log := runlog.New()
	var trained []Model
	for _, name := range opts.models() {
		m, err := NewModel(name, g, s)
		if err != nil {
			return nil, nil, err
		}
		k := runlog.Key{Drug: g.Drug, Period: g.RunPeriod(), Model: name}
		timer := logging.StartTimer(logger, "training model", logging.Model(name))
		for epoch := 0; epoch < opts.Epochs; epoch++ {
			if err := ctx.Err(); err != nil {
				timer.EndError(err)
				return nil, nil, err
			}
			loss := m.Epoch(opts.LearningRate)
			scores := m.Score(testPairs)
			auc, ap := AUC(scores, testLabels), AP(scores, testLabels)
			log.Append(k, loss, auc, ap)
			if opts.Metrics != nil {
				opts.Metrics.RecordEpoch(g.Drug, g.RunPeriod(), name, loss, auc, ap)
			}
		}
		if r, ok := log.Record(k); ok && r.Epochs() > 0 {
			last := r.Epochs() - 1
			timer.End(
				logging.Float64("loss", r.Train.Loss[last]),
				logging.Float64("auc", r.Test.AUC[last]),
				logging.Float64("ap", r.Test.AP[last]),
			)
		} else {
			timer.End()
		}
		trained = append(trained, m)
	}
	return log, trained, nil
}

// LoadGraph reads an exported JSON graph, decompressing it when the file
// carries the compressed suffix.
func LoadGraph(path string) (*assemble.Graph, error) {
	data, err := sink.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := assemble.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Sweep trains every model on every JSON graph exported to dir and merges
// the runs into one log, which is saved once through opts.Store. Graphs too
// small to split are skipped.
func Sweep(ctx context.Context, dir string, opts Options) (*Result, error) {
	logger := logging.OrDefault(opts.Logger).With(logging.Stage(stage))
	cat, err := assemble.ScanDir(dir, sink.CompressedSuffix)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	res := &Result{Log: runlog.New(), Registry: NewRegistry()}
	entries := cat.Entries(assemble.FormatJSON)
	timer := logging.StartTimer(logger, "training sweep", logging.Count(len(entries)))
	for _, e := range entries {
		path := filepath.Join(dir, e.Name)
		g, err := LoadGraph(path)
		if err != nil {
			timer.EndError(err)
			return nil, err
		}
		run, models, err := Train(ctx, g, opts)
		if errors.Is(err, ErrTooFewEdges) || errors.Is(err, ErrNoNegatives) {
			logger.Warn("skipping graph", logging.Path(path), logging.Error(err))
			continue
		}
		if err != nil {
			timer.EndError(err)
			return nil, err
		}
		for _, m := range models {
			k := runlog.Key{Drug: g.Drug, Period: g.RunPeriod(), Model: m.Name()}
			if err := res.Registry.Register(k, m); err != nil {
				timer.EndError(err)
				return nil, err
			}
		}
		res.Log.Merge(run)
	}
	timer.End(logging.Int("runs", res.Log.Len()))

	if opts.Store != nil {
		if err := opts.Store.Save(ctx, res.Log); err != nil {
			return nil, fmt.Errorf("save run log: %w", err)
		}
	}
	return res, nil
}
