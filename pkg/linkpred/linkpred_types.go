// Package linkpred trains link-prediction baselines over assembled
// trafficking networks and records per-epoch loss, AUC and AP.
package linkpred

import (
	"errors"

	"github.com/dd0wney/drugnet/pkg/assemble"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/metrics"
	"github.com/dd0wney/drugnet/pkg/runlog"
)

var (
	// ErrTooFewEdges is returned when a graph cannot be split into
	// non-empty train and test edge sets.
	ErrTooFewEdges = errors.New("too few edges to split")
	// ErrNoNegatives is returned when a graph is complete and no
	// negative pairs can be sampled.
	ErrNoNegatives = errors.New("no negative pairs available")
	// ErrUnknownModel is returned for an unregistered model name.
	ErrUnknownModel = errors.New("unknown model")
	// ErrAlreadyRegistered is returned when a trained model is registered
	// twice under the same key.
	ErrAlreadyRegistered = errors.New("model already registered")
)

// Model names.
const (
	ModelHeuristic = "heuristic_logreg"
	ModelFeature   = "feature_logreg"
)

// Models lists the available model names.
var Models = []string{ModelHeuristic, ModelFeature}

// Pair is a directed node pair, by index into the graph's nodes.
type Pair struct {
	U, V int
}

// Split partitions a graph's edges into train and test positives, with an
// equal number of sampled non-edges for each.
type Split struct {
	Nodes    int
	TrainPos []Pair
	TrainNeg []Pair
	TestPos  []Pair
	TestNeg  []Pair
}

// Model is a trainable pair scorer.
type Model interface {
	Name() string
	// Epoch runs one full-batch gradient step and returns the training loss.
	Epoch(learningRate float64) float64
	// Score returns the predicted link probability of each pair.
	Score(pairs []Pair) []float64
}

// Factory builds an untrained model over a graph and its split.
type Factory func(g *assemble.Graph, s *Split) (Model, error)

// Options configures training.
type Options struct {
	Epochs       int
	LearningRate float64
	TestRatio    float64
	Seed         uint64
	// Models to train; all models when empty.
	Models []string

	// Store receives the merged log of a sweep; nil skips persistence.
	Store   runlog.Store
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// DefaultOptions returns the training defaults.
func DefaultOptions() Options {
	return Options{
		Epochs:       200,
		LearningRate: 0.05,
		TestRatio:    0.2,
		Seed:         42,
	}
}

// Result is the outcome of a sweep.
type Result struct {
	Log      *runlog.Log
	Registry *Registry
}
