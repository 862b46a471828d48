// Package runlog records per-epoch training metrics as a tree keyed by drug,
// period and model, and persists it.
package runlog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TimeLayout names dumped logs, e.g. "17-10-2026_14:03:59.json".
const TimeLayout = "02-01-2006_15:04:05"

// Train holds the training series of one model.
type Train struct {
	Loss []float64 `json:"loss"`
}

// Test holds the evaluation series of one model.
type Test struct {
	AUC []float64 `json:"AUC"`
	AP  []float64 `json:"AP"`
}

// Record is the per-epoch history of one (drug, period, model) run.
type Record struct {
	Train Train `json:"train"`
	Test  Test  `json:"test"`
}

// Epochs is the number of epochs recorded.
func (r *Record) Epochs() int {
	return len(r.Train.Loss)
}

// Key addresses one record.
type Key struct {
	Drug   string
	Period string
	Model  string
}

type (
	models  map[string]*Record
	periods map[string]models
	tree    map[string]periods
)

// Log is the training-run log. It is safe for concurrent use.
type Log struct {
	ID      uuid.UUID
	Created time.Time

	mu   sync.RWMutex
	tree tree
}

// Store persists logs.
type Store interface {
	Save(ctx context.Context, l *Log) error
	Close() error
}
