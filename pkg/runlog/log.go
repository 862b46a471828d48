package runlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// New creates an empty log with a fresh run ID.
func New() *Log {
	return &Log{ID: uuid.New(), Created: time.Now(), tree: make(tree)}
}

func (l *Log) record(k Key) *Record {
	if l.tree[k.Drug] == nil {
		l.tree[k.Drug] = make(periods)
	}
	if l.tree[k.Drug][k.Period] == nil {
		l.tree[k.Drug][k.Period] = make(models)
	}
	r := l.tree[k.Drug][k.Period][k.Model]
	if r == nil {
		r = &Record{Train: Train{Loss: []float64{}}, Test: Test{AUC: []float64{}, AP: []float64{}}}
		l.tree[k.Drug][k.Period][k.Model] = r
	}
	return r
}

// Append adds one epoch to the record of k.
func (l *Log) Append(k Key, loss, auc, ap float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r := l.record(k)
	r.Train.Loss = append(r.Train.Loss, loss)
	r.Test.AUC = append(r.Test.AUC, auc)
	r.Test.AP = append(r.Test.AP, ap)
}

// Record returns a copy of the record of k.
func (l *Log) Record(k Key) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.tree[k.Drug][k.Period][k.Model]
	if !ok {
		return Record{}, false
	}
	return r.clone(), true
}

func (r *Record) clone() Record {
	return Record{
		Train: Train{Loss: append([]float64{}, r.Train.Loss...)},
		Test:  Test{AUC: append([]float64{}, r.Test.AUC...), AP: append([]float64{}, r.Test.AP...)},
	}
}

// Merge deep-merges other into l. Where both hold a record for the same
// key, other's record replaces l's.
func (l *Log) Merge(other *Log) {
	if other == nil || other == l {
		return
	}
	other.mu.RLock()
	defer other.mu.RUnlock()
	l.mu.Lock()
	defer l.mu.Unlock()

	for drug, ps := range other.tree {
		for p, ms := range ps {
			for model, r := range ms {
				k := Key{Drug: drug, Period: p, Model: model}
				dst := l.record(k)
				*dst = r.clone()
			}
		}
	}
}

// Keys lists every record key in sorted order.
func (l *Log) Keys() []Key {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Key
	for drug, ps := range l.tree {
		for p, ms := range ps {
			for model := range ms {
				out = append(out, Key{Drug: drug, Period: p, Model: model})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Drug != b.Drug {
			return a.Drug < b.Drug
		}
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		return a.Model < b.Model
	})
	return out
}

// Len is the number of records.
func (l *Log) Len() int {
	return len(l.Keys())
}

// MarshalJSON encodes the drug -> period -> model tree.
func (l *Log) MarshalJSON() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return json.Marshal(l.tree)
}

// UnmarshalJSON decodes a tree written by MarshalJSON.
func (l *Log) UnmarshalJSON(data []byte) error {
	t := make(tree)
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tree = t
	return nil
}

// Read decodes a dumped log.
func Read(r io.Reader) (*Log, error) {
	l := New()
	if err := json.NewDecoder(r).Decode(l); err != nil {
		return nil, fmt.Errorf("decode run log: %w", err)
	}
	return l, nil
}

// Dump writes l to dir as "<dd-mm-yyyy_HH:MM:SS>.json" stamped with at and
// returns the path written.
func (l *Log) Dump(dir string, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	data, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("encode run log: %w", err)
	}
	path := filepath.Join(dir, at.Format(TimeLayout)+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write run log: %w", err)
	}
	return path, nil
}

// FileStore dumps logs into a directory.
type FileStore struct {
	Dir string
	// Now stamps dumps; time.Now when nil.
	Now func() time.Time
	// Last is the path of the most recent dump.
	Last string
}

// Save dumps l.
func (s *FileStore) Save(_ context.Context, l *Log) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	path, err := l.Dump(s.Dir, now())
	if err != nil {
		return err
	}
	s.Last = path
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

// MultiStore saves to every store in order and reports all failures.
type MultiStore []Store

// Save saves l to each store.
func (m MultiStore) Save(ctx context.Context, l *Log) error {
	var errs []error
	for _, s := range m {
		if err := s.Save(ctx, l); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes each store.
func (m MultiStore) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
