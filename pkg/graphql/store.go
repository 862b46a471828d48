package graphql

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dd0wney/drugnet/pkg/assemble"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/sink"
)

// ErrNotFound is returned when no graph was exported for a drug and period.
var ErrNotFound = errors.New("graph not found")

// Store serves assembled graphs to the schema.
type Store interface {
	Drugs() []string
	Periods(drug string) []string
	Graph(drug, period string) (*assemble.Graph, error)
}

// DirStore serves the JSON graphs of an export directory. Decoded graphs are
// cached until the next Reload.
type DirStore struct {
	dir    string
	logger logging.Logger

	mu      sync.RWMutex
	catalog *assemble.Catalog
	cache   map[string]*assemble.Graph
}

// OpenDir scans dir and returns a store over it.
func OpenDir(dir string, logger logging.Logger) (*DirStore, error) {
	s := &DirStore{dir: dir, logger: logging.OrDefault(logger).With(logging.Component("graphql"))}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rescans the directory and drops cached graphs.
func (s *DirStore) Reload() error {
	cat, err := assemble.ScanDir(s.dir, sink.CompressedSuffix)
	if err != nil {
		return fmt.Errorf("scan %s: %w", s.dir, err)
	}
	s.mu.Lock()
	s.catalog = cat
	s.cache = make(map[string]*assemble.Graph)
	s.mu.Unlock()
	s.logger.Info("catalog loaded", logging.Path(s.dir), logging.Count(len(cat.Entries(assemble.FormatJSON))))
	return nil
}

// Drugs lists the drugs with at least one JSON graph.
func (s *DirStore) Drugs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, e := range s.catalog.Entries(assemble.FormatJSON) {
		if !seen[e.Drug] {
			seen[e.Drug] = true
			out = append(out, e.Drug)
		}
	}
	sort.Strings(out)
	return out
}

// Count returns the number of JSON graphs in the catalog. It fails when the
// directory has gone away since the last scan.
func (s *DirStore) Count() (int, error) {
	if _, err := os.Stat(s.dir); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.catalog.Entries(assemble.FormatJSON)), nil
}

// Periods lists the period labels exported for drug.
func (s *DirStore) Periods(drug string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Periods(drug, assemble.FormatJSON)
}

// Graph loads the graph of drug for a period label.
func (s *DirStore) Graph(drug, period string) (*assemble.Graph, error) {
	s.mu.RLock()
	e, ok := s.catalog.Find(drug, period, assemble.FormatJSON)
	g := s.cache[e.Name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, drug, period)
	}
	if g != nil {
		return g, nil
	}

	path := filepath.Join(s.dir, e.Name)
	data, err := sink.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err = assemble.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.mu.Lock()
	s.cache[e.Name] = g
	s.mu.Unlock()
	s.logger.Debug("graph loaded", logging.Path(path), logging.Int("nodes", len(g.Nodes)), logging.Int("edges", len(g.Edges)))
	return g, nil
}
