// Package sink stores exported artifacts on the local filesystem or in
// object storage.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"

	"github.com/dd0wney/drugnet/pkg/metrics"
)

// CompressedSuffix is appended to the names of snappy-compressed artifacts.
const CompressedSuffix = ".sz"

// ErrBadName is returned for artifact names that would escape the sink root.
var ErrBadName = errors.New("invalid artifact name")

// Sink stores named artifacts.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
}

func checkName(name string) error {
	if name == "" || strings.Contains(name, "..") || filepath.IsAbs(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}

func record(m *metrics.Registry, sink string, n int, err error) {
	if m != nil {
		m.RecordArtifact(sink, n, err)
	}
}

// FileSink writes artifacts into a directory, optionally compressed.
type FileSink struct {
	Dir      string
	Compress bool
	Metrics  *metrics.Registry
}

// Put writes data to Dir/name, or Dir/name.sz when compressing.
func (s *FileSink) Put(ctx context.Context, name string, data []byte) (err error) {
	defer func() { record(s.Metrics, "file", len(data), err) }()
	if err := checkName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.Dir, err)
	}
	path := filepath.Join(s.Dir, name)
	if s.Compress {
		data = snappy.Encode(nil, data)
		path += CompressedSuffix
	}
	// readers never see a partial artifact
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// ReadFile reads an artifact written by FileSink, decompressing it when
// path carries CompressedSuffix.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, CompressedSuffix) {
		return data, nil
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	return out, nil
}

// MultiSink writes every artifact to all of its sinks. Every sink is
// attempted; the errors are joined.
type MultiSink []Sink

// Put writes data to each sink.
func (m MultiSink) Put(ctx context.Context, name string, data []byte) error {
	var errs []error
	for _, s := range m {
		if err := s.Put(ctx, name, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
