package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dd0wney/drugnet/pkg/network"
	"github.com/dd0wney/drugnet/pkg/period"
)

const (
	KindGraph = "graph"
	KindNodes = "nodes"
	KindEdges = "edges"
)

// GraphName is the artifact name of a graph: "Cocaine_2010.gml" or
// "Cocaine_aggregate_2006_2017.gml".
func GraphName(drug, label, periodLabel string, format Format) string {
	return strings.Join(nameParts(drug, "", label, periodLabel), "_") + "." + string(format)
}

// TableName is the artifact name of a node or edge table: "Cocaine_nodes_2010.csv"
// or "Cocaine_edges_aggregate_2006_2017.csv".
func TableName(drug, kind, label, periodLabel string) string {
	return strings.Join(nameParts(drug, kind, label, periodLabel), "_") + "." + string(FormatCSV)
}

func nameParts(drug, kind, label, periodLabel string) []string {
	parts := []string{drug}
	if kind != "" {
		parts = append(parts, kind)
	}
	parts = append(parts, label)
	if label == network.AggregateLabel {
		parts = append(parts, periodLabel)
	}
	return parts
}

// ParseName recovers the entry an artifact name describes.
func ParseName(name string) (Entry, error) {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	e := Entry{Name: base, Format: Format(strings.TrimPrefix(ext, ".")), Kind: KindGraph}
	parts := strings.Split(strings.TrimSuffix(base, ext), "_")
	if len(parts) < 2 {
		return Entry{}, fmt.Errorf("%w: %q", ErrBadName, name)
	}
	e.Drug, parts = parts[0], parts[1:]
	if parts[0] == KindNodes || parts[0] == KindEdges {
		e.Kind, parts = parts[0], parts[1:]
	}

	switch {
	case len(parts) == 1:
		y, err := strconv.Atoi(parts[0])
		if err != nil {
			return Entry{}, fmt.Errorf("%w: %q", ErrBadName, name)
		}
		e.Label = parts[0]
		e.Period = strconv.Itoa(y)
	case len(parts) == 3 && parts[0] == network.AggregateLabel:
		p, err := period.Parse(parts[1] + "_" + parts[2])
		if err != nil {
			return Entry{}, fmt.Errorf("%w: %q: %w", ErrBadName, name, err)
		}
		e.Label = network.AggregateLabel
		e.Period = p.String()
	default:
		return Entry{}, fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return e, nil
}

// Catalog indexes exported artifacts.
type Catalog struct {
	entries []Entry
}

// NewCatalog indexes names, ignoring any that do not parse.
func NewCatalog(names []string) *Catalog {
	c := &Catalog{}
	for _, n := range names {
		if e, err := ParseName(n); err == nil {
			c.entries = append(c.entries, e)
		}
	}
	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].Name < c.entries[j].Name })
	return c
}

// ScanDir builds a catalog from the files of dir. A trailing compression
// suffix is ignored when parsing but kept in Entry.Name.
func ScanDir(dir string, suffixes ...string) (*Catalog, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	c := &Catalog{}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := f.Name()
		trimmed := name
		for _, s := range suffixes {
			trimmed = strings.TrimSuffix(trimmed, s)
		}
		e, err := ParseName(trimmed)
		if err != nil {
			continue
		}
		e.Name = name
		c.entries = append(c.entries, e)
	}
	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].Name < c.entries[j].Name })
	return c, nil
}

// Entries returns every entry, filtered to graphs of format when format is set.
func (c *Catalog) Entries(format Format) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if format == "" || (e.Kind == KindGraph && e.Format == format) {
			out = append(out, e)
		}
	}
	return out
}

// Periods lists the period labels of drug's graphs in format: years
// ascending, then aggregate spans as "<start>_<end>".
func (c *Catalog) Periods(drug string, format Format) []string {
	seen := make(map[string]bool)
	var years, aggregates []string
	for _, e := range c.Entries(format) {
		if !strings.EqualFold(e.Drug, drug) || seen[e.Period] {
			continue
		}
		seen[e.Period] = true
		if e.Label == network.AggregateLabel {
			aggregates = append(aggregates, e.Period)
		} else {
			years = append(years, e.Period)
		}
	}
	sort.Strings(years)
	sort.Strings(aggregates)
	return append(years, aggregates...)
}

// Find returns the graph entry of drug for a period label as listed by
// Periods. The bare label "aggregate" matches the first aggregate graph.
func (c *Catalog) Find(drug, label string, format Format) (Entry, bool) {
	for _, e := range c.Entries(format) {
		if !strings.EqualFold(e.Drug, drug) {
			continue
		}
		if e.Period == label || (label == network.AggregateLabel && e.Label == network.AggregateLabel) {
			return e, true
		}
	}
	return Entry{}, false
}
