package estimate

import (
	"fmt"
	"sort"
)

// Key addresses one value of a Table.
type Key struct {
	Country string
	Year    int
}

// Table is the complete resolved statistic: one value per requested
// country and year.
type Table struct {
	values map[Key]Estimate
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{values: make(map[Key]Estimate)}
}

// Set stores e under (country, year).
func (t *Table) Set(country string, year int, e Estimate) {
	t.values[Key{Country: country, Year: year}] = e
}

// Get returns the estimate for (country, year).
func (t *Table) Get(country string, year int) (Estimate, bool) {
	e, ok := t.values[Key{Country: country, Year: year}]
	return e, ok
}

// Value returns the value for (country, year) or an ErrNoData error.
func (t *Table) Value(country string, year int) (float64, error) {
	e, ok := t.Get(country, year)
	if !ok {
		return 0, fmt.Errorf("%w: %s in %d", ErrNoData, country, year)
	}
	return e.Value, nil
}

// Len is the number of stored values.
func (t *Table) Len() int {
	return len(t.values)
}

// Countries lists the countries present in sorted order.
func (t *Table) Countries() []string {
	seen := make(map[string]struct{})
	for k := range t.values {
		seen[k.Country] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// TierCounts tallies stored values by tier.
func (t *Table) TierCounts() map[Tier]int {
	out := make(map[Tier]int)
	for _, e := range t.values {
		out[e.Tier]++
	}
	return out
}

// Table resolves every target for every year of the period. Any target the
// hierarchy cannot resolve aborts with ErrNoData.
func (e *Estimator) Table(targets []Target, opts Options) (*Table, error) {
	years := e.period.Years()
	out := NewTable()

	for _, t := range targets {
		series, err := e.target(t, opts)
		if err != nil {
			return nil, err
		}
		for i, y := range years {
			out.Set(t.Country, y, series[i])
			if opts.OnResolve != nil {
				opts.OnResolve(t.Country, y, series[i])
			}
		}
	}
	return out, nil
}

// target resolves a plain target, or a composite as the mean of its parts.
// The composite's tier is the weakest tier among its parts.
func (e *Estimator) target(t Target, opts Options) ([]Estimate, error) {
	parts, ok := opts.Composites[t.Country]
	if !ok || len(parts) == 0 {
		return e.Series(t, opts.Mode)
	}

	merged := make([]Estimate, e.period.Len())
	for _, p := range parts {
		series, err := e.Series(Target{Country: p, SubRegion: t.SubRegion, Region: t.Region}, opts.Mode)
		if err != nil {
			return nil, fmt.Errorf("%s part %s: %w", t.Country, p, err)
		}
		for i, s := range series {
			merged[i].Value += s.Value / float64(len(parts))
			merged[i].Tier = Weakest(merged[i].Tier, s.Tier)
		}
	}
	return merged, nil
}
