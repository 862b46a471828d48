package features

import (
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/dd0wney/drugnet/pkg/sources"
)

// TotalLabel names the period-total table.
const TotalLabel = "aggregate"

// NewTable creates a table from rows, sorted by country.
func NewTable(label string, rows []Row) *Table {
	sorted := append([]Row(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Country < sorted[j].Country })
	t := &Table{Label: label, rows: sorted, index: make(map[string]int, len(sorted))}
	for i, r := range sorted {
		t.index[r.Country] = i
	}
	return t
}

// Rows returns the rows sorted by country.
func (t *Table) Rows() []Row {
	return t.rows
}

// Row returns the row of country.
func (t *Table) Row(country string) (Row, bool) {
	i, ok := t.index[country]
	if !ok {
		return Row{}, false
	}
	return t.rows[i], true
}

// Countries lists the countries of the table in order.
func (t *Table) Countries() []string {
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Country
	}
	return out
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Value returns a numeric column of a row; false means null.
func (r Row) Value(col string) (float64, bool) {
	v, ok := r.Values[col]
	return v, ok
}

// Build joins every source onto the countries of in.Hierarchy for each year
// of the period. Joins are left outer joins on the canonical country name.
func Build(in Inputs) (*Set, error) {
	if in.Hierarchy == nil || in.Markets == nil {
		return nil, fmt.Errorf("features for %s: hierarchy and markets are required", in.Drug)
	}
	gdp := make(map[string]map[int]float64, len(in.GDP))
	for _, r := range in.GDP {
		if _, ok := gdp[r.Country]; !ok {
			gdp[r.Country] = r.Values
		}
	}
	gov := make(map[string]map[string]map[int]float64)
	for _, r := range in.Governance {
		if gov[r.Country] == nil {
			gov[r.Country] = make(map[string]map[int]float64)
		}
		if _, ok := gov[r.Country][r.Indicator]; !ok {
			gov[r.Country][r.Indicator] = r.Values
		}
	}
	coords := make(map[string]sources.CoordinateRow, len(in.Coordinates))
	for _, r := range in.Coordinates {
		if _, ok := coords[r.Country]; !ok {
			coords[r.Country] = r
		}
	}

	set := &Set{Drug: in.Drug, Period: in.Period, Years: make(map[int]*Table, in.Period.Len())}
	countries := in.Hierarchy.Countries()
	for _, y := range in.Period.Years() {
		rows := make([]Row, 0, len(countries))
		for _, c := range countries {
			loc := in.Hierarchy.Get(c)
			row := Row{Country: c, SubRegion: loc.SubRegion, Region: loc.Region, Values: make(map[string]float64)}

			if xy, ok := coords[c]; ok {
				row.ISO = xy.ISO
				row.Values[ColLatitude] = xy.Latitude
				row.Values[ColLongitude] = xy.Longitude
			}
			if in.Price != nil {
				if v, err := in.Price.Value(c, y); err == nil {
					row.Values[ColPrice] = v
				}
			}
			if m, ok := in.Markets.Row(c, y); ok {
				row.Values[ColSeizures] = m.Seizures
				row.Values[ColConsumption] = m.Consumption
				row.Values[ColMarket] = m.Market
			}
			if v, ok := gdp[c][y]; ok {
				row.Values[ColGDP] = v
			}
			for _, ind := range sources.GovernanceIndicators {
				if v, ok := gov[c][ind][y]; ok {
					row.Values[ind] = v
				}
			}
			rows = append(rows, row)
		}
		set.Years[y] = NewTable(strconv.Itoa(y), rows)
	}
	set.Total = set.Aggregate()
	return set, nil
}

// Aggregate computes the period total: every numeric column is averaged
// over the period and is null if any year is null. Identity, geography and
// coordinates are copied from the first year.
func (s *Set) Aggregate() *Table {
	years := s.Period.Years()
	if len(years) == 0 {
		return NewTable(TotalLabel, nil)
	}
	first := s.Years[years[0]]
	if first == nil {
		return NewTable(TotalLabel, nil)
	}

	rows := make([]Row, 0, first.Len())
	for _, base := range first.Rows() {
		row := Row{
			Country:   base.Country,
			SubRegion: base.SubRegion,
			Region:    base.Region,
			ISO:       base.ISO,
			Values:    make(map[string]float64),
		}
		for _, col := range []string{ColLatitude, ColLongitude} {
			if v, ok := base.Value(col); ok {
				row.Values[col] = v
			}
		}
		for _, col := range NumericColumns {
			vals := make([]float64, 0, len(years))
			for _, y := range years {
				t := s.Years[y]
				if t == nil {
					break
				}
				r, ok := t.Row(base.Country)
				if !ok {
					break
				}
				v, ok := r.Value(col)
				if !ok {
					break
				}
				vals = append(vals, v)
			}
			if len(vals) == len(years) {
				row.Values[col] = stat.Mean(vals, nil)
			}
		}
		rows = append(rows, row)
	}
	return NewTable(TotalLabel, rows)
}

// Table returns the table for a year label ("2010") or TotalLabel.
func (s *Set) Table(label string) (*Table, bool) {
	if label == TotalLabel {
		return s.Total, s.Total != nil
	}
	y, err := strconv.Atoi(label)
	if err != nil {
		return nil, false
	}
	t, ok := s.Years[y]
	return t, ok
}
