package seizures

import (
	"fmt"
	"sort"

	"github.com/dd0wney/drugnet/pkg/drugs"
	"github.com/dd0wney/drugnet/pkg/geo"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/period"
	"github.com/dd0wney/drugnet/pkg/sources"
	"github.com/dd0wney/drugnet/pkg/units"
)

const stage = "seizures"

// Aggregate totals the seizures of every country in h for each drug of cats
// and each year of p. Each record is converted with units.Convert using its
// drug name as the form; a conversion error aborts the aggregation. Non-zero
// totals are multiplied by the country's purity for that drug and year.
func Aggregate(records []sources.Seizure, h *geo.Hierarchy, purity map[drugs.Category]Purity,
	cats []drugs.Category, p period.Period, opts Options) (*Table, error) {
	logger := logging.OrDefault(opts.Logger).With(logging.Stage(stage))
	timer := logging.StartTimer(logger, "aggregating seizures", logging.Period(p.String()))

	raw := make(map[key]float64)
	for _, r := range records {
		if !p.Contains(r.Year) {
			continue
		}
		if _, ok := h.Lookup(r.CountryOfSeizure); !ok {
			continue
		}
		for _, c := range cats {
			if !c.Includes(r.DrugName) {
				continue
			}
			kg, err := units.Convert(c, r.Amount, r.DrugName, r.DrugUnit)
			if err != nil {
				timer.EndError(err)
				return nil, fmt.Errorf("seizure in %s %d (%s, %s): %w",
					r.CountryOfSeizure, r.Year, r.DrugName, r.DrugUnit, err)
			}
			raw[key{drug: c, year: r.Year, country: r.CountryOfSeizure}] += kg
		}
	}

	t := &Table{byYear: make(map[int][]Row), index: make(map[key]int)}
	for _, y := range p.Years() {
		rows := make([]Row, 0, h.Len()*len(cats))
		for _, country := range h.Countries() {
			loc := h.Get(country)
			for _, c := range cats {
				total := raw[key{drug: c, year: y, country: country}]
				row := Row{
					Region:    loc.Region,
					SubRegion: loc.SubRegion,
					Country:   country,
					Drug:      c,
					Year:      y,
					Raw:       total,
				}
				if total > 0 {
					adj, err := adjust(purity, c, country, y)
					if err != nil {
						timer.EndError(err)
						return nil, err
					}
					row.Quantity = total * adj
				}
				rows = append(rows, row)
			}
		}
		sortRows(rows)
		for i, row := range rows {
			t.index[key{drug: row.Drug, year: y, country: row.Country}] = i
		}
		t.byYear[y] = rows
		if opts.Metrics != nil {
			opts.Metrics.RecordLoaded(stage, len(rows))
		}
	}

	timer.End(logging.Count(len(t.index)))
	return t, nil
}

func adjust(purity map[drugs.Category]Purity, c drugs.Category, country string, year int) (float64, error) {
	lookup, ok := purity[c]
	if !ok || lookup == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoPurity, c)
	}
	v, err := lookup.Value(country, year)
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %w", ErrNoPurity, c, err)
	}
	return v, nil
}

func sortRows(rows []Row) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.SubRegion != b.SubRegion {
			return a.SubRegion < b.SubRegion
		}
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		return a.Drug < b.Drug
	})
}

// Year returns the rows of year in (Region, SubRegion, Country, Drug) order.
func (t *Table) Year(year int) []Row {
	return t.byYear[year]
}

// Years lists the years held, ascending.
func (t *Table) Years() []int {
	out := make([]int, 0, len(t.byYear))
	for y := range t.byYear {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Quantity returns the purity-adjusted kilograms seized in country.
func (t *Table) Quantity(drug drugs.Category, year int, country string) (float64, bool) {
	i, ok := t.index[key{drug: drug, year: year, country: country}]
	if !ok {
		return 0, false
	}
	return t.byYear[year][i].Quantity, true
}
