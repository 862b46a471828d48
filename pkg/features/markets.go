package features

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/sources"
)

const stage = "markets"

// Population indexes population rows by location and year.
type Population map[key]float64

// NewPopulation indexes rows. Later duplicates replace earlier ones.
func NewPopulation(rows []sources.PopulationRow) Population {
	p := make(Population, len(rows))
	for _, r := range rows {
		p[key{country: r.Location, year: r.Year}] = r.Population
	}
	return p
}

// Get returns the population of country in year.
func (p Population) Get(country string, year int) (float64, bool) {
	v, ok := p[key{country: country, year: year}]
	return v, ok
}

// Users estimates the number of users of each country in year as
// population times prevalence. Countries without a population count have
// no users; an unresolvable prevalence is an error.
func Users(countries []string, year int, pop Population, prevalence Statistic, logger logging.Logger) (map[string]float64, error) {
	logger = logging.OrDefault(logger)
	out := make(map[string]float64, len(countries))
	for _, c := range countries {
		prev, err := prevalence.Value(c, year)
		if err != nil {
			return nil, fmt.Errorf("prevalence of %s: %w", c, err)
		}
		n, ok := pop.Get(c, year)
		if !ok {
			logger.Warn("no population, counting zero users", logging.Country(c), logging.Year(year))
			out[c] = 0
			continue
		}
		out[c] = n * prev
	}
	return out, nil
}

// PerUserConsumption divides the year's production by its total users.
func PerUserConsumption(production float64, users map[string]float64) (float64, error) {
	vals := make([]float64, 0, len(users))
	for _, u := range users {
		vals = append(vals, u)
	}
	sort.Float64s(vals)
	total := floats.Sum(vals)
	if total <= 0 {
		return 0, ErrNoUsers
	}
	return production / total, nil
}

func productionOf(in MarketInputs, year int) (float64, error) {
	for _, r := range in.Production {
		if r.Drug == in.Drug && r.Year == year {
			return r.Quantity, nil
		}
	}
	return 0, fmt.Errorf("%w: %s in %d", ErrNoProduction, in.Drug, year)
}

// ComputeMarkets estimates consumption and market size for every country of
// in.Countries and every year of the period. Market is consumption plus
// purity-adjusted seizures.
func ComputeMarkets(in MarketInputs) (*Markets, error) {
	logger := logging.OrDefault(in.Logger).With(logging.Stage(stage), logging.Drug(string(in.Drug)))
	timer := logging.StartTimer(logger, "estimating markets", logging.Period(in.Period.String()))
	pop := NewPopulation(in.Population)

	m := &Markets{Drug: in.Drug, rows: make(map[key]MarketRow), perUser: make(map[int]float64)}
	for _, y := range in.Period.Years() {
		users, err := Users(in.Countries, y, pop, in.Prevalence, logger)
		if err != nil {
			timer.EndError(err)
			return nil, fmt.Errorf("%s %d: %w", in.Drug, y, err)
		}
		production, err := productionOf(in, y)
		if err != nil {
			timer.EndError(err)
			return nil, err
		}
		perUser, err := PerUserConsumption(production, users)
		if err != nil {
			timer.EndError(err)
			return nil, fmt.Errorf("%s %d: %w", in.Drug, y, err)
		}
		m.perUser[y] = perUser

		for _, c := range in.Countries {
			var seized float64
			if in.Seizures != nil {
				seized, _ = in.Seizures.Quantity(in.Drug, y, c)
			}
			consumption := users[c] * perUser
			m.rows[key{country: c, year: y}] = MarketRow{
				Country:     c,
				Year:        y,
				Users:       users[c],
				Seizures:    seized,
				Consumption: consumption,
				Market:      consumption + seized,
			}
		}
	}
	if in.Metrics != nil {
		in.Metrics.RecordStage(stage, string(in.Drug), timer.Elapsed(), nil)
	}
	timer.End(logging.Count(len(m.rows)))
	return m, nil
}

// Market returns the market size of country in year.
func (m *Markets) Market(country string, year int) (float64, bool) {
	r, ok := m.rows[key{country: country, year: year}]
	return r.Market, ok
}

// Row returns the full market estimate of country in year.
func (m *Markets) Row(country string, year int) (MarketRow, bool) {
	r, ok := m.rows[key{country: country, year: year}]
	return r, ok
}

// PerUser returns the per-user consumption of year.
func (m *Markets) PerUser(year int) (float64, bool) {
	v, ok := m.perUser[year]
	return v, ok
}

// Rows returns every estimate of year sorted by country.
func (m *Markets) Rows(year int) []MarketRow {
	var out []MarketRow
	for k, r := range m.rows {
		if k.year == year {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}
