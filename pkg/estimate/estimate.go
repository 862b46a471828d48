package estimate

import (
	"fmt"
	"sort"

	"golang.org/x/exp/constraints"

	"github.com/dd0wney/drugnet/pkg/period"
)

// Estimator holds the grouped observations of one statistic for one drug.
type Estimator struct {
	period    period.Period
	national  map[string]map[int][]float64
	subRegion map[int]map[string][]float64
	region    map[int]map[string][]float64
	global    map[int]float64
	overall   float64
	hasAll    bool
}

// New groups records by country, sub-region and region for every year of p.
// Records outside p are ignored.
func New[R any](records []R, extract Extractor[R], p period.Period) *Estimator {
	e := &Estimator{
		period:    p,
		national:  make(map[string]map[int][]float64),
		subRegion: make(map[int]map[string][]float64),
		region:    make(map[int]map[string][]float64),
		global:    make(map[int]float64),
	}

	for _, r := range records {
		obs, ok := extract(r)
		if !ok || !p.Contains(obs.Year) {
			continue
		}
		if e.national[obs.Country] == nil {
			e.national[obs.Country] = make(map[int][]float64)
		}
		e.national[obs.Country][obs.Year] = append(e.national[obs.Country][obs.Year], obs.Value)
		appendGroup(e.subRegion, obs.Year, obs.SubRegion, obs.Value)
		appendGroup(e.region, obs.Year, obs.Region, obs.Value)
	}

	// global mean of regional means per year, and the mean of those globals
	var yearly []float64
	for _, y := range p.Years() {
		regions := e.region[y]
		if len(regions) == 0 {
			continue
		}
		names := make([]string, 0, len(regions))
		for name := range regions {
			names = append(names, name)
		}
		sort.Strings(names)
		means := make([]float64, 0, len(names))
		for _, name := range names {
			means = append(means, mean(regions[name]))
		}
		e.global[y] = mean(means)
		yearly = append(yearly, e.global[y])
	}
	if len(yearly) > 0 {
		e.overall = mean(yearly)
		e.hasAll = true
	}
	return e
}

func appendGroup(m map[int]map[string][]float64, year int, key string, v float64) {
	if key == "" {
		return
	}
	if m[year] == nil {
		m[year] = make(map[string][]float64)
	}
	m[year][key] = append(m[year][key], v)
}

func mean[T constraints.Float](xs []T) T {
	var sum T
	for _, x := range xs {
		sum += x
	}
	return sum / T(len(xs))
}

// Period returns the years the estimator covers.
func (e *Estimator) Period() period.Period {
	return e.period
}

// National returns the mean of the national observations for country and year.
func (e *Estimator) National(country string, year int) (float64, bool) {
	vals := e.national[country][year]
	if len(vals) == 0 {
		return 0, false
	}
	return mean(vals), true
}

// Fallback resolves a value for t in year without looking at national data.
func (e *Estimator) Fallback(t Target, year int) (Estimate, error) {
	if vals := e.subRegion[year][t.SubRegion]; len(vals) > 0 {
		return Estimate{Value: mean(vals), Tier: SubRegion}, nil
	}
	if vals := e.region[year][t.Region]; len(vals) > 0 {
		return Estimate{Value: mean(vals), Tier: Region}, nil
	}
	if g, ok := e.global[year]; ok {
		return Estimate{Value: g, Tier: Global}, nil
	}
	if e.hasAll {
		return Estimate{Value: e.overall, Tier: PeriodGlobal}, nil
	}
	return Estimate{}, fmt.Errorf("%w: %s in %d", ErrNoData, t.Country, year)
}

// Resolve returns the national value when present, else the fallback.
func (e *Estimator) Resolve(t Target, year int) (Estimate, error) {
	if v, ok := e.National(t.Country, year); ok {
		return Estimate{Value: v, Tier: National}, nil
	}
	return e.Fallback(t, year)
}

// Series resolves every year of the period for t. In Interpolate mode a
// country with some national years gets its endpoints from the fallback and
// interior gaps by linear interpolation; a country with none is resolved
// year by year as in Direct mode.
func (e *Estimator) Series(t Target, mode Mode) ([]Estimate, error) {
	years := e.period.Years()
	out := make([]Estimate, len(years))
	known := make([]bool, len(years))
	nKnown := 0

	for i, y := range years {
		if v, ok := e.National(t.Country, y); ok {
			out[i] = Estimate{Value: v, Tier: National}
			known[i] = true
			nKnown++
		}
	}

	if mode == Direct || nKnown == 0 || nKnown == len(years) {
		for i, y := range years {
			if known[i] {
				continue
			}
			est, err := e.Fallback(t, y)
			if err != nil {
				return nil, err
			}
			out[i] = est
		}
		return out, nil
	}

	last := len(years) - 1
	for _, i := range []int{0, last} {
		if known[i] {
			continue
		}
		est, err := e.Fallback(t, years[i])
		if err != nil {
			return nil, err
		}
		out[i] = est
		known[i] = true
	}
	interpolate(out, known)
	return out, nil
}

// interpolate fills unknown interior points linearly between their nearest
// known neighbours. Both endpoints must be known.
func interpolate(series []Estimate, known []bool) {
	prev := 0
	for i := 1; i < len(series); i++ {
		if !known[i] {
			continue
		}
		if gap := i - prev; gap > 1 {
			lo, hi := series[prev].Value, series[i].Value
			for j := prev + 1; j < i; j++ {
				frac := float64(j-prev) / float64(gap)
				series[j] = Estimate{Value: lo + (hi-lo)*frac, Tier: Interpolated}
			}
		}
		prev = i
	}
}
