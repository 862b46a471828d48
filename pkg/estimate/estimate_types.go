// Package estimate resolves a per-country, per-year statistic (purity,
// prevalence, price) from sparse survey records, falling back from national
// data to sub-regional, regional and global means.
package estimate

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when not even the period-wide global mean exists.
var ErrNoData = errors.New("no data at any level of the hierarchy")

// Tier records which level of the fallback hierarchy produced a value.
type Tier int

const (
	National Tier = iota
	SubRegion
	Region
	Global
	PeriodGlobal
	Interpolated
)

// strength orders tiers from the most direct source (0) to the least.
var strength = map[Tier]int{
	National:     0,
	Interpolated: 1,
	SubRegion:    2,
	Region:       3,
	Global:       4,
	PeriodGlobal: 5,
}

// Weakest returns whichever of a and b is the less direct estimate.
func Weakest(a, b Tier) Tier {
	if strength[b] > strength[a] {
		return b
	}
	return a
}

func (t Tier) String() string {
	switch t {
	case National:
		return "national"
	case SubRegion:
		return "sub_region"
	case Region:
		return "region"
	case Global:
		return "global"
	case PeriodGlobal:
		return "period_global"
	case Interpolated:
		return "interpolated"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Observation is one usable record reduced to its grouping keys and value.
type Observation struct {
	Country   string
	SubRegion string
	Region    string
	Year      int
	Value     float64
}

// Extractor reduces a source record to an Observation. Returning false
// excludes the record (other drug, missing value).
type Extractor[R any] func(R) (Observation, bool)

// Target is a country to estimate together with the grouping used when its
// national data is missing.
type Target struct {
	Country   string
	SubRegion string
	Region    string
}

// Estimate is a resolved value and the tier that produced it.
type Estimate struct {
	Value float64
	Tier  Tier
}

// Mode selects how missing national years are filled.
type Mode int

const (
	// Direct resolves every year independently through the fallback tiers.
	Direct Mode = iota
	// Interpolate fills the period endpoints through the fallback tiers and
	// interior gaps linearly between known years.
	Interpolate
)

// Options configure Estimator.Table.
type Options struct {
	Mode Mode
	// Composites maps a reported location to the parts it is estimated from.
	// The composite value is the mean of its parts; parts are not emitted.
	Composites map[string][]string
	// OnResolve, when set, is called for every emitted value.
	OnResolve func(country string, year int, e Estimate)
}
