// Package seizures selects a drug's seizure records, converts them to
// kilograms of pure substance and totals them per country and year.
package seizures

import (
	"errors"

	"github.com/dd0wney/drugnet/pkg/drugs"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/metrics"
)

// ErrNoPurity is returned when a country with seizures has no purity value.
var ErrNoPurity = errors.New("no purity estimate")

// Purity looks up the estimated purity of a country in a year. An
// *estimate.Table satisfies it.
type Purity interface {
	Value(country string, year int) (float64, error)
}

// Row is the purity-adjusted seizure total of one country, drug and year.
type Row struct {
	Region    string         `json:"region"`
	SubRegion string         `json:"sub_region"`
	Country   string         `json:"country"`
	Drug      drugs.Category `json:"drug"`
	Year      int            `json:"year"`
	Raw       float64        `json:"raw_kg"`
	Quantity  float64        `json:"quantity_kg"`
}

// Options carry the optional collaborators of Aggregate.
type Options struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
}

type key struct {
	drug    drugs.Category
	year    int
	country string
}

// Table holds aggregated rows grouped by year in deterministic order.
type Table struct {
	byYear map[int][]Row
	index  map[key]int
}
