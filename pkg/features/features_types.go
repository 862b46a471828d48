// Package features estimates national drug markets and joins every country
// attribute source into one feature table per year, plus a period total.
package features

import (
	"errors"

	"github.com/dd0wney/drugnet/pkg/drugs"
	"github.com/dd0wney/drugnet/pkg/geo"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/metrics"
	"github.com/dd0wney/drugnet/pkg/period"
	"github.com/dd0wney/drugnet/pkg/sources"
)

var (
	// ErrNoProduction is returned when a drug has no production total for a year.
	ErrNoProduction = errors.New("no production total")
	// ErrNoUsers is returned when the estimated user base of a year is empty.
	ErrNoUsers = errors.New("no estimated users")
)

// Feature table columns.
const (
	ColCountry     = "Country"
	ColSubRegion   = "Sub_Region"
	ColRegion      = "Region"
	ColISO         = "ISO"
	ColLatitude    = "Latitude"
	ColLongitude   = "Longitude"
	ColPrice       = "Price(USD)"
	ColSeizures    = "Seizures(kg)"
	ColConsumption = "Consumption(kg)"
	ColMarket      = "Market(kg)"
	ColGDP         = "GDP/capita"
)

// Columns lists every feature table column in output order.
var Columns = []string{
	ColCountry, ColSubRegion, ColRegion, ColISO, ColLatitude, ColLongitude,
	ColPrice, ColSeizures, ColConsumption, ColMarket, ColGDP,
	sources.ControlOfCorruption, sources.GovEffectiveness, sources.StabilityNoTerrorism,
	sources.RegulatoryQuality, sources.RuleOfLaw,
}

// NumericColumns are averaged by the period total.
var NumericColumns = []string{
	ColPrice, ColSeizures, ColConsumption, ColMarket, ColGDP,
	sources.ControlOfCorruption, sources.GovEffectiveness, sources.StabilityNoTerrorism,
	sources.RegulatoryQuality, sources.RuleOfLaw,
}

// ValueColumns are the numeric node attributes in output order.
var ValueColumns = append([]string{ColLatitude, ColLongitude}, NumericColumns...)

// Row is one country's features. A column absent from Values is null.
type Row struct {
	Country   string             `json:"country"`
	SubRegion string             `json:"sub_region"`
	Region    string             `json:"region"`
	ISO       string             `json:"iso,omitempty"`
	Values    map[string]float64 `json:"values"`
}

// Table is the feature table of one year or of the period total.
type Table struct {
	Label string
	rows  []Row
	index map[string]int
}

// Set holds the yearly tables of a drug and their period total.
type Set struct {
	Drug   drugs.Category
	Period period.Period
	Years  map[int]*Table
	Total  *Table
}

// Statistic looks up an estimated per-country value.
type Statistic interface {
	Value(country string, year int) (float64, error)
}

// Seizures looks up purity-adjusted seizure totals.
type Seizures interface {
	Quantity(drug drugs.Category, year int, country string) (float64, bool)
}

// MarketRow is the market estimate of one country and year.
type MarketRow struct {
	Country     string  `json:"country"`
	Year        int     `json:"year"`
	Users       float64 `json:"users"`
	Seizures    float64 `json:"seizures_kg"`
	Consumption float64 `json:"consumption_kg"`
	Market      float64 `json:"market_kg"`
}

type key struct {
	country string
	year    int
}

// Markets holds the market estimates of one drug.
type Markets struct {
	Drug    drugs.Category
	rows    map[key]MarketRow
	perUser map[int]float64
}

// MarketInputs are the tables the market model draws on.
type MarketInputs struct {
	Drug       drugs.Category
	Period     period.Period
	Countries  []string
	Seizures   Seizures
	Prevalence Statistic
	Population []sources.PopulationRow
	Production []sources.ProductionRow
	Logger     logging.Logger
	Metrics    *metrics.Registry
}

// Inputs are the sources joined into the feature table. Every source other
// than Hierarchy and Markets is optional; a missing source leaves its
// columns null.
type Inputs struct {
	Drug        drugs.Category
	Period      period.Period
	Hierarchy   *geo.Hierarchy
	Markets     *Markets
	Price       Statistic
	GDP         []sources.GDPRow
	Governance  []sources.GovernanceRow
	Coordinates []sources.CoordinateRow
}
