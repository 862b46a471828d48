// Package sources reads the static input tables of the pipeline from CSV and
// applies the per-source preparation each table needs before use.
package sources

import (
	"errors"

	"github.com/dd0wney/drugnet/pkg/drugs"
)

var (
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidRow is returned for a row whose required value cannot be parsed.
	ErrInvalidRow = errors.New("invalid row")
)

// Seizure is one reported seizure event. Geography fields hold the raw source
// text; callers decide absence with geo.Absent.
type Seizure struct {
	Year             int
	CountryOfSeizure string
	SubRegion        string
	Region           string
	Departure        string
	Destination      string
	Producing        string
	DrugName         string
	DrugUnit         string
	Amount           float64
}

// PurityRow is a prepared wholesale purity observation as a fraction.
type PurityRow struct {
	Country   string
	SubRegion string
	Region    string
	Drug      drugs.Category
	Year      int
	Typical   float64
}

// PrevalenceRow is a prepared annual prevalence observation as a fraction.
type PrevalenceRow struct {
	Country   string
	SubRegion string
	Region    string
	Drug      drugs.Category
	Year      int
	Best      float64
}

// PriceRow is a prepared wholesale price observation in USD per kilogram.
type PriceRow struct {
	Country    string
	SubRegion  string
	Region     string
	Drug       drugs.Category
	Year       int
	TypicalUSD float64
}

// PopulationRow is the 15-64 population of a location in a year.
type PopulationRow struct {
	Location   string
	Year       int
	Population float64
}

// ProductionRow is the reported global production of a drug in a year.
type ProductionRow struct {
	Drug     drugs.Category
	Year     int
	Quantity float64
}

// GDPRow holds GDP per capita by year for one country. Missing years are absent.
type GDPRow struct {
	Country string
	Values  map[int]float64
}

// Governance indicator column names.
const (
	ControlOfCorruption  = "Control_of_Corruption"
	GovEffectiveness     = "Gov_Effectiveness"
	StabilityNoTerrorism = "Stability_No_Terrorism"
	RegulatoryQuality    = "Regulatory_Quality"
	RuleOfLaw            = "Rule_of_Law"
)

// GovernanceIndicators lists the indicator columns in output order.
var GovernanceIndicators = []string{
	ControlOfCorruption, GovEffectiveness, StabilityNoTerrorism, RegulatoryQuality, RuleOfLaw,
}

// GovernanceRow holds one indicator series for one country by year.
type GovernanceRow struct {
	Country   string
	Indicator string
	Values    map[int]float64
}

// CoordinateRow places a country on the map.
type CoordinateRow struct {
	Country   string
	ISO       string
	Latitude  float64
	Longitude float64
}
