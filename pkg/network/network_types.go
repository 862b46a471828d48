// Package network builds one directed, weighted country graph per year from
// seizure records: edges follow the trafficking route departure -> seizure
// -> destination and carry purity-adjusted kilograms.
package network

import (
	"github.com/dd0wney/drugnet/pkg/drugs"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/metrics"
)

// AggregateLabel names the multi-year union graph.
const AggregateLabel = "aggregate"

// Node is a country observed in some seizure role.
type Node struct {
	Country  string  `json:"country"`
	Producer bool    `json:"producer"`
	Market   float64 `json:"market"`
	// HasMarket is false until a market value has been attached.
	HasMarket bool `json:"-"`
}

// Edge is a directed flow between two countries.
type Edge struct {
	From           string  `json:"from"`
	To             string  `json:"to"`
	Weight         float64 `json:"weight"`
	RelativeWeight float64 `json:"relative_weight"`
}

type edgeKey struct {
	from, to string
}

// Graph is the trafficking network of one drug over one year or period.
type Graph struct {
	Drug  drugs.Category
	Label string

	nodes map[string]*Node
	edges map[edgeKey]*Edge
	// in lists the origins of the edges entering each country.
	in map[string][]string
}

// Purity looks up the estimated purity of a country in a year.
type Purity interface {
	Value(country string, year int) (float64, error)
}

// Markets looks up the national market size of a country in a year.
type Markets interface {
	Market(country string, year int) (float64, bool)
}

// Options carry the optional collaborators of Build.
type Options struct {
	Markets Markets
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// SummaryRow is the size of one graph.
type SummaryRow struct {
	Label       string `json:"label"`
	Countries   int    `json:"countries"`
	Connections int    `json:"connections"`
}
