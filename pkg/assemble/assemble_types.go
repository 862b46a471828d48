// Package assemble attaches feature tables to trafficking networks and
// serialises the result for learning tasks and statistical tools.
package assemble

import (
	"errors"
)

var (
	// ErrBadName is returned for an artifact name that does not follow the
	// export naming scheme.
	ErrBadName = errors.New("unrecognised artifact name")
	// ErrUnknownFormat is returned for an unsupported export format.
	ErrUnknownFormat = errors.New("unknown export format")
)

// Format is an export encoding.
type Format string

const (
	FormatGML  Format = "gml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Formats lists the supported formats.
var Formats = []Format{FormatGML, FormatJSON, FormatCSV}

// Node is a country with its feature vector.
type Node struct {
	Country   string             `json:"country"`
	SubRegion string             `json:"sub_region"`
	Region    string             `json:"region"`
	Producer  bool               `json:"producer"`
	Market    float64            `json:"market"`
	X         []float64          `json:"x"`
	Values    map[string]float64 `json:"values,omitempty"`
}

// Edge is a directed, weighted flow.
type Edge struct {
	From           string  `json:"from"`
	To             string  `json:"to"`
	Weight         float64 `json:"weight"`
	RelativeWeight float64 `json:"relative_weight"`
}

// Graph is a network with node features, ready for a learning task.
type Graph struct {
	Drug string `json:"drug"`
	// Label is a year ("2010") or "aggregate".
	Label string `json:"label"`
	// Period is the span the graph was built over, e.g. "2006_2017".
	Period       string   `json:"period"`
	FeatureNames []string `json:"feature_names"`
	Nodes        []Node   `json:"nodes"`
	Edges        []Edge   `json:"edges"`
}

// Entry describes one exported artifact.
type Entry struct {
	Drug   string `json:"drug"`
	Label  string `json:"label"`
	Period string `json:"period,omitempty"`
	Kind   string `json:"kind"`
	Format Format `json:"format"`
	Name   string `json:"name"`
}
