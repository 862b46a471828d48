// Package pipeline runs the drug-network build end to end: source tables
// in, assembled graphs and feature tables out.
package pipeline

import (
	"github.com/dd0wney/drugnet/pkg/assemble"
	"github.com/dd0wney/drugnet/pkg/drugs"
	"github.com/dd0wney/drugnet/pkg/estimate"
	"github.com/dd0wney/drugnet/pkg/features"
	"github.com/dd0wney/drugnet/pkg/geo"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/metrics"
	"github.com/dd0wney/drugnet/pkg/network"
	"github.com/dd0wney/drugnet/pkg/period"
	"github.com/dd0wney/drugnet/pkg/seizures"
	"github.com/dd0wney/drugnet/pkg/sink"
	"github.com/dd0wney/drugnet/pkg/sources"
)

// Stage names.
const (
	StageLocations  = "locations"
	StagePurity     = "purity"
	StagePrevalence = "prevalence"
	StagePrice      = "price"
	StageSeizures   = "seizures"
	StageMarkets    = "markets"
	StageNetwork    = "network"
	StageFeatures   = "features"
	StageAssemble   = "assemble"
	StageExport     = "export"
)

// Options configure a pipeline.
type Options struct {
	Period period.Period
	Drugs  []drugs.Category
	// Formats to export; nothing is exported when empty or when Sink is nil.
	Formats []assemble.Format
	// Aggregate also builds the union graph and total table of the period.
	Aggregate bool
	Sink      sink.Sink
	Logger    logging.Logger
	Metrics   *metrics.Registry
}

// Pipeline holds the inputs shared by every drug of a run.
type Pipeline struct {
	bundle *sources.Bundle
	opts   Options
	logger logging.Logger
}

// Result is everything built for one drug.
type Result struct {
	Drug drugs.Category
	// Locations are the countries seen in a seizure role for Drug.
	Locations  *geo.Hierarchy
	Purity     *estimate.Table
	Prevalence *estimate.Table
	Price      *estimate.Table
	Seizures   *seizures.Table
	Markets    *features.Markets
	Features   *features.Set
	Graphs     map[int]*network.Graph
	// Union is the aggregate graph; nil unless Options.Aggregate.
	Union     *network.Graph
	Assembled []*assemble.Graph
	Summary   []network.SummaryRow
	// Artifacts lists the names written to the sink.
	Artifacts []string
}
