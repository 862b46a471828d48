package network

import (
	"fmt"
	"strconv"

	"github.com/dd0wney/drugnet/pkg/drugs"
	"github.com/dd0wney/drugnet/pkg/geo"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/period"
	"github.com/dd0wney/drugnet/pkg/sources"
	"github.com/dd0wney/drugnet/pkg/units"
)

const stage = "network"

// Build constructs the graph of drug for year from scratch. Records without
// a usable country of seizure, and records converting to zero kilograms,
// are skipped. Amounts are multiplied by the seizure country's purity; a nil
// purity leaves them unadjusted.
func Build(records []sources.Seizure, drug drugs.Category, year int, purity Purity, opts Options) (*Graph, error) {
	logger := logging.OrDefault(opts.Logger).With(logging.Stage(stage), logging.Drug(string(drug)), logging.Year(year))
	g := NewGraph(drug, strconv.Itoa(year))

	for _, r := range records {
		if r.Year != year || !drug.Includes(r.DrugName) {
			continue
		}
		if geo.Absent(r.CountryOfSeizure) {
			skip(opts, "absent_seizure_country")
			continue
		}
		seized := r.CountryOfSeizure

		kg, err := units.Convert(drug, r.Amount, r.DrugName, r.DrugUnit)
		if err != nil {
			return nil, fmt.Errorf("%s %d seizure in %s: %w", drug, year, seized, err)
		}
		if kg <= 0 {
			skip(opts, "non_positive_amount")
			continue
		}
		if purity != nil {
			adj, err := purity.Value(seized, year)
			if err != nil {
				return nil, fmt.Errorf("%s %d purity of %s: %w", drug, year, seized, err)
			}
			kg *= adj
		}

		g.AddNode(seized)
		if !geo.Absent(r.Producing) {
			g.MarkProducer(r.Producing)
		}
		if !geo.Absent(r.Departure) {
			g.AddNode(r.Departure)
			g.AddWeight(r.Departure, seized, kg)
		}
		if !geo.Absent(r.Destination) {
			g.AddNode(r.Destination)
			g.AddWeight(seized, r.Destination, kg)
		}
	}

	ComputeRelativeWeights(g)
	if opts.Markets != nil {
		AttachMarkets(g, year, opts.Markets)
	}
	if opts.Metrics != nil {
		opts.Metrics.SetGraphSize(string(drug), g.Label, g.NodeCount(), g.EdgeCount())
	}
	logger.Debug("graph built", logging.Int("nodes", g.NodeCount()), logging.Int("edges", g.EdgeCount()))
	return g, nil
}

func skip(opts Options, reason string) {
	if opts.Metrics != nil {
		opts.Metrics.RecordSkipped(stage, reason)
	}
}

// BuildAll builds one graph per year of p.
func BuildAll(records []sources.Seizure, drug drugs.Category, p period.Period, purity Purity, opts Options) (map[int]*Graph, error) {
	timer := logging.StartTimer(logging.OrDefault(opts.Logger), "building networks",
		logging.Stage(stage), logging.Drug(string(drug)), logging.Period(p.String()))
	out := make(map[int]*Graph, p.Len())
	for _, y := range p.Years() {
		g, err := Build(records, drug, y, purity, opts)
		if err != nil {
			timer.EndError(err)
			return nil, err
		}
		out[y] = g
	}
	timer.End(logging.Count(len(out)))
	return out, nil
}

// ComputeRelativeWeights sets every edge's RelativeWeight to its share of
// the weight entering its destination.
func ComputeRelativeWeights(g *Graph) {
	inbound := make(map[string]float64)
	for _, e := range g.edges {
		if _, ok := inbound[e.To]; !ok {
			inbound[e.To] = g.InWeight(e.To)
		}
	}
	for _, e := range g.edges {
		if total := inbound[e.To]; total > 0 {
			e.RelativeWeight = e.Weight / total
		} else {
			e.RelativeWeight = 0
		}
	}
}

// AttachMarkets copies each country's market value for year onto its node.
// Countries the lookup does not know keep HasMarket false.
func AttachMarkets(g *Graph, year int, m Markets) {
	for _, n := range g.nodes {
		if v, ok := m.Market(n.Country, year); ok {
			n.Market = v
			n.HasMarket = true
		}
	}
}
