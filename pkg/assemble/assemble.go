package assemble

import (
	"fmt"
	"sort"

	"github.com/dd0wney/drugnet/pkg/features"
	"github.com/dd0wney/drugnet/pkg/network"
	"github.com/dd0wney/drugnet/pkg/period"
)

const (
	subRegionPrefix = "Sub_Region_"
	regionPrefix    = "Region_"
)

// Assemble builds the feature graph for one table and network. Nodes are
// the countries of the feature table; edges come from g and must join two
// of them. Null features become 0 in X and are left out of Values.
func Assemble(g *network.Graph, t *features.Table, p period.Period) (*Graph, error) {
	if g == nil || t == nil {
		return nil, fmt.Errorf("assemble: graph and table are required")
	}
	subRegions, regions := categories(t.Rows())
	names := FeatureNames(subRegions, regions)

	out := &Graph{
		Drug:         string(g.Drug),
		Label:        g.Label,
		Period:       p.String(),
		FeatureNames: names,
		Nodes:        make([]Node, 0, t.Len()),
	}
	present := make(map[string]bool, t.Len())
	for _, r := range t.Rows() {
		n := Node{
			Country:   r.Country,
			SubRegion: r.SubRegion,
			Region:    r.Region,
			X:         vector(r, subRegions, regions),
		}
		if len(r.Values) > 0 {
			n.Values = make(map[string]float64, len(r.Values))
			for k, v := range r.Values {
				n.Values[k] = v
			}
		}
		if m, ok := r.Value(features.ColMarket); ok {
			n.Market = m
		}
		if gn, ok := g.Node(r.Country); ok {
			n.Producer = gn.Producer
			if gn.HasMarket {
				n.Market = gn.Market
			}
		}
		out.Nodes = append(out.Nodes, n)
		present[r.Country] = true
	}

	for _, e := range g.Edges() {
		if !present[e.From] || !present[e.To] {
			return nil, fmt.Errorf("assemble %s %s: edge %s -> %s leaves the feature table",
				g.Drug, g.Label, e.From, e.To)
		}
		out.Edges = append(out.Edges, Edge{From: e.From, To: e.To, Weight: e.Weight, RelativeWeight: e.RelativeWeight})
	}
	return out, nil
}

// FeatureNames lists the entries of X: the numeric columns followed by the
// one-hot sub-region and region indicators.
func FeatureNames(subRegions, regions []string) []string {
	names := append([]string(nil), features.ValueColumns...)
	for _, s := range subRegions {
		names = append(names, subRegionPrefix+s)
	}
	for _, r := range regions {
		names = append(names, regionPrefix+r)
	}
	return names
}

func categories(rows []features.Row) (subRegions, regions []string) {
	sr := make(map[string]struct{})
	rg := make(map[string]struct{})
	for _, r := range rows {
		sr[r.SubRegion] = struct{}{}
		rg[r.Region] = struct{}{}
	}
	return sortedKeys(sr), sortedKeys(rg)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func vector(r features.Row, subRegions, regions []string) []float64 {
	x := make([]float64, 0, len(features.ValueColumns)+len(subRegions)+len(regions))
	for _, col := range features.ValueColumns {
		v, _ := r.Value(col)
		x = append(x, v)
	}
	for _, s := range subRegions {
		x = append(x, indicator(r.SubRegion == s))
	}
	for _, rg := range regions {
		x = append(x, indicator(r.Region == rg))
	}
	return x
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Index returns the position of every node by country.
func (g *Graph) Index() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.Country] = i
	}
	return idx
}

// IsAggregate reports whether g is a period union graph.
func (g *Graph) IsAggregate() bool {
	return g.Label == network.AggregateLabel
}

// RunPeriod names the span g covers: its year, or the period of an
// aggregate graph, so aggregates over different periods stay distinct.
func (g *Graph) RunPeriod() string {
	if g.IsAggregate() && g.Period != "" {
		return g.Period
	}
	return g.Label
}
