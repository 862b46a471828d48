package network

import (
	"sort"

	"github.com/dd0wney/drugnet/pkg/drugs"
)

// Union merges the yearly graphs into one period graph. Its edge set is the
// union of the yearly edge sets; weights are summed across years, relative
// weights recomputed and producer flags OR-ed.
func Union(drug drugs.Category, label string, graphs map[int]*Graph) *Graph {
	years := make([]int, 0, len(graphs))
	for y := range graphs {
		years = append(years, y)
	}
	sort.Ints(years)

	out := NewGraph(drug, label)
	for _, y := range years {
		g := graphs[y]
		for _, n := range g.Nodes() {
			dst := out.AddNode(n.Country)
			dst.Producer = dst.Producer || n.Producer
		}
		for _, e := range g.Edges() {
			out.AddWeight(e.From, e.To, e.Weight)
		}
	}
	ComputeRelativeWeights(out)
	return out
}

// Summary reports the size of each yearly graph in year order.
func Summary(graphs map[int]*Graph) []SummaryRow {
	years := make([]int, 0, len(graphs))
	for y := range graphs {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]SummaryRow, 0, len(years))
	for _, y := range years {
		g := graphs[y]
		out = append(out, SummaryRow{Label: g.Label, Countries: g.NodeCount(), Connections: g.EdgeCount()})
	}
	return out
}
