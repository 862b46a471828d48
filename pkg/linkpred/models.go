package linkpred

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/dd0wney/drugnet/pkg/assemble"
)

var factories = map[string]Factory{
	ModelHeuristic: NewHeuristicLogReg,
	ModelFeature:   NewFeatureLogReg,
}

// NewModel builds the named model.
func NewModel(name string, g *assemble.Graph, s *Split) (Model, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return f(g, s)
}

// neighbourSets returns the undirected neighbourhood of every node in the
// training graph. Test edges are never visible.
func neighbourSets(s *Split) []map[int]bool {
	sets := make([]map[int]bool, s.Nodes)
	for i := range sets {
		sets[i] = make(map[int]bool)
	}
	for _, p := range s.TrainPos {
		sets[p.U][p.V] = true
		sets[p.V][p.U] = true
	}
	return sets
}

// linkScores returns the common-neighbour count, the Adamic-Adar index and
// the preferential-attachment product of two neighbourhoods.
func linkScores(sets []map[int]bool, a, b map[int]bool) (cn, aa, pa float64) {
	pa = float64(len(a)) * float64(len(b))
	small, big := a, b
	if len(a) > len(b) {
		small, big = b, a
	}
	for id := range small {
		if !big[id] {
			continue
		}
		cn++
		// log(1) = 0 has no finite weight
		if degree := len(sets[id]); degree > 1 {
			aa += 1.0 / math.Log(float64(degree))
		}
	}
	return cn, aa, pa
}

// NewHeuristicLogReg learns a logistic regression over the common
// neighbours, Adamic-Adar and log preferential attachment scores of a pair.
func NewHeuristicLogReg(_ *assemble.Graph, s *Split) (Model, error) {
	sets := neighbourSets(s)
	feature := func(p Pair) []float64 {
		cn, aa, pa := linkScores(sets, sets[p.U], sets[p.V])
		return []float64{cn, aa, math.Log1p(pa)}
	}
	return newPairModel(ModelHeuristic, s, feature), nil
}

// NewFeatureLogReg learns a logistic regression over node features. Feature
// columns are L2-normalised across nodes; a pair is represented by the
// element-wise product and absolute difference of its endpoints.
func NewFeatureLogReg(g *assemble.Graph, s *Split) (Model, error) {
	if len(g.Nodes) != s.Nodes {
		return nil, fmt.Errorf("graph has %d nodes, split has %d", len(g.Nodes), s.Nodes)
	}
	x := normalizeColumns(g)
	d := len(g.FeatureNames)
	feature := func(p Pair) []float64 {
		out := make([]float64, 2*d)
		floats.MulTo(out[:d], x[p.U], x[p.V])
		floats.SubTo(out[d:], x[p.U], x[p.V])
		for j := d; j < 2*d; j++ {
			out[j] = math.Abs(out[j])
		}
		return out
	}
	return newPairModel(ModelFeature, s, feature), nil
}

// normalizeColumns returns the node feature matrix with every column scaled
// to unit L2 norm. All-zero columns are left as they are.
func normalizeColumns(g *assemble.Graph) [][]float64 {
	d := len(g.FeatureNames)
	x := make([][]float64, len(g.Nodes))
	for i, n := range g.Nodes {
		x[i] = make([]float64, d)
		copy(x[i], n.X)
	}
	col := make([]float64, len(x))
	for j := 0; j < d; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		norm := floats.Norm(col, 2)
		if norm == 0 {
			continue
		}
		for i := range x {
			x[i][j] /= norm
		}
	}
	return x
}
