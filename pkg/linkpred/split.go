package linkpred

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/dd0wney/drugnet/pkg/assemble"
)

// NewSplit holds out a testRatio share of g's edges for testing and samples
// as many non-edges as there are positives in each set. The split is
// deterministic for a given seed.
func NewSplit(g *assemble.Graph, testRatio float64, seed uint64) (*Split, error) {
	index := g.Index()
	n := len(g.Nodes)

	existing := make(map[Pair]bool, len(g.Edges))
	var pos []Pair
	for _, e := range g.Edges {
		u, ok := index[e.From]
		if !ok {
			return nil, fmt.Errorf("edge %s -> %s: unknown node %s", e.From, e.To, e.From)
		}
		v, ok := index[e.To]
		if !ok {
			return nil, fmt.Errorf("edge %s -> %s: unknown node %s", e.From, e.To, e.To)
		}
		p := Pair{u, v}
		if u == v || existing[p] {
			continue
		}
		existing[p] = true
		pos = append(pos, p)
	}
	if len(pos) < 2 {
		return nil, fmt.Errorf("%w: %d", ErrTooFewEdges, len(pos))
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(pos), func(i, j int) { pos[i], pos[j] = pos[j], pos[i] })

	nTest := int(math.Round(testRatio * float64(len(pos))))
	nTest = max(1, min(nTest, len(pos)-1))

	s := &Split{
		Nodes:    n,
		TestPos:  pos[:nTest],
		TrainPos: pos[nTest:],
	}

	var candidates []Pair
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			if u != v && !existing[Pair{u, v}] {
				candidates = append(candidates, Pair{u, v})
			}
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoNegatives
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	nTrain := min(len(s.TrainPos), len(candidates))
	s.TrainNeg = candidates[:nTrain]
	rest := candidates[nTrain:]
	s.TestNeg = rest[:min(len(s.TestPos), len(rest))]
	if len(s.TestNeg) == 0 {
		return nil, ErrNoNegatives
	}
	return s, nil
}

// trainSet returns the labelled training pairs, positives first.
func (s *Split) trainSet() ([]Pair, []float64) {
	return labelled(s.TrainPos, s.TrainNeg)
}

// testSet returns the labelled test pairs, positives first.
func (s *Split) testSet() ([]Pair, []float64) {
	return labelled(s.TestPos, s.TestNeg)
}

func labelled(pos, neg []Pair) ([]Pair, []float64) {
	pairs := make([]Pair, 0, len(pos)+len(neg))
	labels := make([]float64, 0, len(pos)+len(neg))
	for _, p := range pos {
		pairs = append(pairs, p)
		labels = append(labels, 1)
	}
	for _, p := range neg {
		pairs = append(pairs, p)
		labels = append(labels, 0)
	}
	return pairs, labels
}
