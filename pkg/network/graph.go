package network

import (
	"sort"

	"github.com/dd0wney/drugnet/pkg/drugs"
)

// NewGraph creates an empty graph.
func NewGraph(drug drugs.Category, label string) *Graph {
	return &Graph{
		Drug:  drug,
		Label: label,
		nodes: make(map[string]*Node),
		edges: make(map[edgeKey]*Edge),
		in:    make(map[string][]string),
	}
}

// AddNode registers country if it is not present and returns its node.
func (g *Graph) AddNode(country string) *Node {
	if n, ok := g.nodes[country]; ok {
		return n
	}
	n := &Node{Country: country}
	g.nodes[country] = n
	return n
}

// MarkProducer sets the producer flag. The flag is never cleared.
func (g *Graph) MarkProducer(country string) {
	g.AddNode(country).Producer = true
}

// AddWeight accumulates w on the edge from -> to, creating both endpoints
// and the edge as needed. Self-loops are ignored.
func (g *Graph) AddWeight(from, to string, w float64) {
	if from == to {
		return
	}
	g.AddNode(from)
	g.AddNode(to)
	k := edgeKey{from: from, to: to}
	if e, ok := g.edges[k]; ok {
		e.Weight += w
		return
	}
	g.edges[k] = &Edge{From: from, To: to, Weight: w}
	g.in[to] = append(g.in[to], from)
}

// Node returns the node for country.
func (g *Graph) Node(country string) (*Node, bool) {
	n, ok := g.nodes[country]
	return n, ok
}

// Edge returns the edge from -> to.
func (g *Graph) Edge(from, to string) (*Edge, bool) {
	e, ok := g.edges[edgeKey{from: from, to: to}]
	return e, ok
}

// HasEdge reports whether from -> to exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edges[edgeKey{from: from, to: to}]
	return ok
}

// Countries lists node names in sorted order.
func (g *Graph) Countries() []string {
	out := make([]string, 0, len(g.nodes))
	for c := range g.nodes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Nodes returns the nodes sorted by country.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, c := range g.Countries() {
		out = append(out, g.nodes[c])
	}
	return out
}

// Edges returns the edges sorted by (From, To).
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// InWeight is the total weight entering country.
func (g *Graph) InWeight(country string) float64 {
	var sum float64
	for _, from := range g.in[country] {
		sum += g.edges[edgeKey{from: from, to: country}].Weight
	}
	return sum
}

// NodeCount is the number of countries.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount is the number of directed edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}
