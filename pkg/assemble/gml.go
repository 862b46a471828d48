package assemble

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// WriteGML encodes g as a directed GML graph. Every node carries its label,
// its country as y, its producer flag and market, and one x entry per
// feature; every edge carries weight and relative_weight.
func WriteGML(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	idx := g.Index()

	fmt.Fprintln(bw, "graph [")
	fmt.Fprintln(bw, "  directed 1")
	fmt.Fprintf(bw, "  drug %s\n", gmlString(g.Drug))
	fmt.Fprintf(bw, "  period %s\n", gmlString(g.Period))
	for i, n := range g.Nodes {
		fmt.Fprintln(bw, "  node [")
		fmt.Fprintf(bw, "    id %d\n", i)
		fmt.Fprintf(bw, "    label %s\n", gmlString(n.Country))
		fmt.Fprintf(bw, "    y %s\n", gmlString(n.Country))
		fmt.Fprintf(bw, "    producer %d\n", int(indicator(n.Producer)))
		fmt.Fprintf(bw, "    market %s\n", gmlFloat(n.Market))
		for _, x := range n.X {
			fmt.Fprintf(bw, "    x %s\n", gmlFloat(x))
		}
		fmt.Fprintln(bw, "  ]")
	}
	for _, e := range g.Edges {
		fmt.Fprintln(bw, "  edge [")
		fmt.Fprintf(bw, "    source %d\n", idx[e.From])
		fmt.Fprintf(bw, "    target %d\n", idx[e.To])
		fmt.Fprintf(bw, "    weight %s\n", gmlFloat(e.Weight))
		fmt.Fprintf(bw, "    relative_weight %s\n", gmlFloat(e.RelativeWeight))
		fmt.Fprintln(bw, "  ]")
	}
	fmt.Fprintln(bw, "]")
	return bw.Flush()
}

// gmlString quotes s, escaping quotes, ampersands and non-ASCII runes as
// character references.
func gmlString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString("&quot;")
		case r == '&':
			b.WriteString("&amp;")
		case r > 127:
			fmt.Fprintf(&b, "&#%d;", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func gmlFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NAN"
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
