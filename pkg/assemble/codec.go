package assemble

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dd0wney/drugnet/pkg/features"
)

// WriteJSON encodes g as indented JSON.
func WriteJSON(w io.Writer, g *Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}

// ReadJSON decodes a graph written by WriteJSON.
func ReadJSON(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	for _, n := range g.Nodes {
		if len(n.X) != len(g.FeatureNames) {
			return nil, fmt.Errorf("decode graph: node %s has %d features, want %d",
				n.Country, len(n.X), len(g.FeatureNames))
		}
	}
	return &g, nil
}

// WriteNodesCSV writes the feature table in column order. Null values are
// empty cells.
func WriteNodesCSV(w io.Writer, t *features.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(features.Columns); err != nil {
		return err
	}
	for _, r := range t.Rows() {
		rec := make([]string, 0, len(features.Columns))
		rec = append(rec, r.Country, r.SubRegion, r.Region, r.ISO)
		for _, col := range features.ValueColumns {
			if v, ok := r.Value(col); ok {
				rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
			} else {
				rec = append(rec, "")
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEdgesCSV writes one from,to,weight,relative_weight row per edge.
func WriteEdgesCSV(w io.Writer, g *Graph) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"from", "to", "weight", "relative_weight"}); err != nil {
		return err
	}
	for _, e := range g.Edges {
		rec := []string{
			e.From,
			e.To,
			strconv.FormatFloat(e.Weight, 'g', -1, 64),
			strconv.FormatFloat(e.RelativeWeight, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Artifact is one encoded export ready for a sink.
type Artifact struct {
	Name string
	Data []byte
}

// Encode renders g (and, for CSV, its feature table) in format.
func Encode(format Format, g *Graph, t *features.Table) ([]Artifact, error) {
	var buf bytes.Buffer
	switch format {
	case FormatGML:
		if err := WriteGML(&buf, g); err != nil {
			return nil, err
		}
		return []Artifact{{Name: GraphName(g.Drug, g.Label, g.Period, FormatGML), Data: buf.Bytes()}}, nil
	case FormatJSON:
		if err := WriteJSON(&buf, g); err != nil {
			return nil, err
		}
		return []Artifact{{Name: GraphName(g.Drug, g.Label, g.Period, FormatJSON), Data: buf.Bytes()}}, nil
	case FormatCSV:
		if err := WriteNodesCSV(&buf, t); err != nil {
			return nil, err
		}
		nodes := Artifact{Name: TableName(g.Drug, "nodes", g.Label, g.Period), Data: append([]byte(nil), buf.Bytes()...)}
		buf.Reset()
		if err := WriteEdgesCSV(&buf, g); err != nil {
			return nil, err
		}
		edges := Artifact{Name: TableName(g.Drug, "edges", g.Label, g.Period), Data: buf.Bytes()}
		return []Artifact{nodes, edges}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
