// Package graphql serves assembled trafficking graphs over a read-only
// GraphQL endpoint.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/dd0wney/drugnet/pkg/assemble"
	"github.com/dd0wney/drugnet/pkg/validation"
)

// nodeView pairs a node with the feature names of its graph.
type nodeView struct {
	node  assemble.Node
	names []string
}

// feature is one named entry of a node's feature vector.
type feature struct {
	name  string
	value float64
}

// field builds a field that resolves from a source of type T.
func field[T any](t graphql.Output, get func(T) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			src, ok := p.Source.(T)
			if !ok {
				return nil, nil
			}
			return get(src), nil
		},
	}
}

// NewSchema builds the query schema over store.
func NewSchema(store Store, limits *LimitConfig) (graphql.Schema, error) {
	if limits == nil {
		limits = DefaultLimitConfig()
	}
	if err := ValidateLimitConfig(limits); err != nil {
		return graphql.Schema{}, err
	}

	featureType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Feature",
		Fields: graphql.Fields{
			"name":  field(graphql.NewNonNull(graphql.String), func(f feature) any { return f.name }),
			"value": field(graphql.NewNonNull(graphql.Float), func(f feature) any { return f.value }),
		},
	})

	nodeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.Fields{
			"country":   field(graphql.NewNonNull(graphql.String), func(n nodeView) any { return n.node.Country }),
			"subRegion": field(graphql.String, func(n nodeView) any { return n.node.SubRegion }),
			"region":    field(graphql.String, func(n nodeView) any { return n.node.Region }),
			"producer":  field(graphql.NewNonNull(graphql.Boolean), func(n nodeView) any { return n.node.Producer }),
			"market":    field(graphql.NewNonNull(graphql.Float), func(n nodeView) any { return n.node.Market }),
			"features": field(graphql.NewList(featureType), func(n nodeView) any {
				out := make([]feature, 0, len(n.names))
				for i, name := range n.names {
					if i < len(n.node.X) {
						out = append(out, feature{name: name, value: n.node.X[i]})
					}
				}
				return out
			}),
		},
	})

	edgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Edge",
		Fields: graphql.Fields{
			"from":           field(graphql.NewNonNull(graphql.String), func(e assemble.Edge) any { return e.From }),
			"to":             field(graphql.NewNonNull(graphql.String), func(e assemble.Edge) any { return e.To }),
			"weight":         field(graphql.NewNonNull(graphql.Float), func(e assemble.Edge) any { return e.Weight }),
			"relativeWeight": field(graphql.NewNonNull(graphql.Float), func(e assemble.Edge) any { return e.RelativeWeight }),
		},
	})

	graphType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Graph",
		Fields: graphql.Fields{
			"drug":         field(graphql.NewNonNull(graphql.String), func(g *assemble.Graph) any { return g.Drug }),
			"label":        field(graphql.NewNonNull(graphql.String), func(g *assemble.Graph) any { return g.Label }),
			"period":       field(graphql.NewNonNull(graphql.String), func(g *assemble.Graph) any { return g.Period }),
			"featureNames": field(graphql.NewList(graphql.String), func(g *assemble.Graph) any { return g.FeatureNames }),
			"nodeCount":    field(graphql.NewNonNull(graphql.Int), func(g *assemble.Graph) any { return len(g.Nodes) }),
			"edgeCount":    field(graphql.NewNonNull(graphql.Int), func(g *assemble.Graph) any { return len(g.Edges) }),
			"nodes": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Args: graphql.FieldConfigArgument{
					"region":   &graphql.ArgumentConfig{Type: graphql.String},
					"producer": &graphql.ArgumentConfig{Type: graphql.Boolean},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, ok := p.Source.(*assemble.Graph)
					if !ok {
						return nil, nil
					}
					region, byRegion := p.Args["region"].(string)
					producer, byProducer := p.Args["producer"].(bool)
					limit := limitArg(p.Args, limits)
					out := []nodeView{}
					for _, n := range g.Nodes {
						if len(out) >= limit {
							break
						}
						if byRegion && n.Region != region {
							continue
						}
						if byProducer && n.Producer != producer {
							continue
						}
						out = append(out, nodeView{node: n, names: g.FeatureNames})
					}
					return out, nil
				},
			},
			"edges": &graphql.Field{
				Type: graphql.NewList(edgeType),
				Args: graphql.FieldConfigArgument{
					"from":      &graphql.ArgumentConfig{Type: graphql.String},
					"to":        &graphql.ArgumentConfig{Type: graphql.String},
					"minWeight": &graphql.ArgumentConfig{Type: graphql.Float},
					"limit":     &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, ok := p.Source.(*assemble.Graph)
					if !ok {
						return nil, nil
					}
					from, byFrom := p.Args["from"].(string)
					to, byTo := p.Args["to"].(string)
					minWeight, _ := p.Args["minWeight"].(float64)
					limit := limitArg(p.Args, limits)
					out := []assemble.Edge{}
					for _, e := range g.Edges {
						if len(out) >= limit {
							break
						}
						if (byFrom && e.From != from) || (byTo && e.To != to) || e.Weight < minWeight {
							continue
						}
						out = append(out, e)
					}
					return out, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"drugs": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return store.Drugs(), nil
				},
			},
			"periods": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Args: graphql.FieldConfigArgument{
					"drug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					drug, _ := p.Args["drug"].(string)
					return store.Periods(drug), nil
				},
			},
			"graph": &graphql.Field{
				Type: graphType,
				Args: graphql.FieldConfigArgument{
					"drug":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"period": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					req := &validation.GraphRequest{}
					req.Drug, _ = p.Args["drug"].(string)
					req.Period, _ = p.Args["period"].(string)
					if err := validation.ValidateGraphRequest(req); err != nil {
						return nil, err
					}
					return store.Graph(req.Drug, req.Period)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}
