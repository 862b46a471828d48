package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/drugnet/pkg/assemble"
	"github.com/dd0wney/drugnet/pkg/logging"
)

func testGraph(label, span string) *assemble.Graph {
	return &assemble.Graph{
		Drug:         "Cocaine",
		Label:        label,
		Period:       span,
		FeatureNames: []string{"Price(USD)", "Market(kg)"},
		Nodes: []assemble.Node{
			{Country: "Colombia", SubRegion: "South America", Region: "Americas", Producer: true, Market: 0, X: []float64{1500, 0}},
			{Country: "Spain", SubRegion: "Southern Europe", Region: "Europe", Market: 40, X: []float64{60000, 40}},
			{Country: "Italy", SubRegion: "Southern Europe", Region: "Europe", Market: 12, X: []float64{70000, 12}},
		},
		Edges: []assemble.Edge{
			{From: "Colombia", To: "Spain", Weight: 95, RelativeWeight: 1},
			{From: "Spain", To: "Italy", Weight: 5, RelativeWeight: 5.0 / 95},
		},
	}
}

func writeGraph(t *testing.T, dir, name string, g *assemble.Graph, compress bool) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, assemble.WriteJSON(&buf, g))
	data := buf.Bytes()
	if compress {
		data = snappy.Encode(nil, data)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func setupStore(t *testing.T) (*DirStore, string) {
	t.Helper()
	dir := t.TempDir()
	writeGraph(t, dir, "Cocaine_2010.json", testGraph("2010", "2010"), false)
	writeGraph(t, dir, "Cocaine_aggregate_2006_2017.json.sz", testGraph("aggregate", "2006_2017"), true)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cocaine_2010.gml"), []byte("graph [\n]\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	s, err := OpenDir(dir, logging.NewNopLogger())
	require.NoError(t, err)
	return s, dir
}

// post sends a query through the handler and decodes the response.
func post(t *testing.T, h http.Handler, query string, vars map[string]any) GraphQLResponse {
	t.Helper()
	body, err := json.Marshal(GraphQLRequest{Query: query, Variables: vars})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp GraphQLResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func newHandler(t *testing.T, store Store, maxDepth int) *GraphQLHandler {
	t.Helper()
	schema, err := NewSchema(store, nil)
	require.NoError(t, err)
	return NewGraphQLHandler(schema, maxDepth, logging.NewNopLogger())
}

func TestGraphQuery(t *testing.T) {
	store, _ := setupStore(t)
	h := newHandler(t, store, DefaultMaxDepth)

	resp := post(t, h, `query($p: String!) {
		graph(drug: "Cocaine", period: $p) {
			drug label period nodeCount edgeCount
			nodes(region: "Europe") { country market features { name value } }
			edges { from to weight relativeWeight }
		}
	}`, map[string]any{"p": "2010"})
	require.Empty(t, resp.Errors)

	var data struct {
		Graph struct {
			Drug, Label, Period  string
			NodeCount, EdgeCount int
			Nodes                []struct {
				Country  string
				Market   float64
				Features []struct {
					Name  string
					Value float64
				}
			}
			Edges []struct {
				From, To               string
				Weight, RelativeWeight float64
			}
		}
	}
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &data))

	g := data.Graph
	assert.Equal(t, "Cocaine", g.Drug)
	assert.Equal(t, "2010", g.Label)
	assert.Equal(t, 3, g.NodeCount)
	assert.Equal(t, 2, g.EdgeCount)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "Spain", g.Nodes[0].Country)
	require.Len(t, g.Nodes[0].Features, 2)
	assert.Equal(t, "Market(kg)", g.Nodes[0].Features[1].Name)
	assert.Equal(t, 40.0, g.Nodes[0].Features[1].Value)
	require.Len(t, g.Edges, 2)
	assert.Equal(t, 95.0, g.Edges[0].Weight)
}

func TestGraphQuery_Aggregate(t *testing.T) {
	store, _ := setupStore(t)
	h := newHandler(t, store, DefaultMaxDepth)

	for _, label := range []string{"aggregate", "2006_2017"} {
		resp := post(t, h, `query($p: String!) { graph(drug: "Cocaine", period: $p) { label period } }`, map[string]any{"p": label})
		require.Empty(t, resp.Errors, label)
		graph := resp.Data.(map[string]any)["graph"].(map[string]any)
		assert.Equal(t, "aggregate", graph["label"])
		assert.Equal(t, "2006_2017", graph["period"])
	}
}

func TestEdgeArguments(t *testing.T) {
	store, _ := setupStore(t)
	h := newHandler(t, store, DefaultMaxDepth)

	tests := []struct {
		name  string
		args  string
		count int
	}{
		{"all", ``, 2},
		{"limit", `(limit: 1)`, 1},
		{"zero limit", `(limit: 0)`, 0},
		{"min weight", `(minWeight: 10)`, 1},
		{"from", `(from: "Spain")`, 1},
		{"to nowhere", `(to: "Peru")`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, h, `{ graph(drug: "Cocaine", period: "2010") { edges`+tt.args+` { from } } }`, nil)
			require.Empty(t, resp.Errors)
			edges := resp.Data.(map[string]any)["graph"].(map[string]any)["edges"].([]any)
			assert.Len(t, edges, tt.count)
		})
	}
}

func TestCatalogQueries(t *testing.T) {
	store, _ := setupStore(t)
	h := newHandler(t, store, DefaultMaxDepth)

	resp := post(t, h, `{ drugs periods(drug: "Cocaine") }`, nil)
	require.Empty(t, resp.Errors)
	data := resp.Data.(map[string]any)
	assert.Equal(t, []any{"Cocaine"}, data["drugs"])
	assert.Equal(t, []any{"2010", "2006_2017"}, data["periods"])
}

func TestGraphQuery_Errors(t *testing.T) {
	store, _ := setupStore(t)
	h := newHandler(t, store, DefaultMaxDepth)

	tests := []struct {
		name, query, want string
	}{
		{"not exported", `{ graph(drug: "Heroin", period: "2010") { drug } }`, "graph not found"},
		{"unknown drug", `{ graph(drug: "Tea", period: "2010") { drug } }`, "Drug"},
		{"bad period", `{ graph(drug: "Cocaine", period: "last year") { drug } }`, "period"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, h, tt.query, nil)
			require.NotEmpty(t, resp.Errors)
			assert.Contains(t, resp.Errors[0].Message, tt.want)
		})
	}
}

func TestDepthLimit(t *testing.T) {
	store, _ := setupStore(t)
	h := newHandler(t, store, 2)

	resp := post(t, h, `{ graph(drug: "Cocaine", period: "2010") { nodes { features { name } } } }`, nil)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Message, "exceeds maximum allowed depth")

	resp = post(t, h, `{ graph(drug: "Cocaine", period: "2010") { drug nodeCount } }`, nil)
	assert.Empty(t, resp.Errors)
}

func TestValidateQueryDepth(t *testing.T) {
	assert.NoError(t, ValidateQueryDepth(`{ drugs }`, 1))
	assert.NoError(t, ValidateQueryDepth(`{ __schema { types { name } } }`, 1))
	assert.Error(t, ValidateQueryDepth(`{ graph(drug: "Cocaine", period: "2010") { edges { from } } }`, 2))
	assert.Error(t, ValidateQueryDepth(`{ graph(`, 5))
}

func TestHandler_Methods(t *testing.T) {
	store, _ := setupStore(t)
	h := newHandler(t, store, DefaultMaxDepth)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/graphql", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/graphql", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDirStore_Reload(t *testing.T) {
	store, dir := setupStore(t)

	g1, err := store.Graph("Cocaine", "2010")
	require.NoError(t, err)
	g2, err := store.Graph("Cocaine", "2010")
	require.NoError(t, err)
	assert.Same(t, g1, g2, "cached")

	_, err = store.Graph("Cocaine", "2011")
	assert.ErrorIs(t, err, ErrNotFound)
	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	writeGraph(t, dir, "Cocaine_2011.json", testGraph("2011", "2011"), false)
	require.NoError(t, store.Reload())
	_, err = store.Graph("Cocaine", "2011")
	assert.NoError(t, err)
	assert.Equal(t, []string{"2010", "2011", "2006_2017"}, store.Periods("Cocaine"))
}

func TestLimits(t *testing.T) {
	cfg := &LimitConfig{DefaultLimit: 10, MaxLimit: 100}
	require.NoError(t, ValidateLimitConfig(cfg))
	assert.Equal(t, 10, applyLimit(-1, cfg))
	assert.Equal(t, 0, applyLimit(0, cfg))
	assert.Equal(t, 50, applyLimit(50, cfg))
	assert.Equal(t, 100, applyLimit(500, cfg))
	assert.Equal(t, 10, limitArg(map[string]any{}, cfg))

	assert.Error(t, ValidateLimitConfig(&LimitConfig{DefaultLimit: 10, MaxLimit: 5}))
	assert.Error(t, ValidateLimitConfig(&LimitConfig{DefaultLimit: 0, MaxLimit: 5}))
	assert.Error(t, ValidateLimitConfig(nil))

	_, err := NewSchema(nil, &LimitConfig{DefaultLimit: 1, MaxLimit: 0})
	assert.Error(t, err)
}

func TestExecuteWithDepthLimit_Context(t *testing.T) {
	store, _ := setupStore(t)
	schema, err := NewSchema(store, nil)
	require.NoError(t, err)
	res := ExecuteWithDepthLimit(context.Background(), schema, `{ drugs }`, 0, nil)
	assert.False(t, res.HasErrors())
}
