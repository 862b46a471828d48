package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/drugnet/pkg/assemble"
	"github.com/dd0wney/drugnet/pkg/config"
	"github.com/dd0wney/drugnet/pkg/runlog"
	"github.com/dd0wney/drugnet/pkg/sink"
)

func TestRun_Commands(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	assert.ErrorIs(t, run(ctx, nil, &out), errUsage)
	assert.ErrorIs(t, run(ctx, []string{"frobnicate"}, &out), errUsage)

	require.NoError(t, run(ctx, []string{"help"}, &out))
	assert.Contains(t, out.String(), "fetch-population")

	out.Reset()
	require.NoError(t, run(ctx, []string{"version"}, &out))
	assert.Equal(t, "drugnet "+version+"\n", out.String())
}

func TestRunBuild_RequiresConfig(t *testing.T) {
	t.Setenv("DRUGNET_CONFIG", "")
	err := run(context.Background(), []string{"build"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, errUsage)
}

func TestRunBest_Validation(t *testing.T) {
	err := run(context.Background(), []string{"best", "-drug", "Cocaine", "-period", "2010"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, err.Error(), "Model")
}

func TestApplyBuildOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Sources.Seizures = "seizures.csv"
	cfg.Sources.Purity = "purity.csv"
	cfg.Sources.Prevalence = "prevalence.csv"
	cfg.Sources.Population = "population.csv"
	cfg.Sources.Production = "production.csv"

	require.NoError(t, applyBuildOverrides(cfg, "Cocaine, Heroin", "2008_2012", "/tmp/out"))
	assert.Equal(t, []string{"Cocaine", "Heroin"}, cfg.Drugs)
	assert.Equal(t, "2008_2012", cfg.Period.String())
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)

	assert.Error(t, applyBuildOverrides(cfg, "Tea", "", ""))
	assert.Error(t, applyBuildOverrides(cfg, "", "2012_2008", ""))
}

func TestOpenSinks(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	cfg.Output.Compress = true

	s, err := openSinks(context.Background(), cfg, nil)
	require.NoError(t, err)
	multi, ok := s.(sink.MultiSink)
	require.True(t, ok)
	require.Len(t, multi, 1)

	require.NoError(t, s.Put(context.Background(), "Cocaine_2010.json", []byte("{}")))
	_, err = os.Stat(filepath.Join(cfg.Output.Dir, "Cocaine_2010.json"+sink.CompressedSuffix))
	assert.NoError(t, err)
}

// ring returns a graph of n countries each linked to its next two neighbours.
func ring(n int) *assemble.Graph {
	g := &assemble.Graph{Drug: "Cocaine", Label: "2010", Period: "2010", FeatureNames: []string{"Market(kg)"}}
	for i := 0; i < n; i++ {
		g.Nodes = append(g.Nodes, assemble.Node{Country: fmt.Sprintf("C%d", i), X: []float64{float64(i)}})
	}
	for i := 0; i < n; i++ {
		for _, d := range []int{1, 2} {
			g.Edges = append(g.Edges, assemble.Edge{From: g.Nodes[i].Country, To: g.Nodes[(i+d)%n].Country, Weight: 1})
		}
	}
	return g
}

func TestRunTrain(t *testing.T) {
	t.Setenv(config.EnvPostgresDSN, "")
	dir := t.TempDir()
	exports := filepath.Join(dir, "exports")
	require.NoError(t, os.MkdirAll(exports, 0o755))

	var buf bytes.Buffer
	require.NoError(t, assemble.WriteJSON(&buf, ring(10)))
	require.NoError(t, os.WriteFile(filepath.Join(exports, "Cocaine_2010.json"), buf.Bytes(), 0o644))

	cfgPath := filepath.Join(dir, "drugnet.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
sources:
  seizures: seizures.csv
  purity: purity.csv
  prevalence: prevalence.csv
  population: population.csv
  production: production.csv
output:
  dir: exports
training:
  log_dir: logs
log_level: error
`), 0o644))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"train", "-config", cfgPath, "-epochs", "3"}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3, "header plus one line per model")
	assert.True(t, strings.HasPrefix(lines[0], "DRUG"))
	assert.Contains(t, out.String(), "heuristic_logreg")

	dumps, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.Len(t, dumps, 1)
	f, err := os.Open(filepath.Join(dir, "logs", dumps[0].Name()))
	require.NoError(t, err)
	defer f.Close()
	l, err := runlog.Read(f)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())
}
