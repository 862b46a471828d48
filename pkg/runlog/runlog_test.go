package runlog

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cocaineGAE = Key{Drug: "Cocaine", Period: "2010", Model: "GAE"}
	cocaineLR  = Key{Drug: "Cocaine", Period: "2010", Model: "FeatureLogReg"}
	heroinAgg  = Key{Drug: "Heroin", Period: "aggregate", Model: "GAE"}
)

func TestAppend(t *testing.T) {
	l := New()
	l.Append(cocaineGAE, 0.9, 0.6, 0.55)
	l.Append(cocaineGAE, 0.7, 0.7, 0.65)

	r, ok := l.Record(cocaineGAE)
	require.True(t, ok)
	assert.Equal(t, 2, r.Epochs())
	assert.Equal(t, []float64{0.9, 0.7}, r.Train.Loss)
	assert.Equal(t, []float64{0.6, 0.7}, r.Test.AUC)
	assert.Equal(t, []float64{0.55, 0.65}, r.Test.AP)

	_, ok = l.Record(heroinAgg)
	assert.False(t, ok)
}

func TestAppend_Concurrent(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Append(cocaineGAE, 1, 0.5, 0.5)
		}()
	}
	wg.Wait()
	r, _ := l.Record(cocaineGAE)
	assert.Equal(t, 50, r.Epochs())
}

func TestMerge_IncomingWins(t *testing.T) {
	master := New()
	master.Append(cocaineGAE, 1, 0.5, 0.5)
	master.Append(cocaineLR, 2, 0.4, 0.4)

	run := New()
	run.Append(cocaineGAE, 0.1, 0.9, 0.8)
	run.Append(heroinAgg, 0.3, 0.7, 0.7)

	master.Merge(run)
	master.Merge(nil)
	master.Merge(master)

	assert.Equal(t, []Key{cocaineLR, cocaineGAE, heroinAgg}, master.Keys())
	r, _ := master.Record(cocaineGAE)
	assert.Equal(t, []float64{0.1}, r.Train.Loss)
	r, _ = master.Record(cocaineLR)
	assert.Equal(t, []float64{2}, r.Train.Loss, "untouched branches survive")

	// merged records are copies
	run.Append(cocaineGAE, 0.05, 0.95, 0.9)
	r, _ = master.Record(cocaineGAE)
	assert.Equal(t, 1, r.Epochs())
}

func TestJSONShape(t *testing.T) {
	l := New()
	l.Append(heroinAgg, 0.5, 0.6, 0.7)

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Heroin":{"aggregate":{"GAE":{"train":{"loss":[0.5]},"test":{"AUC":[0.6],"AP":[0.7]}}}}}`, string(data))
}

func TestDumpAndRead(t *testing.T) {
	dir := t.TempDir()
	l := New()
	l.Append(cocaineGAE, 0.5, 0.6, 0.7)

	at := time.Date(2026, 10, 17, 14, 3, 59, 0, time.UTC)
	store := &FileStore{Dir: filepath.Join(dir, "logs"), Now: func() time.Time { return at }}
	require.NoError(t, store.Save(context.Background(), l))
	assert.Equal(t, filepath.Join(dir, "logs", "17-10-2026_14:03:59.json"), store.Last)
	require.NoError(t, store.Close())

	f, err := os.Open(store.Last)
	require.NoError(t, err)
	defer f.Close()
	back, err := Read(f)
	require.NoError(t, err)
	assert.Equal(t, l.Keys(), back.Keys())
	r, _ := back.Record(cocaineGAE)
	assert.Equal(t, []float64{0.7}, r.Test.AP)
}

type failingStore struct{ err error }

func (f failingStore) Save(context.Context, *Log) error { return f.err }
func (f failingStore) Close() error                     { return f.err }

func TestMultiStore(t *testing.T) {
	l := New()
	l.Append(cocaineLR, 0.69, 0.5, 0.5)
	file := &FileStore{Dir: t.TempDir()}
	boom := errors.New("connection refused")

	m := MultiStore{failingStore{boom}, file}
	err := m.Save(context.Background(), l)
	assert.ErrorIs(t, err, boom)
	assert.NotEmpty(t, file.Last, "later stores still run")
	assert.ErrorIs(t, m.Close(), boom)

	assert.NoError(t, MultiStore{file}.Save(context.Background(), l))
}

func TestPGStore(t *testing.T) {
	dsn := os.Getenv("DRUGNET_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("DRUGNET_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	store, err := NewPGStore(ctx, dsn)
	require.NoError(t, err)
	defer store.Close()

	l := New()
	l.Append(cocaineGAE, 0.5, 0.61, 0.7)
	l.Append(cocaineGAE, 0.4, 0.72, 0.7)
	require.NoError(t, store.Save(ctx, l))
	require.NoError(t, store.Save(ctx, l), "saving twice replaces the run")

	best, err := store.BestAUC(ctx, cocaineGAE)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, best, 0.72)
}
