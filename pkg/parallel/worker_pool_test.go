package parallel

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/drugnet/pkg/logging"
)

func newPool(t *testing.T, workers int) *WorkerPool {
	t.Helper()
	pool, err := NewWorkerPool(workers, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestWorkerPoolSize(t *testing.T) {
	_, err := NewWorkerPool(math.MaxInt, nil)
	assert.ErrorIs(t, err, ErrTooManyWorkers)

	for _, tc := range []struct{ in, want int }{{0, 1}, {-5, 1}, {1, 1}, {16, 16}} {
		assert.Equal(t, tc.want, newPool(t, tc.in).Workers())
	}
}

func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool := newPool(t, 10)

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() { atomic.AddInt64(&counter, 1) })
		}()
	}
	wg.Wait()
	pool.Close()

	assert.Equal(t, int64(100), atomic.LoadInt64(&counter))
	assert.False(t, pool.Submit(func() {}), "closed pool rejects tasks")
}

func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool, err := NewWorkerPool(4, logging.NewNopLogger())
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					pool.Submit(func() { time.Sleep(time.Millisecond) })
				}
			}()
		}
		time.Sleep(time.Millisecond)
		pool.Close()
		wg.Wait()
	}
}

func TestWorkerPoolSurvivesPanics(t *testing.T) {
	pool := newPool(t, 1)
	pool.Submit(func() { panic("boom") })

	done := make(chan struct{})
	pool.Submit(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive a panicking task")
	}
}

func TestMap_PreservesOrder(t *testing.T) {
	pool := newPool(t, 4)
	items := []int{5, 4, 3, 2, 1, 0}

	results, errs := Map(context.Background(), pool, items, func(_ context.Context, i, item int) (int, error) {
		time.Sleep(time.Duration(item) * time.Millisecond)
		return item * 10, nil
	})

	assert.Equal(t, []int{50, 40, 30, 20, 10, 0}, results)
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestMap_PerItemErrors(t *testing.T) {
	pool := newPool(t, 2)
	boom := errors.New("status 404")

	_, errs := Map(context.Background(), pool, []string{"4", "8", "12"}, func(_ context.Context, i int, _ string) (string, error) {
		switch i {
		case 1:
			return "", boom
		case 2:
			panic("bad page")
		}
		return "ok", nil
	})

	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], boom)
	assert.ErrorContains(t, errs[2], "panic")
}

func TestMap_Cancelled(t *testing.T) {
	pool := newPool(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, errs := Map(ctx, pool, []int{1, 2, 3}, func(context.Context, int, int) (int, error) {
		return 0, nil
	})
	for _, err := range errs {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestMap_ClosedPool(t *testing.T) {
	pool, err := NewWorkerPool(1, nil)
	require.NoError(t, err)
	pool.Close()

	_, errs := Map(context.Background(), pool, []int{1}, func(context.Context, int, int) (int, error) {
		return 1, nil
	})
	assert.ErrorIs(t, errs[0], ErrPoolClosed)
}
