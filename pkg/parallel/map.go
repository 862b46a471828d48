package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPoolClosed is returned for items that could not be submitted.
var ErrPoolClosed = errors.New("worker pool closed")

// Map applies fn to every item on the pool and returns the results and
// errors in item order. Items not yet started when ctx is cancelled fail
// with the context error. A panicking fn fails its own item only.
func Map[T, R any](ctx context.Context, wp *WorkerPool, items []T, fn func(ctx context.Context, i int, item T) (R, error)) ([]R, []error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		ok := wp.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("item %d: panic: %v", i, r)
				}
			}()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = fn(ctx, i, item)
		})
		if !ok {
			errs[i] = ErrPoolClosed
			wg.Done()
		}
	}
	wg.Wait()
	return results, errs
}
