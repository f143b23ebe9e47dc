package service

import (
	"context"
	"sync"
)

// forEachBatch runs fn over items in fixed-size chunks, processing one
// chunk concurrently and waiting for it to finish before starting the
// next. This bounds concurrent load on the database and upstream rate
// limits while still parallelizing network-bound work. Results land in
// the returned slice aligned with the input, so callers keep upstream
// ordering regardless of goroutine scheduling.
func forEachBatch[T, R any](ctx context.Context, items []T, size int, fn func(ctx context.Context, item T) R) []R {
	if size <= 0 {
		size = 1
	}

	results := make([]R, len(items))
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = fn(ctx, items[i])
			}(i)
		}
		wg.Wait()
	}
	return results
}
