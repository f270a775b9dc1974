package crawl

import (
	"context"
	"sync"
)

// pool runs fn over items with a fixed number of workers and returns once
// every item has been handled or ctx is done.
func pool[T any](ctx context.Context, workers int, items []T, fn func(context.Context, T)) {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan T, workers*2)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				if ctx.Err() != nil {
					continue
				}
				fn(ctx, item)
			}
		}()
	}

feed:
	for _, item := range items {
		select {
		case jobs <- item:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
}
