package parallel

import (
	"context"
	"runtime"
	"sync"
)

// Map applies fn to every element of in across a fixed pool of workers and
// returns the results in input order: out[i] is fn(in[i]). Workers pull
// indices from a shared channel, so the schedule is work-stealing but the
// result placement is positional. The first error cancels the remaining work
// and is returned; results computed before the cancellation are discarded.
//
// workers <= 1 runs the loop sequentially on the calling goroutine, which is
// also the reference order for equivalence checks.
func Map[T, R any](ctx context.Context, workers int, in []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	if len(in) == 0 {
		return out, nil
	}

	if workers <= 1 {
		for i, v := range in {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := fn(ctx, v)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}

	if workers > len(in) {
		workers = len(in)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	indexes := make(chan int)
	errOnce := sync.Once{}
	var firstErr error

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				r, err := fn(ctx, in[i])
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
				out[i] = r
			}
		}()
	}

feed:
	for i := range in {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DefaultWorkers resolves the configured worker count, 0 meaning one worker
// per logical CPU.
func DefaultWorkers(configured int) int {
	if configured > 0 {
		return configured
	}
	return runtime.NumCPU()
}
