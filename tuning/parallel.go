package tuning

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/smallnest/lazygraph/graph"
)

// ParallelBatchEval is BatchEval spread over workers goroutines. Each worker
// runs its own clone of g, so g itself is never evaluated. Outputs keep the
// batch order. The first failing item cancels the remaining work.
func ParallelBatchEval(ctx context.Context, g *graph.Graph, batch []any, workers int) ([]any, error) {
	if workers <= 1 || len(batch) <= 1 {
		return BatchEval(g.Clone(), batch)
	}
	workers = min(workers, len(batch))

	items := make(chan int)
	out := make([]any, len(batch))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer close(items)
		for i := range batch {
			select {
			case items <- i:
			case <-egCtx.Done():
				return egCtx.Err()
			}
		}
		return nil
	})

	for range workers {
		worker := g.Clone()
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic in batch worker: %v", r)
				}
			}()
			for i := range items {
				v, err := worker.Run(batch[i])
				if err != nil {
					return fmt.Errorf("batch item %d: %w", i, err)
				}
				out[i] = v
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
