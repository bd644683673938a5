package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Job pairs one input with its outcome after the pool has run.
type Job[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// WorkFunc processes a single input.
type WorkFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool fans inputs out over a fixed number of goroutines. Document files are
// independent of each other, so the pool imposes no ordering beyond keeping
// each result at its input's index.
type Pool[T any, R any] struct {
	workers int
	work    WorkFunc[T, R]
}

// NewPool creates a pool with the given concurrency.
func NewPool[T any, R any](workers int, fn WorkFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{workers: workers, work: fn}
}

// Run processes all inputs and returns one Job per input, index-aligned.
// Cancelling the context stops dispatch; in-flight work finishes.
func (p *Pool[T, R]) Run(ctx context.Context, inputs []T) []Job[T, R] {
	jobs := make([]Job[T, R], len(inputs))
	indexes := make(chan int)

	var wg sync.WaitGroup
	wg.Add(p.workers)
	for w := 0; w < p.workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range indexes {
				result, err := p.work(ctx, inputs[idx])
				jobs[idx] = Job[T, R]{Input: inputs[idx], Result: result, Err: err}
				if err != nil {
					log.Error().Err(err).Int("index", idx).Msg("Job failed")
				}
			}
		}()
	}

dispatch:
	for i := range inputs {
		select {
		case <-ctx.Done():
			break dispatch
		case indexes <- i:
		}
	}
	close(indexes)

	wg.Wait()
	return jobs
}
