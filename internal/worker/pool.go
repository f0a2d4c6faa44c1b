// Package worker provides a bounded goroutine pool for fanning work out
// against the broker API, such as polling quotes for many symbols.
package worker

import (
	"context"
	"log/slog"
	"sync"
)

// JobResult pairs one input with the outcome of processing it.
type JobResult[I, V any] struct {
	Input I
	Value V
	Error error
}

// Pool runs jobs across a fixed number of goroutines.
type Pool[I, V any] struct {
	size   int
	logger *slog.Logger
}

// NewPool creates a pool of the given size. Size must be at least 1.
func NewPool[I, V any](size int, logger *slog.Logger) *Pool[I, V] {
	if size < 1 {
		size = 1
	}
	return &Pool[I, V]{size: size, logger: logger}
}

// Process consumes inputs and applies fn to each on one of the pool's
// goroutines, emitting a JobResult per input. The results channel closes
// once all inputs are processed or ctx is cancelled. Result order is not
// guaranteed.
func (p *Pool[I, V]) Process(ctx context.Context, inputs <-chan I, fn func(context.Context, I) (V, error)) <-chan JobResult[I, V] {
	results := make(chan JobResult[I, V])
	var wg sync.WaitGroup

	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case input, ok := <-inputs:
					if !ok {
						return
					}
					val, err := fn(ctx, input)
					select {
					case <-ctx.Done():
						return
					case results <- JobResult[I, V]{Input: input, Value: val, Error: err}:
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// Map processes a slice of inputs through the pool and collects all
// results. It is a convenience wrapper over Process for callers that
// have all inputs up front.
func (p *Pool[I, V]) Map(ctx context.Context, inputs []I, fn func(context.Context, I) (V, error)) []JobResult[I, V] {
	in := make(chan I, len(inputs))
	for _, i := range inputs {
		in <- i
	}
	close(in)

	out := make([]JobResult[I, V], 0, len(inputs))
	for res := range p.Process(ctx, in, fn) {
		out = append(out, res)
	}
	return out
}
