// Package workerpool provides a bounded-concurrency task runner that reports completions as they happen.
package workerpool

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the in-flight cap used by the pipeline stages.
const DefaultConcurrency = 10

// Completion pairs an input item with the outcome of its work call.
// Index is the item's position in the submitted slice.
type Completion[T, R any] struct {
	Index  int
	Item   T
	Result R
	Err    error
}

// WorkFunc performs one unit of work for an item.
type WorkFunc[T, R any] func(ctx context.Context, item T) (R, error)

// PanicError is reported when a work call panics.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("work panicked: %v", e.Value)
}

// Run submits every item and returns a channel of completions in finish order.
// At most maxConcurrency work calls run at once (a non-positive cap runs
// items one at a time). A failing call is reported as a
// Completion with Err set and never stops other items. The channel is closed once
// every item has completed. Run does not enforce timeouts; work must honor ctx.
func Run[T, R any](ctx context.Context, items []T, maxConcurrency int, work WorkFunc[T, R]) <-chan Completion[T, R] {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	out := make(chan Completion[T, R], len(items))

	// Errors are converted to data, so the group never cancels.
	var g errgroup.Group
	g.SetLimit(maxConcurrency)

	go func() {
		defer close(out)
		for i, item := range items {
			g.Go(func() error {
				out <- call(ctx, i, item, work)
				return nil
			})
		}
		_ = g.Wait()
	}()

	return out
}

// Collect drains a completion channel into a slice indexed by submission order.
func Collect[T, R any](completions <-chan Completion[T, R], n int) []Completion[T, R] {
	results := make([]Completion[T, R], n)
	for c := range completions {
		results[c.Index] = c
	}
	return results
}

func call[T, R any](ctx context.Context, index int, item T, work WorkFunc[T, R]) (c Completion[T, R]) {
	c.Index = index
	c.Item = item
	defer func() {
		if r := recover(); r != nil {
			c.Err = &PanicError{Value: r}
		}
	}()
	c.Result, c.Err = work(ctx, item)
	return c
}
