package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_AllItemsComplete(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	completions := Run(context.Background(), items, 3, func(_ context.Context, n int) (int, error) {
		return n * n, nil
	})

	results := Collect(completions, len(items))
	require.Len(t, results, len(items))
	for i, c := range results {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, items[i], c.Item)
		assert.Equal(t, items[i]*items[i], c.Result)
		assert.NoError(t, c.Err)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	completions := Run(context.Background(), []string{}, 4, func(_ context.Context, s string) (string, error) {
		return s, nil
	})

	count := 0
	for range completions {
		count++
	}
	assert.Zero(t, count)
}

func TestRun_RespectsConcurrencyCap(t *testing.T) {
	tests := []struct {
		name  string
		items int
		limit int
	}{
		{"cap two with three items", 3, 2},
		{"cap ten with fifty items", 50, 10},
		{"cap one", 5, 1},
		{"non-positive cap runs serially", 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inFlight, peak atomic.Int32
			items := make([]int, tt.items)

			completions := Run(context.Background(), items, tt.limit, func(_ context.Context, _ int) (struct{}, error) {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				inFlight.Add(-1)
				return struct{}{}, nil
			})
			results := Collect(completions, tt.items)

			limit := int32(max(tt.limit, 1))
			assert.Len(t, results, tt.items)
			assert.LessOrEqual(t, peak.Load(), limit)
			assert.Equal(t, int32(0), inFlight.Load())
		})
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	items := []string{"ok-1", "fail", "ok-2", "panic", "ok-3"}
	boom := errors.New("boom")

	completions := Run(context.Background(), items, 2, func(_ context.Context, s string) (string, error) {
		switch s {
		case "fail":
			return "", boom
		case "panic":
			panic("bad item")
		}
		return "done:" + s, nil
	})
	results := Collect(completions, len(items))

	assert.ErrorIs(t, results[1].Err, boom)

	var panicErr *PanicError
	require.ErrorAs(t, results[3].Err, &panicErr)
	assert.Equal(t, "bad item", panicErr.Value)

	for _, i := range []int{0, 2, 4} {
		assert.NoError(t, results[i].Err)
		assert.Equal(t, "done:"+items[i], results[i].Result)
	}
}

func TestRun_CompletionOrderIsFinishOrder(t *testing.T) {
	delays := []time.Duration{60 * time.Millisecond, 1 * time.Millisecond}

	completions := Run(context.Background(), delays, 2, func(_ context.Context, d time.Duration) (time.Duration, error) {
		time.Sleep(d)
		return d, nil
	})

	first := <-completions
	assert.Equal(t, 1, first.Index)
	second := <-completions
	assert.Equal(t, 0, second.Index)
	_, open := <-completions
	assert.False(t, open)
}

func TestRun_PassesContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	completions := Run(ctx, []int{1, 2}, 2, func(ctx context.Context, _ int) (int, error) {
		return 0, ctx.Err()
	})

	for c := range completions {
		assert.ErrorIs(t, c.Err, context.Canceled)
	}
}
