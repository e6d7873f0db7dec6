package coroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteKeepsOrder(t *testing.T) {
	pool := NewCoroutinePool[int](2)
	works := make([]WorkFunc[int], 5)
	for i := range works {
		n := i
		works[i] = func() (int, error) {
			time.Sleep(time.Duration(5-n) * time.Millisecond)
			return n * n, nil
		}
	}

	results := pool.Execute(context.Background(), works)
	require.Len(t, results, 5)
	for i, r := range results {
		assert.NoError(t, r.Err)
		assert.Equal(t, i*i, r.Value)
	}
}

func TestExecuteRespectsMaxWorkers(t *testing.T) {
	var running, peak atomic.Int32
	works := make([]func() error, 8)
	for i := range works {
		works[i] = func() error {
			cur := running.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			running.Add(-1)
			return nil
		}
	}

	errs := ExecuteWithoutResult(context.Background(), 3, works)
	assert.Len(t, errs, 8)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestExecuteCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	errs := ExecuteWithoutResult(ctx, 1, []func() error{func() error {
		called = true
		return nil
	}})

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
	assert.False(t, called)
}

func TestEachAndMap(t *testing.T) {
	boom := errors.New("boom")
	errs := Each(context.Background(), 0, []string{"a", "b"}, func(s string) error {
		if s == "b" {
			return boom
		}
		return nil
	})
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], boom)

	results := Map(context.Background(), 0, []int{1, 2, 3}, func(n int) (string, error) {
		return string(rune('a' + n - 1)), nil
	})
	assert.Equal(t, "a", results[0].Value)
	assert.Equal(t, "c", results[2].Value)

	assert.Empty(t, ExecuteWithoutResult(context.Background(), 0, nil))
}
