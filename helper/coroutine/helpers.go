package coroutine

import (
	"context"
)

// ExecuteWithoutResult 并发执行一组只返回错误的工作函数，错误顺序与输入一致
func ExecuteWithoutResult(ctx context.Context, maxWorkers int, works []func() error) []error {
	if len(works) == 0 {
		return []error{}
	}

	typedWorks := make([]WorkFunc[struct{}], len(works))
	for i, work := range works {
		typedWorks[i] = func() (struct{}, error) {
			return struct{}{}, work()
		}
	}

	results := NewCoroutinePool[struct{}](maxWorkers).Execute(ctx, typedWorks)

	errs := make([]error, len(results))
	for i, result := range results {
		errs[i] = result.Err
	}
	return errs
}

// Map 并发地对每个元素执行 mapFunc，结果顺序与输入一致
func Map[T, R any](ctx context.Context, maxWorkers int, items []T, mapFunc func(T) (R, error)) []Result[R] {
	works := make([]WorkFunc[R], len(items))
	for i, item := range items {
		works[i] = func() (R, error) {
			return mapFunc(item)
		}
	}
	return NewCoroutinePool[R](maxWorkers).Execute(ctx, works)
}

// Each 并发地对每个元素执行 eachFunc
func Each[T any](ctx context.Context, maxWorkers int, items []T, eachFunc func(T) error) []error {
	works := make([]func() error, len(items))
	for i, item := range items {
		works[i] = func() error {
			return eachFunc(item)
		}
	}
	return ExecuteWithoutResult(ctx, maxWorkers, works)
}
