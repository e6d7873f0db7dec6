package coroutine

import (
	"context"
	"runtime"
	"sync"
)

// WorkFunc 是协程池执行的工作函数
type WorkFunc[T any] func() (T, error)

// Result 保存单个工作函数的执行结果，顺序与输入一致
type Result[T any] struct {
	Value T
	Err   error
}

// DefaultMaxWorkers 默认的最大协程数
func DefaultMaxWorkers() int {
	n := runtime.NumCPU() * 2
	if n < 4 {
		n = 4
	}
	return n
}

// CoroutinePool 限制同时运行的协程数量
type CoroutinePool[T any] struct {
	maxWorkers int
}

// NewCoroutinePool 创建协程池
func NewCoroutinePool[T any](maxWorkers int) *CoroutinePool[T] {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers()
	}
	return &CoroutinePool[T]{maxWorkers: maxWorkers}
}

// Execute 并发执行所有工作函数并等待全部完成
// 上下文取消后尚未开始的工作直接返回 ctx.Err()
func (p *CoroutinePool[T]) Execute(ctx context.Context, works []WorkFunc[T]) []Result[T] {
	results := make([]Result[T], len(works))
	if len(works) == 0 {
		return results
	}

	sem := make(chan struct{}, p.maxWorkers)
	var wg sync.WaitGroup

	for i, work := range works {
		if err := ctx.Err(); err != nil {
			results[i] = Result[T]{Err: err}
			continue
		}
		select {
		case <-ctx.Done():
			results[i] = Result[T]{Err: ctx.Err()}
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, work WorkFunc[T]) {
			defer wg.Done()
			defer func() { <-sem }()

			value, err := work()
			results[i] = Result[T]{Value: value, Err: err}
		}(i, work)
	}

	wg.Wait()
	return results
}
