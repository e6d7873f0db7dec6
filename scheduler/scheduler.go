package scheduler

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sjzsdu/arbor/helper/logger"
)

// Idle 把推迟的工作放进无界队列，由固定数量的后台协程在空闲时依次执行。
// Defer 从不阻塞调用方。
type Idle struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	running int
	closed  bool
	wg      sync.WaitGroup
	logger  *log.Logger
}

// NewIdle 创建并启动空闲调度器，workers 小于 1 时按 1 处理
func NewIdle(workers int) *Idle {
	if workers < 1 {
		workers = 1
	}
	s := &Idle{logger: logger.Named("scheduler")}
	s.cond = sync.NewCond(&s.mu)
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.work()
	}
	return s
}

// Defer 入队，调度器关闭后提交的工作被丢弃
func (s *Idle) Defer(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.queue = append(s.queue, fn)
	s.cond.Broadcast()
}

func (s *Idle) work() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 && s.closed {
			s.mu.Unlock()
			return
		}
		fn := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.running++
		s.mu.Unlock()

		s.run(fn)

		s.mu.Lock()
		s.running--
		s.cond.Broadcast()
		s.mu.Unlock()
	}
}

func (s *Idle) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("deferred task panicked", "panic", r)
		}
	}()
	fn()
}

// Pending 队列中和正在执行的工作数
func (s *Idle) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) + s.running
}

// Flush 等待队列清空，包括执行期间新提交的工作
func (s *Idle) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.mu.Lock()
		for len(s.queue) > 0 || s.running > 0 {
			s.cond.Wait()
		}
		s.mu.Unlock()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		s.cond.Broadcast()
		s.mu.Unlock()
		return ctx.Err()
	}
}

// Close 执行完已经入队的工作后停止所有后台协程
func (s *Idle) Close() {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
	s.wg.Wait()
}

// Manual 只记录推迟的工作，由调用方显式执行，用于测试
type Manual struct {
	mu    sync.Mutex
	queue []func()
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Defer(fn func()) {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

// Pending 尚未执行的工作数
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// RunPending 执行队列直到清空，返回执行的数量
func (m *Manual) RunPending() int {
	count := 0
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return count
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		fn()
		count++
	}
}

// Go 每个工作都立即在新协程中执行
type Go struct{}

func (Go) Defer(fn func()) {
	go fn()
}
