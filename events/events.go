package events

import (
	"sync"

	"github.com/sjzsdu/arbor/helper/logger"
)

// Disposable 取消一次订阅，重复调用无副作用
type Disposable interface {
	Dispose()
}

// DisposableFunc 允许普通函数作为 Disposable 使用
type DisposableFunc func()

func (f DisposableFunc) Dispose() { f() }

// Disposables 一次性释放多个订阅
type Disposables []Disposable

func (d Disposables) Dispose() {
	for _, item := range d {
		item.Dispose()
	}
}

type handler[T any] struct {
	id   uint64
	fn   func(T)
	once bool
}

// Bus 某一类事件的订阅表，订阅者按注册顺序被调用
type Bus[T any] struct {
	mu       sync.Mutex
	nextID   uint64
	handlers []handler[T]
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{}
}

// On 注册订阅者
func (b *Bus[T]) On(fn func(T)) Disposable {
	return b.add(fn, false)
}

// Once 注册只触发一次的订阅者
func (b *Bus[T]) Once(fn func(T)) Disposable {
	return b.add(fn, true)
}

func (b *Bus[T]) add(fn func(T), once bool) Disposable {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, handler[T]{id: id, fn: fn, once: once})
	b.mu.Unlock()

	var disposeOnce sync.Once
	return DisposableFunc(func() {
		disposeOnce.Do(func() { b.remove(id) })
	})
}

func (b *Bus[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, h := range b.handlers {
		if h.id == id {
			b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
			return
		}
	}
}

// Trigger 同步通知所有订阅者。订阅者在锁外执行，可以在回调里注册或取消订阅；
// 单个订阅者 panic 不影响其他订阅者。
func (b *Bus[T]) Trigger(event T) {
	b.mu.Lock()
	snapshot := make([]handler[T], len(b.handlers))
	copy(snapshot, b.handlers)
	kept := b.handlers[:0:0]
	for _, h := range b.handlers {
		if !h.once {
			kept = append(kept, h)
		}
	}
	b.handlers = kept
	b.mu.Unlock()

	for _, h := range snapshot {
		b.call(h, event)
	}
}

func (b *Bus[T]) call(h handler[T], event T) {
	defer func() {
		if r := recover(); r != nil {
			logger.Named("events").Error("event handler panicked", "panic", r)
		}
	}()
	h.fn(event)
}

// Len 当前订阅者数量
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}
