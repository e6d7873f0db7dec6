package explorer

import (
	"context"
	"errors"

	"github.com/sjzsdu/arbor/helper/coroutine"
)

// Scheduler 把低优先级的工作推迟到空闲时执行，不保证执行时间
type Scheduler interface {
	Defer(fn func())
}

// SchedulerFunc 允许普通函数作为 Scheduler 使用
type SchedulerFunc func(fn func())

// Defer 实现 Scheduler 接口
func (f SchedulerFunc) Defer(fn func()) {
	f(fn)
}

// CacheStore 是外部按文件缓存需要实现的契约
type CacheStore interface {
	Rename(ctx context.Context, oldPath, newPath string) error
	Duplicate(ctx context.Context, oldPath, newPath string) error
	Clear(ctx context.Context, path string) error
	Delete(ctx context.Context, path string) error
}

// TabCloser 关闭绑定到某个路径的所有标签页
type TabCloser interface {
	CloseByPath(path string)
}

// FileOpener 将文件作为编辑器标签页打开
type FileOpener interface {
	OpenAsEditorTab(path string) error
}

// Notifier 向用户展示提示信息
type Notifier interface {
	Notify(title, message string)
}

// Hooks 汇总树在结构变更时需要通知的外部协作者，所有字段都可以为空
type Hooks struct {
	Caches   Coordinator
	Tabs     TabCloser
	OnDelete func(path string)
	Opener   FileOpener
	Notifier Notifier
}

// Coordinator 在结构变更时保持三类缓存一致
type Coordinator struct {
	Content CacheStore
	Format  CacheStore
	Mask    CacheStore
}

func (c Coordinator) stores() []CacheStore {
	stores := make([]CacheStore, 0, 3)
	for _, s := range []CacheStore{c.Content, c.Format, c.Mask} {
		if s != nil {
			stores = append(stores, s)
		}
	}
	return stores
}

// RenameAll 并发重命名所有缓存条目，任何一个失败整个操作就失败。
// 已经成功的缓存不会回滚。
func (c Coordinator) RenameAll(ctx context.Context, oldPath, newPath string) error {
	return runAll(ctx, c.stores(), func(s CacheStore) error {
		return s.Rename(ctx, oldPath, newPath)
	})
}

// DuplicateAll 并发复制缓存条目，内容缓存的失败会被忽略
func (c Coordinator) DuplicateAll(ctx context.Context, oldPath, newPath string) error {
	works := make([]func() error, 0, 3)
	if c.Content != nil {
		works = append(works, func() error {
			_ = c.Content.Duplicate(ctx, oldPath, newPath)
			return nil
		})
	}
	for _, s := range []CacheStore{c.Format, c.Mask} {
		if s == nil {
			continue
		}
		store := s
		works = append(works, func() error {
			return store.Duplicate(ctx, oldPath, newPath)
		})
	}
	return errors.Join(coroutine.ExecuteWithoutResult(ctx, len(works), works)...)
}

// ClearAll 清除某个路径的缓存：内容和格式缓存清空，JSON 掩码直接删除
func (c Coordinator) ClearAll(ctx context.Context, path string) error {
	works := make([]func() error, 0, 3)
	if c.Content != nil {
		works = append(works, func() error { return c.Content.Clear(ctx, path) })
	}
	if c.Format != nil {
		works = append(works, func() error { return c.Format.Clear(ctx, path) })
	}
	if c.Mask != nil {
		works = append(works, func() error { return c.Mask.Delete(ctx, path) })
	}
	return errors.Join(coroutine.ExecuteWithoutResult(ctx, len(works), works)...)
}

func runAll(ctx context.Context, stores []CacheStore, fn func(CacheStore) error) error {
	return errors.Join(coroutine.Each(ctx, len(stores), stores, fn)...)
}
