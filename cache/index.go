package cache

import (
	"errors"
	"sync"

	"github.com/sjzsdu/arbor/helper/json"
)

// index 把 路径 → 值 的映射整体保存在一个 JSON 文件里，第一次访问时加载
type index[T any] struct {
	mu      sync.Mutex
	store   *json.JSONStore
	name    string
	entries map[string]T
	loaded  bool
}

func newIndex[T any](store *json.JSONStore, name string) *index[T] {
	return &index[T]{store: store, name: name}
}

func (x *index[T]) loadLocked() error {
	if x.loaded {
		return nil
	}
	entries := make(map[string]T)
	if _, err := x.store.Get(x.name, &entries); err != nil && !errors.Is(err, json.ErrNotExist) {
		return err
	}
	if entries == nil {
		entries = make(map[string]T)
	}
	x.entries = entries
	x.loaded = true
	return nil
}

func (x *index[T]) saveLocked() error {
	return x.store.Set(x.name, x.entries)
}

// mutate 在锁内加载、修改并在有变化时写回
func (x *index[T]) mutate(fn func(entries map[string]T) bool) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.loadLocked(); err != nil {
		return err
	}
	if !fn(x.entries) {
		return nil
	}
	return x.saveLocked()
}

func (x *index[T]) get(path string) (T, bool, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	var zero T
	if err := x.loadLocked(); err != nil {
		return zero, false, err
	}
	v, ok := x.entries[path]
	return v, ok, nil
}

func (x *index[T]) set(path string, v T) error {
	return x.mutate(func(entries map[string]T) bool {
		entries[path] = v
		return true
	})
}

func (x *index[T]) rename(oldPath, newPath string) error {
	return x.mutate(func(entries map[string]T) bool {
		v, ok := entries[oldPath]
		if !ok {
			return false
		}
		delete(entries, oldPath)
		entries[newPath] = v
		return true
	})
}

func (x *index[T]) duplicate(oldPath, newPath string) error {
	return x.mutate(func(entries map[string]T) bool {
		v, ok := entries[oldPath]
		if !ok {
			return false
		}
		entries[newPath] = v
		return true
	})
}

func (x *index[T]) remove(path string) error {
	return x.mutate(func(entries map[string]T) bool {
		if _, ok := entries[path]; !ok {
			return false
		}
		delete(entries, path)
		return true
	})
}

func (x *index[T]) keys() ([]string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.loadLocked(); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(x.entries))
	for k := range x.entries {
		keys = append(keys, k)
	}
	return keys, nil
}
