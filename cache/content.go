package cache

import (
	"context"
	"sync"
)

// ContentCache 内存中的文件内容缓存，保存已打开文件尚未落盘的文本
type ContentCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// Entry 单个文件的缓存内容
type Entry struct {
	Content string
	Dirty   bool
}

func NewContentCache() *ContentCache {
	return &ContentCache{entries: make(map[string]Entry)}
}

// Get 读取缓存，第二个返回值表示是否命中
func (c *ContentCache) Get(path string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path]
	return e, ok
}

func (c *ContentCache) Set(path, content string, dirty bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = Entry{Content: content, Dirty: dirty}
}

// MarkSaved 清除脏标记
func (c *ContentCache) MarkSaved(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[path]; ok {
		e.Dirty = false
		c.entries[path] = e
	}
}

func (c *ContentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Rename 迁移缓存条目，没有条目时什么都不做
func (c *ContentCache) Rename(_ context.Context, oldPath, newPath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[oldPath]; ok {
		delete(c.entries, oldPath)
		c.entries[newPath] = e
	}
	return nil
}

// Duplicate 复制缓存条目，源条目不存在时返回 ErrNoEntry
func (c *ContentCache) Duplicate(_ context.Context, oldPath, newPath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[oldPath]
	if !ok {
		return &Error{Store: "content", Path: oldPath, Err: ErrNoEntry}
	}
	c.entries[newPath] = e
	return nil
}

func (c *ContentCache) Clear(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
	return nil
}

func (c *ContentCache) Delete(ctx context.Context, path string) error {
	return c.Clear(ctx, path)
}
