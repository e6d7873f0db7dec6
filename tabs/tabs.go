package tabs

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Tab 一个打开的编辑器标签页
type Tab struct {
	ID   string
	Path string
	Name string
}

// Registry 记录打开的标签页和当前激活的标签页
type Registry struct {
	mu     sync.RWMutex
	tabs   []Tab
	active string

	// OnClose 标签页被关闭后调用，在锁外执行
	OnClose func(tab Tab)
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add 打开路径对应的标签页，已经打开时直接激活
func (r *Registry) Add(path string) Tab {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tabs {
		if t.Path == path {
			r.active = t.ID
			return t
		}
	}
	t := Tab{ID: uuid.NewString(), Path: path, Name: filepath.Base(path)}
	r.tabs = append(r.tabs, t)
	r.active = t.ID
	return t
}

// List 按打开顺序返回所有标签页
func (r *Registry) List() []Tab {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.tabs)
}

// Active 当前激活的标签页
func (r *Registry) Active() (Tab, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tabs {
		if t.ID == r.active {
			return t, true
		}
	}
	return Tab{}, false
}

// IsOpen 路径是否有打开的标签页
func (r *Registry) IsOpen(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.ContainsFunc(r.tabs, func(t Tab) bool { return t.Path == path })
}

// Retarget 文件移动后更新标签页路径，path 是目录时同时更新其下所有标签页
func (r *Registry) Retarget(oldPath, newPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefix := oldPath + string(filepath.Separator)
	for i, t := range r.tabs {
		switch {
		case t.Path == oldPath:
			r.tabs[i].Path = newPath
		case strings.HasPrefix(t.Path, prefix):
			r.tabs[i].Path = filepath.Join(newPath, strings.TrimPrefix(t.Path, prefix))
		default:
			continue
		}
		r.tabs[i].Name = filepath.Base(r.tabs[i].Path)
	}
}

// CloseByPath 关闭绑定到 path 的所有标签页
func (r *Registry) CloseByPath(path string) {
	r.close(func(t Tab) bool { return t.Path == path })
}

// Close 按 ID 关闭标签页
func (r *Registry) Close(id string) {
	r.close(func(t Tab) bool { return t.ID == id })
}

func (r *Registry) close(match func(Tab) bool) {
	r.mu.Lock()
	var closed []Tab
	kept := r.tabs[:0:0]
	activeIdx := -1
	for _, t := range r.tabs {
		if match(t) {
			closed = append(closed, t)
			if t.ID == r.active {
				activeIdx = len(kept)
			}
			continue
		}
		kept = append(kept, t)
	}
	r.tabs = kept
	if activeIdx >= 0 {
		r.active = ""
		if len(kept) > 0 {
			r.active = kept[min(activeIdx, len(kept)-1)].ID
		}
	}
	onClose := r.OnClose
	r.mu.Unlock()

	if onClose != nil {
		for _, t := range closed {
			onClose(t)
		}
	}
}
