package explorer

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Category 项目类别
type Category int

const (
	CategoryPrimary Category = iota
	CategoryResourcePack
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategoryPrimary:
		return "primary"
	case CategoryResourcePack:
		return "resource_pack"
	case CategoryOther:
		return "other"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory 解析类别名称，不区分大小写
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary", "bp":
		return CategoryPrimary, nil
	case "resource_pack", "resourcepack", "rp":
		return CategoryResourcePack, nil
	case "other", "":
		return CategoryOther, nil
	default:
		return CategoryOther, fmt.Errorf("unknown category %q", s)
	}
}

// Key 注册表的键
type Key struct {
	Category Category
	Project  string
}

func (k Key) String() string {
	return k.Category.String() + "/" + k.Project
}

// Registry 按类别和项目保存各棵树的根节点，由调用方持有，不存在全局实例
type Registry struct {
	mu    sync.RWMutex
	roots map[Key]*Node
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{roots: make(map[Key]*Node)}
}

// Set 注册根节点，已存在时覆盖
func (r *Registry) Set(category Category, project string, root *Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots[Key{Category: category, Project: project}] = root
}

func (r *Registry) Get(category Category, project string) (*Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	root, ok := r.roots[Key{Category: category, Project: project}]
	return root, ok
}

// Delete 注销根节点，返回之前是否存在
func (r *Registry) Delete(category Category, project string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := Key{Category: category, Project: project}
	_, ok := r.roots[key]
	delete(r.roots, key)
	return ok
}

// Keys 返回按类别和项目名排序的所有键
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	keys := make([]Key, 0, len(r.roots))
	for k := range r.roots {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Category != keys[j].Category {
			return keys[i].Category < keys[j].Category
		}
		return keys[i].Project < keys[j].Project
	})
	return keys
}

// Range 按 Keys 的顺序遍历，fn 返回 false 时停止
func (r *Registry) Range(fn func(key Key, root *Node) bool) {
	for _, key := range r.Keys() {
		root, ok := r.Get(key.Category, key.Project)
		if !ok {
			continue
		}
		if !fn(key, root) {
			return
		}
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.roots)
}

// FindByPath 在所有树中查找绝对路径对应的节点
func (r *Registry) FindByPath(absPath string) (*Node, bool) {
	var found *Node
	r.Range(func(_ Key, root *Node) bool {
		found = root.FindByPath(absPath)
		return found == nil
	})
	return found, found != nil
}
