package explorer

import (
	"context"
	"errors"
	"path/filepath"
	"slices"

	"github.com/sjzsdu/arbor/helper/coroutine"
	"github.com/sjzsdu/arbor/lang"
	"github.com/spf13/afero"
)

// Rename 只修改内存中的名字和路径，不触碰磁盘，也不更新子节点
func (n *Node) Rename(name string) {
	n.env.mu.Lock()
	defer n.env.mu.Unlock()

	if p := n.parent; p != nil {
		n.absPath = filepath.Join(p.absPath, name)
		n.relPath = filepath.Join(p.relPath, name)
	} else {
		n.absPath = filepath.Join(filepath.Dir(n.absPath), name)
		n.relPath = filepath.Join(filepath.Dir(n.relPath), name)
	}
	n.name = name
	n.bumpLocked()
}

// Update 在父目录移动或改名后重算路径。文件先迁移全部缓存再提交新路径，
// 目录必要时先加载，再并发更新所有子节点，最后更新版本。
func (n *Node) Update(ctx context.Context, absParent, relParent string) error {
	if n.IsLoading() {
		if err := n.Wait(ctx); err != nil {
			return wrapErr(OpUpdate, n.AbsolutePath(), err)
		}
	}

	n.env.mu.RLock()
	name, oldAbs, state := n.name, n.absPath, n.state
	n.env.mu.RUnlock()

	newAbs := filepath.Join(absParent, name)
	newRel := filepath.Join(relParent, name)

	if state == StateFile {
		if err := n.env.Hooks.Caches.RenameAll(ctx, oldAbs, newAbs); err != nil {
			return wrapErr(OpUpdate, oldAbs, err)
		}
	}

	n.env.mu.Lock()
	n.absPath = newAbs
	n.relPath = newRel
	loaded := n.childrenLoaded
	n.env.mu.Unlock()

	var errs []error
	if state == StateFolder {
		if !loaded {
			if err := n.Load(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		children := n.Children()
		errs = append(errs, coroutine.Each(ctx, 0, children, func(child *Node) error {
			return child.Update(ctx, newAbs, newRel)
		})...)
	}

	n.bump()
	return errors.Join(errs...)
}

// Reparent 把节点挂到新的父目录下并更新整棵子树的路径，不触碰磁盘
func (n *Node) Reparent(ctx context.Context, parent *Node) error {
	n.env.mu.Lock()
	old := n.parent
	if old != nil {
		old.children = without(old.children, n)
		old.bumpLocked()
	}
	n.parent = parent
	parent.children = append(parent.children, n)
	parent.sortLocked()
	parent.bumpLocked()
	absParent, relParent := parent.absPath, parent.relPath
	n.env.mu.Unlock()

	return n.Update(ctx, absParent, relParent)
}

// Remove 从树上移除节点。子节点先于自身清理，清理包括关闭标签页、
// 删除回调和缓存清除，最后更新父节点版本。磁盘上的文件不受影响。
func (n *Node) Remove(ctx context.Context) error {
	return n.remove(ctx, true)
}

func (n *Node) remove(ctx context.Context, top bool) error {
	n.env.mu.Lock()
	parent := n.parent
	if top && parent != nil {
		parent.children = without(parent.children, n)
	}
	children := slices.Clone(n.children)
	n.env.mu.Unlock()

	var errs []error
	if len(children) > 0 {
		errs = append(errs, coroutine.Each(ctx, 0, children, func(child *Node) error {
			return child.remove(ctx, false)
		})...)
		n.env.mu.Lock()
		n.children = nil
		n.env.mu.Unlock()
	}

	if err := n.cleanup(ctx); err != nil {
		errs = append(errs, err)
	}

	if parent != nil {
		parent.bump()
	}
	return errors.Join(errs...)
}

func (n *Node) cleanup(ctx context.Context) error {
	abs := n.AbsolutePath()
	hooks := n.env.Hooks

	if hooks.Tabs != nil {
		hooks.Tabs.CloseByPath(abs)
	}
	if hooks.OnDelete != nil {
		hooks.OnDelete(abs)
	}
	if err := hooks.Caches.ClearAll(ctx, abs); err != nil {
		n.env.Logger.Warn("cache cleanup failed", "op", OpRemove, "path", abs, "err", err)
		return wrapErr(OpRemove, abs, err)
	}
	return nil
}

// Duplicate 在同一目录下复制文件。重名时通知用户并返回 ErrNameTaken，
// 不产生任何磁盘或缓存操作。
func (n *Node) Duplicate(ctx context.Context, newName string, openAfter bool) error {
	n.env.mu.RLock()
	parent, abs, state := n.parent, n.absPath, n.state
	n.env.mu.RUnlock()

	if parent == nil {
		return wrapErr(OpDuplicate, abs, ErrNoParent)
	}
	if parent.Find(newName) != nil {
		if notifier := n.env.Hooks.Notifier; notifier != nil {
			notifier.Notify(lang.T("File already exists"), lang.Tf("A file named %s already exists in this folder", newName))
		}
		return wrapErr(OpDuplicate, abs, ErrNameTaken)
	}
	if state != StateFile {
		return wrapErr(OpDuplicate, abs, ErrNotFile)
	}

	newAbs := filepath.Join(filepath.Dir(abs), newName)
	errs := coroutine.ExecuteWithoutResult(ctx, 2, []func() error{
		func() error { return n.env.Hooks.Caches.DuplicateAll(ctx, abs, newAbs) },
		func() error { return copyFile(n.env.FS, abs, newAbs) },
	})
	if err := errors.Join(errs...); err != nil {
		return wrapErr(OpDuplicate, abs, err)
	}

	dup := newNode(n.env, parent, filepath.Join(parent.Path(), newName), newAbs, WithKind(false))

	n.env.mu.Lock()
	parent.children = append(parent.children, dup)
	parent.sortLocked()
	parent.bumpLocked()
	n.env.mu.Unlock()

	if openAfter && n.env.Hooks.Opener != nil {
		if err := n.env.Hooks.Opener.OpenAsEditorTab(dup.AbsolutePath()); err != nil {
			return wrapErr(OpDuplicate, newAbs, err)
		}
	}
	return nil
}

func copyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return afero.WriteReader(fs, dst, in)
}

// Open 展开节点，未加载的目录在后台加载子节点
func (n *Node) Open() *Node {
	n.env.mu.Lock()
	n.open = true
	n.bumpLocked()
	needLoad := !n.childrenLoaded && n.state != StateFile && n.state != StateFailed
	n.env.mu.Unlock()

	if needLoad {
		go func() {
			ctx := context.Background()
			if err := n.Wait(ctx); err != nil {
				return
			}
			if n.IsFolder() && !n.ChildrenLoaded() {
				if err := n.Load(ctx); err != nil {
					n.env.Logger.Debug("load on open failed", "op", OpLoad, "path", n.AbsolutePath(), "err", err)
				}
			}
		}()
	}
	return n
}

// Close 折叠节点
func (n *Node) Close() *Node {
	n.env.mu.Lock()
	n.open = false
	n.bumpLocked()
	n.env.mu.Unlock()
	return n
}

func without(nodes []*Node, target *Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, node := range nodes {
		if node != target {
			out = append(out, node)
		}
	}
	return out
}
