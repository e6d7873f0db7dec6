package explorer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sjzsdu/arbor/helper/coroutine"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Load 首次读取目录：重新 stat 每个条目并整体替换子节点。
// 任意一个条目失败时不提交任何子节点。
func (n *Node) Load(ctx context.Context) error {
	abs := n.AbsolutePath()

	infos, err := afero.ReadDir(n.env.FS, abs)
	if err != nil {
		return wrapErr(OpLoad, abs, err)
	}

	kinds := coroutine.Map(ctx, 0, infos, func(info os.FileInfo) (bool, error) {
		st, err := lstat(n.env.FS, filepath.Join(abs, info.Name()))
		if err != nil {
			return false, err
		}
		return st.IsDir(), nil
	})
	for _, kind := range kinds {
		if kind.Err != nil {
			return wrapErr(OpLoad, abs, kind.Err)
		}
	}

	n.env.mu.RLock()
	abs, rel := n.absPath, n.relPath
	n.env.mu.RUnlock()

	children := make([]*Node, 0, len(infos))
	for i, info := range infos {
		children = append(children, newNode(n.env, n,
			filepath.Join(rel, info.Name()),
			filepath.Join(abs, info.Name()),
			WithKind(kinds[i].Value),
		))
	}

	n.env.mu.Lock()
	n.children = children
	n.sortLocked()
	n.childrenLoaded = true
	n.bumpLocked()
	n.env.mu.Unlock()
	return nil
}

// Refresh 协调式重读目录：按绝对路径复用已有子节点，目录递归刷新，
// 磁盘上已不存在的节点被丢弃。
func (n *Node) Refresh(ctx context.Context) (*Node, error) {
	n.env.mu.RLock()
	abs, rel := n.absPath, n.relPath
	n.env.mu.RUnlock()

	infos, err := afero.ReadDir(n.env.FS, abs)
	if err != nil {
		return nil, wrapErr(OpRefresh, abs, err)
	}

	children := make([]*Node, len(infos))
	g, gctx := errgroup.WithContext(ctx)
	for i, info := range infos {
		g.Go(func() error {
			childAbs := filepath.Join(abs, info.Name())
			isDir := info.IsDir()

			if child := n.childByAbs(childAbs); child != nil && child.matchesKind(isDir) {
				if isDir {
					if _, err := child.Refresh(gctx); err != nil {
						return err
					}
				}
				children[i] = child
				return nil
			}

			children[i] = newNode(n.env, n, filepath.Join(rel, info.Name()), childAbs, WithKind(isDir))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, wrapErr(OpRefresh, abs, err)
	}

	n.env.mu.Lock()
	n.children = children
	n.childrenLoaded = true
	n.sortLocked()
	n.bumpLocked()
	n.env.mu.Unlock()
	return n, nil
}

// matchesKind 节点一旦分类就不会在文件和目录之间切换，类型不符时由新节点替换
func (n *Node) matchesKind(isDir bool) bool {
	switch state := n.State(); state {
	case StateUnclassified:
		return true
	case StateFailed:
		return false
	default:
		return state == stateOf(isDir)
	}
}
