// Package watch 监听项目目录的外部修改，把变化合并后映射到文件树上最近的已加载目录并刷新
package watch

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/sjzsdu/arbor/explorer"
	"github.com/sjzsdu/arbor/helper"
	"github.com/sjzsdu/arbor/helper/logger"
	"github.com/sjzsdu/arbor/share"
)

// defaultIgnores 始终忽略的路径
var defaultIgnores = []string{
	"**/.git",
	"**/.git/**",
	"**/node_modules/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

// Config 监听参数
type Config struct {
	// Root 要保持同步的文件树根节点，监听它的绝对路径
	Root *explorer.Node
	// Ignore 额外忽略的 doublestar 模式，相对 Root 的路径
	Ignore []string
	// Debounce 最后一次事件之后的静默时间，不大于 0 时使用默认值
	Debounce time.Duration
	// OnRefresh 每个目录刷新完成后调用
	OnRefresh func(node *explorer.Node, err error)
	Logger    *log.Logger
}

// Watcher 监听文件系统并在静默期后刷新受影响的目录。Run 只能调用一次。
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	ignores  []string
	baseDir  string
	debounce time.Duration
	logger   *log.Logger
	started  atomic.Bool
}

// New 创建监听器并注册根目录下所有未被忽略的目录
func New(cfg Config) (*Watcher, error) {
	if cfg.Root == nil {
		return nil, errors.New("watch: root is required")
	}
	for _, pat := range cfg.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q", pat)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = share.WATCH_DEBOUNCE
	}
	l := cfg.Logger
	if l == nil {
		l = logger.Named("watch")
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		baseDir:  cfg.Root.AbsolutePath(),
		debounce: debounce,
		logger:   l,
	}
	if err := w.addDirectories(); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run 阻塞直到 ctx 取消，ctx 正常取消时返回 nil
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		changed := slices.Collect(maps.Keys(pending))
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 {
			return
		}
		w.refresh(ctx, changed)
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify failed", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}
			if w.isIgnored(evt.Name) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

func (w *Watcher) refresh(ctx context.Context, changed []string) {
	for _, node := range Targets(w.cfg.Root, changed) {
		_, err := node.Refresh(ctx)
		if err != nil {
			w.logger.Debug("refresh failed", "path", node.AbsolutePath(), "err", err)
		}
		if w.cfg.OnRefresh != nil {
			w.cfg.OnRefresh(node, err)
		}
	}
}

// Targets 把变化的绝对路径映射为需要刷新的目录节点：
// 取变化路径的父目录，向上找到最近的已加载目录，再去掉被其他目标包含的目录
func Targets(root *explorer.Node, changed []string) []*explorer.Node {
	seen := make(map[*explorer.Node]struct{})
	for _, path := range changed {
		if node := nearestLoadedFolder(root, filepath.Dir(path)); node != nil {
			seen[node] = struct{}{}
		}
	}

	nodes := slices.Collect(maps.Keys(seen))
	slices.SortFunc(nodes, func(a, b *explorer.Node) int {
		return strings.Compare(a.AbsolutePath(), b.AbsolutePath())
	})

	var targets []*explorer.Node
	for _, node := range nodes {
		covered := slices.ContainsFunc(targets, func(t *explorer.Node) bool {
			return isAncestor(t, node)
		})
		if !covered {
			targets = append(targets, node)
		}
	}
	return targets
}

func nearestLoadedFolder(root *explorer.Node, dir string) *explorer.Node {
	rootAbs := root.AbsolutePath()
	for helper.IsWithin(rootAbs, dir) {
		if node := root.FindByPath(dir); node != nil && node.IsFolder() && node.ChildrenLoaded() {
			return node
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil
}

func isAncestor(ancestor, node *explorer.Node) bool {
	for p := node.Parent(); p != nil; p = p.Parent() {
		if p == ancestor {
			return true
		}
	}
	return false
}

func (w *Watcher) addDirectories() error {
	return filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Debug("skipping inaccessible path", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.baseDir && w.isIgnored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("add new directory failed", "path", path, "err", err)
	}
}

func (w *Watcher) isIgnored(path string) bool {
	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		return false
	}
	return matchAny(w.ignores, rel)
}

func matchAny(patterns []string, rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
	}
	return false
}

// isFatal inotify 资源耗尽时监听器无法恢复
func isFatal(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}

// DefaultIgnores 返回内置忽略模式的副本
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}
