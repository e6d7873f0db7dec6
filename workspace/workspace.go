package workspace

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/sjzsdu/arbor/cache"
	"github.com/sjzsdu/arbor/config"
	"github.com/sjzsdu/arbor/events"
	"github.com/sjzsdu/arbor/explorer"
	"github.com/sjzsdu/arbor/helper"
	"github.com/sjzsdu/arbor/helper/logger"
	"github.com/sjzsdu/arbor/scheduler"
	"github.com/sjzsdu/arbor/tabs"
	"github.com/sjzsdu/arbor/watch"
	"github.com/spf13/afero"
)

// Options 工作区构造参数，零值字段使用默认实现
type Options struct {
	FS        afero.Fs
	Scheduler explorer.Scheduler
	CacheDir  string
	Notifier  explorer.Notifier
	Logger    *log.Logger
}

// Workspace 一次编辑会话的上下文：持有文件树注册表以及缓存、标签页、事件和调度器
type Workspace struct {
	fs       afero.Fs
	registry *explorer.Registry
	caches   *cache.Stores
	tabs     *tabs.Registry
	events   *events.Hub
	sched    explorer.Scheduler
	notifier explorer.Notifier
	logger   *log.Logger

	ownsScheduler bool
	subs          events.Disposables
}

// New 创建工作区
func New(opts Options) (*Workspace, error) {
	fs := opts.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	l := opts.Logger
	if l == nil {
		l = logger.Named("workspace")
	}

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		cacheDir = config.GetConfigWithDefault(config.KeyCacheDir, helper.GetPath("caches"))
	}
	caches, err := cache.New(fs, cacheDir)
	if err != nil {
		return nil, fmt.Errorf("open caches: %w", err)
	}

	w := &Workspace{
		fs:       fs,
		registry: explorer.NewRegistry(),
		caches:   caches,
		tabs:     tabs.NewRegistry(),
		events:   events.NewHub(),
		sched:    opts.Scheduler,
		notifier: opts.Notifier,
		logger:   l,
	}
	if w.sched == nil {
		w.sched = scheduler.NewIdle(config.GetInt(config.KeyIdleWorkers, 2))
		w.ownsScheduler = true
	}
	if w.notifier == nil {
		w.notifier = logNotifier{l}
	}

	w.subs = append(w.subs, w.events.Refresh.On(w.onRefresh))
	return w, nil
}

func (w *Workspace) Registry() *explorer.Registry { return w.registry }
func (w *Workspace) Caches() *cache.Stores        { return w.caches }
func (w *Workspace) Tabs() *tabs.Registry         { return w.tabs }
func (w *Workspace) Events() *events.Hub          { return w.events }
func (w *Workspace) FS() afero.Fs                 { return w.fs }

// hooks 每棵树共享同一组外部协作者
func (w *Workspace) hooks() explorer.Hooks {
	return explorer.Hooks{
		Caches: w.caches.Coordinator(),
		Tabs:   w.tabs,
		OnDelete: func(path string) {
			w.events.Deleted.Trigger(events.FileDeleted{Path: path})
		},
		Opener:   w,
		Notifier: w.notifier,
	}
}

// OpenProject 为目录创建一棵新树并注册，等待根节点分类完成
func (w *Workspace) OpenProject(ctx context.Context, category explorer.Category, project, absPath string) (*explorer.Node, error) {
	abs, err := filepath.Abs(absPath)
	if err != nil {
		return nil, err
	}

	env := explorer.NewEnv(w.fs, w.sched, w.hooks())
	env.Logger = w.logger.With("project", project)

	root := explorer.NewRoot(env, project, abs, explorer.WithOpen(true))
	if err := root.Wait(ctx); err != nil {
		return nil, fmt.Errorf("open project %s: %w", abs, err)
	}
	if !root.IsFolder() {
		return nil, fmt.Errorf("open project %s: %w", abs, explorer.ErrNotFolder)
	}

	w.registry.Set(category, project, root)
	w.events.Project.Trigger(events.ProjectChanged{Category: category.String(), Project: project, Opened: true})
	w.logger.Debug("project opened", "category", category, "project", project, "path", abs)
	return root, nil
}

// CloseProject 注销项目，返回项目之前是否打开
func (w *Workspace) CloseProject(category explorer.Category, project string) bool {
	if !w.registry.Delete(category, project) {
		return false
	}
	w.events.Project.Trigger(events.ProjectChanged{Category: category.String(), Project: project})
	return true
}

// Root 返回已打开项目的根节点
func (w *Workspace) Root(category explorer.Category, project string) (*explorer.Node, error) {
	root, ok := w.registry.Get(category, project)
	if !ok {
		return nil, fmt.Errorf("project %s/%s: %w", category, project, explorer.ErrNotFound)
	}
	return root, nil
}

// Resolve 按相对路径逐级查找节点，途经未加载的目录时立即加载
func (w *Workspace) Resolve(ctx context.Context, category explorer.Category, project, relPath string) (*explorer.Node, error) {
	node, err := w.Root(category, project)
	if err != nil {
		return nil, err
	}
	for _, seg := range helper.Segments(relPath) {
		if err := ensureLoaded(ctx, node); err != nil {
			return nil, err
		}
		child := node.Find(seg)
		if child == nil {
			return nil, fmt.Errorf("%s: %w", filepath.Join(node.Path(), seg), explorer.ErrNotFound)
		}
		node = child
	}
	return node, nil
}

func ensureLoaded(ctx context.Context, node *explorer.Node) error {
	if err := node.Wait(ctx); err != nil {
		return err
	}
	if !node.IsFolder() {
		return fmt.Errorf("%s: %w", node.Path(), explorer.ErrNotFolder)
	}
	if node.ChildrenLoaded() {
		return nil
	}
	return node.Load(ctx)
}

// Watch 为已打开的项目创建监听器，调用方负责执行 Run。onRefresh 可以为空。
func (w *Workspace) Watch(category explorer.Category, project string, onRefresh func(*explorer.Node, error), ignore ...string) (*watch.Watcher, error) {
	root, err := w.Root(category, project)
	if err != nil {
		return nil, err
	}
	return watch.New(watch.Config{
		Root:     root,
		Ignore:   ignore,
		Debounce: config.GetMilliseconds(config.KeyWatchDebounceMs, 0),
		OnRefresh: func(node *explorer.Node, err error) {
			if err != nil {
				w.logger.Debug("watch refresh failed", "path", node.AbsolutePath(), "err", err)
			}
			if onRefresh != nil {
				onRefresh(node, err)
			}
		},
		Logger: w.logger.With("component", "watch"),
	})
}

// Flush 等待空闲调度器执行完所有推迟的加载
func (w *Workspace) Flush(ctx context.Context) error {
	switch s := w.sched.(type) {
	case *scheduler.Idle:
		return s.Flush(ctx)
	case *scheduler.Manual:
		s.RunPending()
	}
	return nil
}

// Close 取消所有订阅并停止自己创建的调度器
func (w *Workspace) Close() error {
	w.subs.Dispose()
	w.subs = nil
	if idle, ok := w.sched.(*scheduler.Idle); ok && w.ownsScheduler {
		idle.Close()
	}
	return nil
}

// onRefresh 处理刷新请求：从路径向上找到树中已知的节点，文件则刷新其父目录
func (w *Workspace) onRefresh(e events.RefreshExplorer) {
	node := w.nearestNode(e.Path)
	if node == nil {
		return
	}
	if !node.IsFolder() {
		if node = node.Parent(); node == nil {
			return
		}
	}
	if _, err := node.Refresh(context.Background()); err != nil {
		w.logger.Debug("refresh failed", "path", e.Path, "err", err)
	}
}

func (w *Workspace) nearestNode(path string) *explorer.Node {
	for {
		if node, ok := w.registry.FindByPath(path); ok {
			return node
		}
		parent := filepath.Dir(path)
		if parent == path {
			return nil
		}
		path = parent
	}
}

type logNotifier struct {
	logger *log.Logger
}

func (n logNotifier) Notify(title, message string) {
	n.logger.Warn(title, "message", message)
}

// IsNameTaken 判断错误是否是重名
func IsNameTaken(err error) bool {
	return errors.Is(err, explorer.ErrNameTaken)
}
