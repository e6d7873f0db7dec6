package explorer

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sjzsdu/arbor/helper/logger"
	"github.com/spf13/afero"
)

// Env 同一棵树上所有节点共享的运行环境。
// mu 保护树上所有节点的字段，任何 I/O、外部回调或等待其他节点期间都不持有它。
type Env struct {
	FS        afero.Fs
	Scheduler Scheduler
	Hooks     Hooks
	Logger    *log.Logger

	mu sync.RWMutex
}

// NewEnv 创建运行环境，fs 和 scheduler 为空时分别使用真实文件系统和普通协程
func NewEnv(fs afero.Fs, scheduler Scheduler, hooks Hooks) *Env {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if scheduler == nil {
		scheduler = SchedulerFunc(func(fn func()) { go fn() })
	}
	return &Env{
		FS:        fs,
		Scheduler: scheduler,
		Hooks:     hooks,
		Logger:    logger.Named("explorer"),
	}
}

// Node 表示磁盘上的一个文件或目录
type Node struct {
	env *Env
	id  string

	parent   *Node
	relPath  string
	absPath  string
	name     string
	state    State
	children []*Node

	loading        bool
	childrenLoaded bool
	open           bool
	version        Version

	ready     chan struct{}
	readyOnce sync.Once
}

type nodeConfig struct {
	kind     *bool
	open     bool
	children []*Node
}

// NodeOption 节点构造选项
type NodeOption func(*nodeConfig)

// WithKind 构造时已知节点类型，跳过磁盘 stat
func WithKind(isFolder bool) NodeOption {
	return func(c *nodeConfig) {
		c.kind = &isFolder
	}
}

// WithOpen 设置初始展开状态
func WithOpen(open bool) NodeOption {
	return func(c *nodeConfig) {
		c.open = open
	}
}

// WithChildren 预先提供子节点，节点随后会自行做一次协调刷新
func WithChildren(children ...*Node) NodeOption {
	return func(c *nodeConfig) {
		c.children = children
	}
}

// NewRoot 创建一棵树的根节点
func NewRoot(env *Env, relPath, absPath string, opts ...NodeOption) *Node {
	if env == nil {
		env = NewEnv(nil, nil, Hooks{})
	}
	return newNode(env, nil, relPath, absPath, opts...)
}

// NewNode 在 parent 下创建节点，relPath 和 absPath 都是完整路径
func NewNode(parent *Node, relPath, absPath string, opts ...NodeOption) *Node {
	return newNode(parent.env, parent, relPath, absPath, opts...)
}

func newNode(env *Env, parent *Node, relPath, absPath string, opts ...NodeOption) *Node {
	cfg := &nodeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	name := filepath.Base(relPath)
	if relPath == "" {
		name = filepath.Base(absPath)
	}

	n := &Node{
		env:     env,
		id:      uuid.NewString(),
		parent:  parent,
		relPath: relPath,
		absPath: absPath,
		name:    name,
		loading: true,
		open:    cfg.open,
		version: nextVersion(),
		ready:   make(chan struct{}),
	}

	hasChildren := len(cfg.children) > 0
	if hasChildren {
		env.mu.Lock()
		for _, child := range cfg.children {
			child.parent = n
		}
		n.children = slices.Clone(cfg.children)
		n.childrenLoaded = true
		env.mu.Unlock()
	}

	if cfg.kind != nil {
		n.classify(*cfg.kind, !hasChildren)
	} else {
		go n.classifyFromDisk(!hasChildren)
	}

	if hasChildren {
		go func() {
			if _, err := n.Refresh(context.Background()); err != nil {
				env.Logger.Debug("initial refresh failed", "path", absPath, "err", err)
			}
		}()
	}
	return n
}

// classify 构造时已知类型，同步完成分类
func (n *Node) classify(isFolder bool, deferLoad bool) {
	n.env.mu.Lock()
	n.state = stateOf(isFolder)
	n.loading = false
	if !isFolder {
		n.childrenLoaded = true
	}
	n.env.mu.Unlock()

	if isFolder && deferLoad {
		n.env.Scheduler.Defer(n.loadDeferred)
	}
	n.markReady()
}

// classifyFromDisk 通过 lstat 确定类型，失败时节点进入 StateFailed 且不再加载
func (n *Node) classifyFromDisk(deferLoad bool) {
	defer n.markReady()

	abs := n.AbsolutePath()
	info, err := lstat(n.env.FS, abs)
	if err != nil {
		n.env.mu.Lock()
		n.state = StateFailed
		n.env.mu.Unlock()
		n.env.Logger.Debug("classification failed", "op", OpClassify, "path", abs, "err", err)
		return
	}

	isFolder := info.IsDir()
	n.env.mu.Lock()
	n.state = stateOf(isFolder)
	n.loading = false
	if !isFolder {
		n.childrenLoaded = true
	}
	parent := n.parent
	n.env.mu.Unlock()

	if parent != nil {
		parent.Sort()
	}
	if isFolder && deferLoad {
		n.env.Scheduler.Defer(n.loadDeferred)
	}
}

// loadDeferred 空闲时执行的首次加载，已经加载过的节点直接跳过
func (n *Node) loadDeferred() {
	if n.ChildrenLoaded() {
		return
	}
	if err := n.Load(context.Background()); err != nil {
		n.env.Logger.Debug("deferred load failed", "op", OpLoad, "path", n.AbsolutePath(), "err", err)
	}
}

func (n *Node) markReady() {
	n.readyOnce.Do(func() {
		close(n.ready)
	})
}

// Ready 返回初始分类结束（成功或失败）时关闭的通道
func (n *Node) Ready() <-chan struct{} {
	return n.ready
}

// Wait 等待初始分类结束，分类失败时返回 ErrUnclassified
func (n *Node) Wait(ctx context.Context) error {
	select {
	case <-n.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	if n.State() == StateFailed {
		return ErrUnclassified
	}
	return nil
}

func lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if l, ok := fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}

// ID 节点的唯一标识，在节点生命周期内不变
func (n *Node) ID() string {
	return n.id
}

// Env 返回节点所在树的运行环境
func (n *Node) Env() *Env {
	return n.env
}

func (n *Node) Name() string {
	n.env.mu.RLock()
	defer n.env.mu.RUnlock()
	return n.name
}

// Path 项目内的相对路径
func (n *Node) Path() string {
	n.env.mu.RLock()
	defer n.env.mu.RUnlock()
	return n.relPath
}

func (n *Node) AbsolutePath() string {
	n.env.mu.RLock()
	defer n.env.mu.RUnlock()
	return n.absPath
}

func (n *Node) Parent() *Node {
	n.env.mu.RLock()
	defer n.env.mu.RUnlock()
	return n.parent
}

// Children 返回子节点快照
func (n *Node) Children() []*Node {
	n.env.mu.RLock()
	defer n.env.mu.RUnlock()
	return slices.Clone(n.children)
}

func (n *Node) State() State {
	n.env.mu.RLock()
	defer n.env.mu.RUnlock()
	return n.state
}

// IsFolder 节点是否是目录，未分类时为 false
func (n *Node) IsFolder() bool {
	return n.State() == StateFolder
}

func (n *Node) IsLoading() bool {
	n.env.mu.RLock()
	defer n.env.mu.RUnlock()
	return n.loading
}

func (n *Node) ChildrenLoaded() bool {
	n.env.mu.RLock()
	defer n.env.mu.RUnlock()
	return n.childrenLoaded
}

func (n *Node) IsOpen() bool {
	n.env.mu.RLock()
	defer n.env.mu.RUnlock()
	return n.open
}

// Version 当前版本令牌
func (n *Node) Version() Version {
	n.env.mu.RLock()
	defer n.env.mu.RUnlock()
	return n.version
}

func (n *Node) bump() {
	n.env.mu.Lock()
	n.bumpLocked()
	n.env.mu.Unlock()
}

func (n *Node) bumpLocked() {
	n.version = nextVersion()
}

func (n *Node) childByAbs(absPath string) *Node {
	n.env.mu.RLock()
	defer n.env.mu.RUnlock()
	for _, child := range n.children {
		if child.absPath == absPath {
			return child
		}
	}
	return nil
}
