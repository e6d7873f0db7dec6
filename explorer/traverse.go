package explorer

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sjzsdu/arbor/share"
)

// ErrSkipChildren 由访问函数返回时跳过当前目录的子节点
var ErrSkipChildren = errors.New("skip children")

// NodeVisitor 定义了节点访问器的接口
type NodeVisitor interface {
	// VisitFolder 访问目录节点
	VisitFolder(node *Node, depth int) error
	// VisitFile 访问文件节点，未分类或分类失败的节点也按文件访问
	VisitFile(node *Node, depth int) error
}

// VisitorFunc 把一个函数同时用作目录和文件访问器
type VisitorFunc func(node *Node, depth int) error

func (f VisitorFunc) VisitFolder(node *Node, depth int) error { return f(node, depth) }
func (f VisitorFunc) VisitFile(node *Node, depth int) error   { return f(node, depth) }

// Sort 子节点排序：目录在前，再按名字的字节序，排序是稳定的
func (n *Node) Sort() {
	n.env.mu.Lock()
	n.sortLocked()
	n.bumpLocked()
	n.env.mu.Unlock()
}

func (n *Node) sortLocked() {
	sort.SliceStable(n.children, func(i, j int) bool {
		a, b := n.children[i], n.children[j]
		af, bf := a.state == StateFolder, b.state == StateFolder
		if af != bf {
			return af
		}
		return a.name < b.name
	})
}

// Find 按名字查找直接子节点，不存在时返回 nil
func (n *Node) Find(name string) *Node {
	n.env.mu.RLock()
	defer n.env.mu.RUnlock()
	for _, child := range n.children {
		if child.name == name {
			return child
		}
	}
	return nil
}

// Lookup 按相对于当前节点的路径片段逐级查找
func (n *Node) Lookup(segments ...string) *Node {
	node := n
	for _, seg := range segments {
		if node = node.Find(seg); node == nil {
			return nil
		}
	}
	return node
}

// FindByPath 按绝对路径在子树中查找节点，只查找已经加载的部分
func (n *Node) FindByPath(absPath string) *Node {
	rel, err := filepath.Rel(n.AbsolutePath(), absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	if rel == "." {
		return n
	}
	return n.Lookup(strings.Split(rel, string(filepath.Separator))...)
}

// GetAllFiles 返回子树下所有已分类文件的绝对路径，名为 cache 的节点整体跳过
func (n *Node) GetAllFiles() []string {
	n.env.mu.RLock()
	defer n.env.mu.RUnlock()

	files := make([]string, 0)
	n.collectFilesLocked(&files)
	return files
}

func (n *Node) collectFilesLocked(files *[]string) {
	if n.name == share.RESERVED_DIR {
		return
	}
	switch n.state {
	case StateFolder:
		for _, child := range n.children {
			child.collectFilesLocked(files)
		}
	case StateFile:
		*files = append(*files, n.absPath)
	}
}

// Walk 前序遍历子树，访问期间不持有锁
func (n *Node) Walk(visitor NodeVisitor) error {
	return n.walk(visitor, 0)
}

func (n *Node) walk(visitor NodeVisitor, depth int) error {
	if !n.IsFolder() {
		return visitor.VisitFile(n, depth)
	}

	if err := visitor.VisitFolder(n, depth); err != nil {
		if errors.Is(err, ErrSkipChildren) {
			return nil
		}
		return err
	}
	for _, child := range n.Children() {
		if err := child.walk(visitor, depth+1); err != nil {
			return err
		}
	}
	return nil
}
