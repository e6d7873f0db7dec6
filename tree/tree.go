package tree

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sjzsdu/arbor/explorer"
	"github.com/sjzsdu/arbor/helper/coroutine"
)

// Options 控制树状输出
type Options struct {
	ShowFiles  bool
	ShowHidden bool
	ShowSize   bool
	// MaxDepth 小于等于 0 时不限制深度
	MaxDepth int
}

// DefaultOptions 显示文件和隐藏文件，不限制深度
func DefaultOptions() Options {
	return Options{ShowFiles: true, ShowHidden: true, ShowSize: true}
}

// Expand 递归加载子树中所有尚未加载的目录，maxDepth 小于等于 0 时不限制深度
func Expand(ctx context.Context, node *explorer.Node, maxDepth int) error {
	return expand(ctx, node, 0, maxDepth)
}

func expand(ctx context.Context, node *explorer.Node, depth, maxDepth int) error {
	if maxDepth > 0 && depth >= maxDepth {
		return nil
	}
	if err := node.Wait(ctx); err != nil {
		if errors.Is(err, explorer.ErrUnclassified) {
			return nil
		}
		return err
	}
	if !node.IsFolder() {
		return nil
	}
	if !node.ChildrenLoaded() {
		if err := node.Load(ctx); err != nil {
			return err
		}
	}
	return errors.Join(coroutine.Each(ctx, 0, node.Children(), func(child *explorer.Node) error {
		return expand(ctx, child, depth+1, maxDepth)
	})...)
}

// Tree 生成类似 Unix tree 命令的输出，只包含已经加载的节点
func Tree(node *explorer.Node) string {
	return TreeWithOptions(node, DefaultOptions())
}

// TreeWithOptions 按选项生成树状输出
func TreeWithOptions(node *explorer.Node, opts Options) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	render(&b, node, opts, "", true, true, 0)
	return b.String()
}

func visible(node *explorer.Node, opts Options) bool {
	if !opts.ShowHidden && strings.HasPrefix(node.Name(), ".") {
		return false
	}
	return opts.ShowFiles || node.IsFolder()
}

func render(b *strings.Builder, node *explorer.Node, opts Options, prefix string, isLast, isRoot bool, depth int) {
	if !isRoot {
		if isLast {
			b.WriteString(prefix + "└── ")
		} else {
			b.WriteString(prefix + "├── ")
		}
	}

	var children []*explorer.Node
	if node.IsFolder() {
		for _, child := range node.Children() {
			if visible(child, opts) {
				children = append(children, child)
			}
		}
	}

	switch {
	case node.IsFolder():
		b.WriteString(node.Name() + "/")
		if len(children) > 0 {
			fmt.Fprintf(b, " [%d items]", len(children))
		}
	case node.State() == explorer.StateFailed:
		b.WriteString(node.Name() + " (?)")
	default:
		b.WriteString(node.Name())
		if opts.ShowSize {
			if size, ok := sizeOf(node); ok {
				fmt.Fprintf(b, " (%s)", FormatSize(size))
			}
		}
	}
	b.WriteString("\n")

	if opts.MaxDepth > 0 && depth+1 >= opts.MaxDepth {
		return
	}

	var next string
	switch {
	case isRoot:
		next = ""
	case isLast:
		next = prefix + "    "
	default:
		next = prefix + "│   "
	}
	for i, child := range children {
		render(b, child, opts, next, i == len(children)-1, false, depth+1)
	}
}

func sizeOf(node *explorer.Node) (int64, bool) {
	if node.State() != explorer.StateFile {
		return 0, false
	}
	info, err := node.Env().FS.Stat(node.AbsolutePath())
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}

// FormatSize 把字节数格式化为便于阅读的字符串
func FormatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	case size < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	default:
		return fmt.Sprintf("%.1f GB", float64(size)/(1024*1024*1024))
	}
}
