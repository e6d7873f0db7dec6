package tree

import (
	"fmt"

	"github.com/sjzsdu/arbor/explorer"
)

// Statistics 树的统计信息
type Statistics struct {
	TotalNodes     int   // 总节点数
	DirectoryCount int   // 目录数量
	FileCount      int   // 文件数量
	FailedCount    int   // 分类失败的节点
	TotalSize      int64 // 总大小（字节）
	MaxDepth       int   // 最大深度
}

// Stats 返回已加载部分的统计信息
func Stats(node *explorer.Node) Statistics {
	if node == nil {
		return Statistics{}
	}

	var stats Statistics
	_ = node.Walk(explorer.VisitorFunc(func(n *explorer.Node, depth int) error {
		stats.TotalNodes++
		stats.MaxDepth = max(stats.MaxDepth, depth)
		switch n.State() {
		case explorer.StateFolder:
			stats.DirectoryCount++
		case explorer.StateFile:
			stats.FileCount++
			if size, ok := sizeOf(n); ok {
				stats.TotalSize += size
			}
		case explorer.StateFailed:
			stats.FailedCount++
		}
		return nil
	}))
	return stats
}

// String 返回统计信息的字符串表示
func (s Statistics) String() string {
	return fmt.Sprintf("%d directories, %d files, %s total",
		s.DirectoryCount, s.FileCount, FormatSize(s.TotalSize))
}
