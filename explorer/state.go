package explorer

import "sync/atomic"

// State 节点的分类状态
type State int

const (
	// StateUnclassified 尚未完成磁盘 stat
	StateUnclassified State = iota
	// StateFile 普通文件
	StateFile
	// StateFolder 目录
	StateFolder
	// StateFailed stat 失败，节点永远不会被分类或加载
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFile:
		return "file"
	case StateFolder:
		return "folder"
	case StateFailed:
		return "failed"
	default:
		return "unclassified"
	}
}

// Classified 是否已经确定了文件或目录
func (s State) Classified() bool {
	return s == StateFile || s == StateFolder
}

func stateOf(isFolder bool) State {
	if isFolder {
		return StateFolder
	}
	return StateFile
}

// Version 是每次可见变更都会重新生成的令牌，观察者只需比较是否相等
type Version uint64

var versionSeq atomic.Uint64

func nextVersion() Version {
	return Version(versionSeq.Add(1))
}
