package explorer

import (
	"errors"
	"fmt"
)

var (
	// ErrUnclassified 节点尚未（或无法）确定是文件还是目录
	ErrUnclassified = errors.New("node kind is not classified")
	// ErrNameTaken 同级目录下已存在同名节点
	ErrNameTaken = errors.New("name already exists")
	// ErrNotFolder 操作需要目录节点
	ErrNotFolder = errors.New("node is not a folder")
	// ErrNotFile 操作需要文件节点
	ErrNotFile = errors.New("node is not a file")
	// ErrNoParent 根节点不支持该操作
	ErrNoParent = errors.New("node has no parent")
	// ErrNotFound 找不到对应的节点
	ErrNotFound = errors.New("node not found")
)

// 操作名称，用于错误信息和日志
const (
	OpClassify  = "classify"
	OpLoad      = "load"
	OpRefresh   = "refresh"
	OpUpdate    = "update"
	OpRemove    = "remove"
	OpDuplicate = "duplicate"
	OpRename    = "rename"
)

// Error 封装节点操作过程中的错误信息
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: err}
}
