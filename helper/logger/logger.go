package logger

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sjzsdu/arbor/share"
)

var (
	defaultLogger *log.Logger
	once          sync.Once
)

// Default 返回全局日志实例，日志写到 stderr，避免污染命令输出
func Default() *log.Logger {
	once.Do(func() {
		defaultLogger = New(os.Stderr)
		if share.GetDebug() {
			defaultLogger.SetLevel(log.DebugLevel)
		}
	})
	return defaultLogger
}

// New 创建一个写入 w 的日志实例
func New(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          share.BUILDNAME,
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	})
}

// SetDebug 切换调试日志
func SetDebug(debug bool) {
	share.SetDebug(debug)
	if debug {
		Default().SetLevel(log.DebugLevel)
	} else {
		Default().SetLevel(log.InfoLevel)
	}
}

// Named 返回带组件名称的子日志
func Named(component string) *log.Logger {
	return Default().With("component", component)
}

// Discard 返回丢弃所有输出的日志实例，主要用于测试
func Discard() *log.Logger {
	return New(io.Discard)
}
