package share

import "sync/atomic"

var debugMode atomic.Bool

// SetDebug 设置全局调试模式
func SetDebug(debug bool) {
	debugMode.Store(debug)
}

// GetDebug 是否处于调试模式
func GetDebug() bool {
	return debugMode.Load()
}
