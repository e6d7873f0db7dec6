package cache

import (
	"errors"
	"fmt"
)

// ErrNoEntry 缓存中没有对应路径的条目
var ErrNoEntry = errors.New("no cache entry")

// Error 缓存操作错误
type Error struct {
	Store string
	Path  string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s cache %s: %v", e.Store, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
