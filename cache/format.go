package cache

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"github.com/sjzsdu/arbor/helper/json"
)

// 换行符风格
const (
	LineEndingLF   = "lf"
	LineEndingCRLF = "crlf"
)

// Format 文件的格式信息，写回磁盘时用来还原原有的换行符和缩进
type Format struct {
	LineEnding string `json:"lineEnding"`
	Indent     string `json:"indent,omitempty"`
	FinalEOL   bool   `json:"finalEol"`
}

// DetectFormat 从文件内容推断格式
func DetectFormat(data []byte) Format {
	f := Format{LineEnding: LineEndingLF}
	if bytes.Contains(data, []byte("\r\n")) {
		f.LineEnding = LineEndingCRLF
	}
	f.FinalEOL = bytes.HasSuffix(data, []byte("\n"))

	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("\t")) {
			f.Indent = "\t"
			break
		}
		if bytes.HasPrefix(line, []byte("  ")) {
			n := min(len(line)-len(bytes.TrimLeft(line, " ")), 4)
			f.Indent = strings.Repeat(" ", n)
			break
		}
	}
	return f
}

// Apply 把 LF 文本转换回记录的格式
func (f Format) Apply(text string) []byte {
	data := []byte(text)
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if f.FinalEOL && !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}
	if f.LineEnding == LineEndingCRLF {
		data = bytes.ReplaceAll(data, []byte("\n"), []byte("\r\n"))
	}
	return data
}

// FormatCache 持久化的文件格式缓存
type FormatCache struct {
	idx *index[Format]
}

// NewFormatCache 格式信息保存在 store 下的 formats.json
func NewFormatCache(store *json.JSONStore) *FormatCache {
	return &FormatCache{idx: newIndex[Format](store, "formats")}
}

func (c *FormatCache) Get(path string) (Format, bool, error) {
	return c.idx.get(path)
}

func (c *FormatCache) Set(path string, f Format) error {
	return c.idx.set(path, f)
}

// Paths 返回所有有格式记录的路径
func (c *FormatCache) Paths() ([]string, error) {
	keys, err := c.idx.keys()
	sort.Strings(keys)
	return keys, err
}

func (c *FormatCache) Rename(_ context.Context, oldPath, newPath string) error {
	return wrap("format", oldPath, c.idx.rename(oldPath, newPath))
}

func (c *FormatCache) Duplicate(_ context.Context, oldPath, newPath string) error {
	return wrap("format", oldPath, c.idx.duplicate(oldPath, newPath))
}

// Clear 删除格式记录，下次打开时重新检测
func (c *FormatCache) Clear(_ context.Context, path string) error {
	return wrap("format", path, c.idx.remove(path))
}

func (c *FormatCache) Delete(ctx context.Context, path string) error {
	return c.Clear(ctx, path)
}

func wrap(store, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Store: store, Path: path, Err: err}
}
