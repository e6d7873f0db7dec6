package cache

import (
	"github.com/sjzsdu/arbor/explorer"
	"github.com/sjzsdu/arbor/helper/json"
	"github.com/spf13/afero"
)

var (
	_ explorer.CacheStore = (*ContentCache)(nil)
	_ explorer.CacheStore = (*FormatCache)(nil)
	_ explorer.CacheStore = (*MaskStore)(nil)
)

// Stores 一个工作区使用的三类缓存
type Stores struct {
	Content *ContentCache
	Format  *FormatCache
	Mask    *MaskStore
}

// New 创建缓存，格式和掩码持久化到 dir 目录
func New(fs afero.Fs, dir string) (*Stores, error) {
	store, err := json.NewJSONStore(fs, dir, "")
	if err != nil {
		return nil, err
	}
	return &Stores{
		Content: NewContentCache(),
		Format:  NewFormatCache(store),
		Mask:    NewMaskStore(store),
	}, nil
}

// Coordinator 供文件树在结构变更时同步缓存
func (s *Stores) Coordinator() explorer.Coordinator {
	return explorer.Coordinator{
		Content: s.Content,
		Format:  s.Format,
		Mask:    s.Mask,
	}
}
