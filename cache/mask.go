package cache

import (
	"context"
	stdjson "encoding/json"
	"sort"

	"github.com/sjzsdu/arbor/helper/json"
)

// MaskStore 持久化的 JSON 结构掩码，每个文件对应一份任意 JSON 文档
type MaskStore struct {
	idx *index[stdjson.RawMessage]
}

// NewMaskStore 掩码保存在 store 下的 masks.json
func NewMaskStore(store *json.JSONStore) *MaskStore {
	return &MaskStore{idx: newIndex[stdjson.RawMessage](store, "masks")}
}

// Get 读取掩码并解码到 v
func (m *MaskStore) Get(path string, v any) (bool, error) {
	raw, ok, err := m.idx.get(path)
	if err != nil || !ok {
		return false, err
	}
	return true, stdjson.Unmarshal(raw, v)
}

func (m *MaskStore) Set(path string, v any) error {
	raw, err := stdjson.Marshal(v)
	if err != nil {
		return err
	}
	return m.idx.set(path, raw)
}

func (m *MaskStore) Paths() ([]string, error) {
	keys, err := m.idx.keys()
	sort.Strings(keys)
	return keys, err
}

func (m *MaskStore) Rename(_ context.Context, oldPath, newPath string) error {
	return wrap("mask", oldPath, m.idx.rename(oldPath, newPath))
}

func (m *MaskStore) Duplicate(_ context.Context, oldPath, newPath string) error {
	return wrap("mask", oldPath, m.idx.duplicate(oldPath, newPath))
}

// Clear 保留条目但清空掩码内容
func (m *MaskStore) Clear(_ context.Context, path string) error {
	err := m.idx.mutate(func(entries map[string]stdjson.RawMessage) bool {
		if _, ok := entries[path]; !ok {
			return false
		}
		entries[path] = stdjson.RawMessage("{}")
		return true
	})
	return wrap("mask", path, err)
}

// Delete 删除整个条目
func (m *MaskStore) Delete(_ context.Context, path string) error {
	return wrap("mask", path, m.idx.remove(path))
}
