package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sjzsdu/arbor/helper"
	"github.com/spf13/afero"
)

// ErrNotExist JSON 文件不存在
var ErrNotExist = errors.New("json file does not exist")

// JSONStore 管理特定目录下的JSON文件
type JSONStore struct {
	fs afero.Fs
	// 基础目录，默认为用户家目录下的 .arbor
	BaseDir string
	// 子目录，用于区分不同类型的JSON文件
	SubDir string
	// 完整目录路径 (BaseDir + SubDir)
	Path string
}

// NewJSONStore 创建一个新的JSONStore
// baseDir 为空时使用 ~/.arbor，subDir 是可选的子目录名称
func NewJSONStore(fs afero.Fs, baseDir, subDir string) (*JSONStore, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if baseDir == "" {
		baseDir = helper.GetPath("")
	}

	path := baseDir
	if subDir != "" {
		path = filepath.Join(baseDir, subDir)
	}

	if err := fs.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("创建目录失败 %s: %w", path, err)
	}

	return &JSONStore{
		fs:      fs,
		BaseDir: baseDir,
		SubDir:  subDir,
		Path:    path,
	}, nil
}

// ensureJSONExtension 确保文件名有.json扩展名
func ensureJSONExtension(filename string) string {
	if !strings.HasSuffix(strings.ToLower(filename), ".json") {
		return filename + ".json"
	}
	return filename
}

func (s *JSONStore) filePath(name string) string {
	return filepath.Join(s.Path, ensureJSONExtension(name))
}

// Get 获取指定名称的JSON文件内容
// 如果decodeInto不为nil，将JSON内容解码到该结构中
func (s *JSONStore) Get(name string, decodeInto any) ([]byte, error) {
	filePath := s.filePath(name)

	data, err := afero.ReadFile(s.fs, filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, ensureJSONExtension(name))
	}
	if err != nil {
		return nil, fmt.Errorf("读取文件失败 %s: %w", filePath, err)
	}

	if decodeInto != nil {
		if err := json.Unmarshal(data, decodeInto); err != nil {
			return data, fmt.Errorf("解析JSON失败 %s: %w", filePath, err)
		}
	}
	return data, nil
}

// Set 设置或创建指定名称的JSON文件
// data可以是字节数组、字符串或任何可以编码为JSON的对象
func (s *JSONStore) Set(name string, data any) error {
	var jsonData []byte
	var err error

	switch v := data.(type) {
	case []byte:
		if !json.Valid(v) {
			return fmt.Errorf("提供的数据不是有效的JSON")
		}
		jsonData = v
	case string:
		if !json.Valid([]byte(v)) {
			return fmt.Errorf("提供的字符串不是有效的JSON")
		}
		jsonData = []byte(v)
	default:
		jsonData, err = json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("编码为JSON失败: %w", err)
		}
	}

	filePath := s.filePath(name)
	if err := afero.WriteFile(s.fs, filePath, jsonData, 0o644); err != nil {
		return fmt.Errorf("写入文件失败 %s: %w", filePath, err)
	}
	return nil
}

// Delete 删除指定名称的JSON文件
func (s *JSONStore) Delete(name string) error {
	if !s.Exists(name) {
		return fmt.Errorf("%w: %s", ErrNotExist, ensureJSONExtension(name))
	}
	if err := s.fs.Remove(s.filePath(name)); err != nil {
		return fmt.Errorf("删除文件失败 %s: %w", name, err)
	}
	return nil
}

// List 列出所有JSON文件，返回不带.json扩展名的文件名
func (s *JSONStore) List() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.Path)
	if err != nil {
		return nil, fmt.Errorf("读取目录失败 %s: %w", s.Path, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(strings.ToLower(name), ".json") {
			files = append(files, name[:len(name)-len(".json")])
		}
	}
	sort.Strings(files)
	return files, nil
}

// Exists 检查指定名称的JSON文件是否存在
func (s *JSONStore) Exists(name string) bool {
	ok, err := afero.Exists(s.fs, s.filePath(name))
	return err == nil && ok
}

// Update 读取现有文件，应用更新，然后写回；文件不存在时从空对象开始
func (s *JSONStore) Update(name string, updateFunc func(map[string]any) error) error {
	data := make(map[string]any)
	if _, err := s.Get(name, &data); err != nil && !errors.Is(err, ErrNotExist) {
		return err
	}
	if data == nil {
		data = make(map[string]any)
	}

	if err := updateFunc(data); err != nil {
		return fmt.Errorf("更新JSON数据失败: %w", err)
	}
	return s.Set(name, data)
}
