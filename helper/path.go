package helper

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sjzsdu/arbor/share"
)

// StandardizePath 把用户输入的路径统一成以 / 开头、使用正斜杠的项目路径
func StandardizePath(path string) string {
	cleanPath := strings.ReplaceAll(path, "\\", "/")
	if !strings.HasPrefix(cleanPath, "/") {
		cleanPath = "/" + cleanPath
	}

	// 合并多余的 /
	prevPath := ""
	for prevPath != cleanPath {
		prevPath = cleanPath
		cleanPath = strings.ReplaceAll(cleanPath, "//", "/")
	}
	if len(cleanPath) > 1 {
		cleanPath = strings.TrimSuffix(cleanPath, "/")
	}
	return cleanPath
}

// Segments 把项目路径拆成各级名称，根路径返回空切片
func Segments(path string) []string {
	std := StandardizePath(path)
	if std == "/" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(std[1:], "/") {
		if p == "" || p == "." {
			continue
		}
		parts = append(parts, p)
	}
	return parts
}

// IsWithin 判断 target 是否位于 root 之下（包括 root 本身）
func IsWithin(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// GetPath 返回用户配置目录下的路径
func GetPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	if name == "" {
		return filepath.Join(home, share.PATH)
	}
	return filepath.Join(home, share.PATH, name)
}

// WriteFile 写文件，必要时创建父目录
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
