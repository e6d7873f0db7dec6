package config

import (
	"slices"
	"strconv"
)

// ConfigKeyInfo 存储配置键的相关信息
type ConfigKeyInfo struct {
	Description string   // 配置项描述
	Options     []string // 可选值，如果为空则表示没有限制
	Type        string   // 配置项类型，默认为 "string"，也可以是 "int"
}

// 配置键常量定义
const (
	KeyLang            = "lang"
	KeyIdleWorkers     = "idle_workers"
	KeyWatchDebounceMs = "watch_debounce_ms"
	KeyCacheDir        = "cache_dir"
	KeyRenderer        = "renderer"
)

// ConfigKeys 存储所有配置键及其信息
var ConfigKeys = map[string]ConfigKeyInfo{
	KeyLang: {
		Description: "Set language",
		Options:     []string{"en", "zh"},
		Type:        "string",
	},
	KeyIdleWorkers: {
		Description: "Number of background workers for deferred folder loads",
		Type:        "int",
	},
	KeyWatchDebounceMs: {
		Description: "Quiet period in milliseconds before a watched change refreshes the tree",
		Type:        "int",
	},
	KeyCacheDir: {
		Description: "Directory where format and mask caches are stored",
		Type:        "string",
	},
	KeyRenderer: {
		Description: "Set tree output render type",
		Options:     []string{"text", "markdown"},
		Type:        "string",
	},
}

// GetConfigDescription 获取配置键的描述
func GetConfigDescription(key string) string {
	if info, exists := ConfigKeys[key]; exists {
		return info.Description
	}
	return ""
}

// GetConfigOptions 获取配置键的可选值
func GetConfigOptions(key string) []string {
	if info, exists := ConfigKeys[key]; exists {
		return info.Options
	}
	return nil
}

// GetConfigType 获取配置键的类型
func GetConfigType(key string) string {
	if info, exists := ConfigKeys[key]; exists && info.Type != "" {
		return info.Type
	}
	return "string"
}

// IsValidConfigOption 检查给定的值是否是配置键的有效选项
func IsValidConfigOption(key, value string) bool {
	if GetConfigType(key) == "int" {
		n, err := strconv.Atoi(value)
		return err == nil && n >= 0
	}
	options := GetConfigOptions(key)
	if len(options) == 0 {
		return true
	}
	return slices.Contains(options, value)
}

// GetAllConfigKeys 获取所有配置键，按名称排序
func GetAllConfigKeys() []string {
	keys := make([]string, 0, len(ConfigKeys))
	for key := range ConfigKeys {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
