package share

import "time"

// VERSION 版本号
const VERSION = "0.3.0"

// BUILDNAME 制品名称
const BUILDNAME = "arbor"

// PREFIX 环境变量前缀
const PREFIX = "ARBOR_"

// PATH 用户目录下的配置目录
const PATH = ".arbor"

// RESERVED_DIR 全量文件枚举时跳过的保留目录名
const RESERVED_DIR = "cache"

// WATCH_DEBOUNCE 文件监听的默认合并窗口
const WATCH_DEBOUNCE = 300 * time.Millisecond

// MCP_SERVER_NAME MCP 服务名称
const MCP_SERVER_NAME = "Arbor Explorer"
