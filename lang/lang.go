package lang

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	current   string
	mu        sync.RWMutex
	initOnce  sync.Once
)

func setup() {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	entries, err := localeFS.ReadDir("locales")
	if err == nil {
		for _, entry := range entries {
			_, _ = bundle.LoadMessageFileFS(localeFS, "locales/"+entry.Name())
		}
	}
	setLanguageLocked(detect())
}

// detect 依次读取 ARBOR_LANG、LC_ALL 和 LANG 环境变量
func detect() string {
	for _, key := range []string{"ARBOR_LANG", "LC_ALL", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "en"
}

// SetLanguage 切换界面语言，例如 "zh"、"zh_CN.UTF-8"、"en"
func SetLanguage(lang string) {
	initOnce.Do(setup)
	mu.Lock()
	defer mu.Unlock()
	setLanguageLocked(lang)
}

func setLanguageLocked(lang string) {
	normalized := normalize(lang)
	tag, err := language.Parse(normalized)
	if err != nil {
		tag = language.English
	}
	base, _ := tag.Base()
	current = base.String()
	localizer = i18n.NewLocalizer(bundle, tag.String(), language.English.String())
}

func normalize(lang string) string {
	lang = strings.TrimSpace(lang)
	if i := strings.IndexByte(lang, '.'); i >= 0 {
		lang = lang[:i]
	}
	lang = strings.ReplaceAll(lang, "_", "-")
	if lang == "" || lang == "C" || lang == "POSIX" {
		return "en"
	}
	return lang
}

// Current 当前语言的基础代码
func Current() string {
	initOnce.Do(setup)
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// T 翻译一条消息，没有译文时原样返回
func T(id string) string {
	initOnce.Do(setup)
	mu.RLock()
	l := localizer
	mu.RUnlock()

	msg, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: id, Other: id},
	})
	if err != nil && msg == "" {
		return id
	}
	return msg
}

// Tf 翻译格式串后再格式化
func Tf(format string, args ...any) string {
	return fmt.Sprintf(T(format), args...)
}
