package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"带编码的区域设置", "zh_CN.UTF-8", "zh-CN"},
		{"POSIX 默认值", "C", "en"},
		{"空字符串", "  ", "en"},
		{"已经规范", "en-US", "en-US"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.in))
		})
	}
}

func TestTranslate(t *testing.T) {
	t.Cleanup(func() { SetLanguage("en") })

	SetLanguage("zh_CN.UTF-8")
	assert.Equal(t, "zh", Current())
	assert.Equal(t, "文件已存在", T("File already exists"))
	assert.Equal(t, "此文件夹中已存在名为 a.txt 的文件", Tf("A file named %s already exists in this folder", "a.txt"))
	assert.Equal(t, "no such message", T("no such message"))

	SetLanguage("en")
	assert.Equal(t, "en", Current())
	assert.Equal(t, "File already exists", T("File already exists"))

	SetLanguage("not a language!")
	assert.Equal(t, "en", Current())
}
