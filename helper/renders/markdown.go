package renders

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer 把文本输出到终端
type Renderer interface {
	Render(content string) error
}

// TextRenderer 原样输出
type TextRenderer struct {
	out io.Writer
}

func NewTextRenderer(out io.Writer) *TextRenderer {
	return &TextRenderer{out: out}
}

func (t *TextRenderer) Render(content string) error {
	_, err := io.WriteString(t.out, content)
	return err
}

// MarkdownRenderer 用 glamour 渲染 Markdown
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	out      io.Writer
}

// NewMarkdownRenderer 创建 Markdown 渲染器，style 为空时自动选择终端样式
func NewMarkdownRenderer(out io.Writer, style string) (*MarkdownRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(120)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("初始化 Markdown 渲染器失败: %w", err)
	}
	return &MarkdownRenderer{renderer: renderer, out: out}, nil
}

// Render 渲染失败时输出原始内容
func (m *MarkdownRenderer) Render(content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		_, werr := io.WriteString(m.out, content)
		return werr
	}
	for strings.Contains(rendered, "\n\n\n") {
		rendered = strings.ReplaceAll(rendered, "\n\n\n", "\n\n")
	}
	_, err = io.WriteString(m.out, rendered)
	return err
}

// New 按名称选择渲染器："markdown" 使用 glamour，其余原样输出
func New(kind string, out io.Writer) Renderer {
	if kind == "markdown" {
		if r, err := NewMarkdownRenderer(out, ""); err == nil {
			return r
		}
	}
	return NewTextRenderer(out)
}

// CodeBlock 把文本包装为 Markdown 代码块
func CodeBlock(lang, body string) string {
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return "```" + lang + "\n" + body + "```\n"
}
