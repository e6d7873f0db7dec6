package renders

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New("text", &buf).Render("a\nb"))
	assert.Equal(t, "a\nb", buf.String())
}

func TestMarkdownRenderer(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewMarkdownRenderer(&buf, "notty")
	require.NoError(t, err)
	require.NoError(t, r.Render("# Title\n\nsome *text*"))
	assert.Contains(t, buf.String(), "Title")
	assert.Contains(t, buf.String(), "text")
	assert.NotContains(t, buf.String(), "\n\n\n")
}

func TestCodeBlock(t *testing.T) {
	assert.Equal(t, "```text\nx\n```\n", CodeBlock("text", "x"))
	assert.Equal(t, "```\nx\n```\n", CodeBlock("", "x\n"))
}
