package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sjzsdu/arbor/explorer"
	"github.com/sjzsdu/arbor/helper/logger"
	"github.com/sjzsdu/arbor/scheduler"
	"github.com/sjzsdu/arbor/workspace"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type silent struct{}

func (silent) Notify(string, string) {}

func newTestServer(t *testing.T) (*Server, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/proj/README.md":   "# readme\r\n",
		"/proj/src/main.go": "package main\n",
		"/proj/cache/x.bin": "x",
	}
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	ws, err := workspace.New(workspace.Options{
		FS:        fs,
		Scheduler: scheduler.NewManual(),
		CacheDir:  "/state",
		Notifier:  silent{},
		Logger:    logger.Discard(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })

	_, err = ws.OpenProject(context.Background(), explorer.CategoryPrimary, "proj", "/proj")
	require.NoError(t, err)

	s, err := New(ws, explorer.CategoryPrimary, "proj")
	require.NoError(t, err)
	return s, fs
}

func text(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, r)
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func call(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	r, err := s.Call(context.Background(), name, args)
	require.NoError(t, err)
	return r
}

func TestNewRequiresOpenProject(t *testing.T) {
	s, _ := newTestServer(t)
	_, err := New(s.ws, explorer.CategoryOther, "missing")
	assert.ErrorIs(t, err, explorer.ErrNotFound)
	assert.Len(t, s.Tools(), 11)

	_, err = s.Call(context.Background(), "nope", nil)
	assert.Error(t, err)
}

func TestListAndTree(t *testing.T) {
	s, _ := newTestServer(t)

	r := call(t, s, "explorer_list", map[string]any{"path": "/"})
	require.False(t, r.IsError)
	var listing struct {
		Items []nodeInfo `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, r)), &listing))
	require.Len(t, listing.Items, 3)
	assert.Equal(t, "cache", listing.Items[0].Name)
	assert.Equal(t, "folder", listing.Items[1].Kind)
	assert.Equal(t, "proj/README.md", listing.Items[2].Path)

	r = call(t, s, "explorer_tree", map[string]any{"path": "src", "showFiles": true})
	require.False(t, r.IsError)
	assert.Equal(t, "src/ [1 items]\n└── main.go (13 B)\n", text(t, r))

	r = call(t, s, "explorer_list", map[string]any{"path": "README.md"})
	assert.True(t, r.IsError)
	r = call(t, s, "explorer_list", map[string]any{})
	assert.True(t, r.IsError)
}

func TestFilesSkipsCache(t *testing.T) {
	s, _ := newTestServer(t)
	r := call(t, s, "explorer_files", map[string]any{"path": ""})
	var files []string
	require.NoError(t, json.Unmarshal([]byte(text(t, r)), &files))
	assert.ElementsMatch(t, []string{"/proj/README.md", "/proj/src/main.go"}, files)
}

func TestReadSaveKeepsLineEndings(t *testing.T) {
	s, fs := newTestServer(t)

	r := call(t, s, "explorer_read", map[string]any{"path": "README.md"})
	assert.Equal(t, "# readme\n", text(t, r))

	r = call(t, s, "explorer_save", map[string]any{"path": "README.md", "content": "# readme\nmore\n"})
	require.False(t, r.IsError, text(t, r))
	data, err := afero.ReadFile(fs, "/proj/README.md")
	require.NoError(t, err)
	assert.Equal(t, "# readme\r\nmore\r\n", string(data))

	r = call(t, s, "explorer_save", map[string]any{"path": "docs/new.md", "content": "x"})
	require.False(t, r.IsError, text(t, r))
	r = call(t, s, "explorer_list", map[string]any{"path": "docs"})
	assert.False(t, r.IsError, text(t, r))
}

func TestStructuralTools(t *testing.T) {
	s, fs := newTestServer(t)

	r := call(t, s, "explorer_mkdir", map[string]any{"path": "lib"})
	require.False(t, r.IsError, text(t, r))

	r = call(t, s, "explorer_duplicate", map[string]any{"path": "src/main.go", "name": "copy.go"})
	require.False(t, r.IsError, text(t, r))
	exists, _ := afero.Exists(fs, "/proj/src/copy.go")
	assert.True(t, exists)

	r = call(t, s, "explorer_rename", map[string]any{"path": "src/copy.go", "name": "util.go"})
	require.False(t, r.IsError, text(t, r))

	r = call(t, s, "explorer_move", map[string]any{"path": "src/util.go", "target": "lib"})
	require.False(t, r.IsError, text(t, r))
	exists, _ = afero.Exists(fs, "/proj/lib/util.go")
	assert.True(t, exists)

	r = call(t, s, "explorer_delete", map[string]any{"path": "lib"})
	require.False(t, r.IsError, text(t, r))
	exists, _ = afero.Exists(fs, "/proj/lib")
	assert.False(t, exists)

	r = call(t, s, "explorer_delete", map[string]any{"path": ""})
	assert.True(t, r.IsError)

	r = call(t, s, "explorer_refresh", map[string]any{"path": ""})
	require.False(t, r.IsError, text(t, r))
}
