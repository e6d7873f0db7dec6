package tree

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sjzsdu/arbor/explorer"
	"github.com/sjzsdu/arbor/scheduler"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T) *explorer.Node {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/proj/README.md":           "# Test Project\n",
		"/proj/src/main.go":         "package main\n",
		"/proj/src/utils/helper.go": "package utils\n",
		"/proj/docs/api.md":         "# API",
		"/proj/.gitignore":          "*.log\n",
	}
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	env := explorer.NewEnv(fs, scheduler.NewManual(), explorer.Hooks{})
	root := explorer.NewRoot(env, "proj", "/proj", explorer.WithKind(true))
	require.NoError(t, Expand(context.Background(), root, 0))
	return root
}

func TestTree(t *testing.T) {
	root := buildTree(t)

	want := "proj/ [4 items]\n" +
		"├── docs/ [1 items]\n" +
		"│   └── api.md (5 B)\n" +
		"├── src/ [2 items]\n" +
		"│   ├── utils/ [1 items]\n" +
		"│   │   └── helper.go (14 B)\n" +
		"│   └── main.go (13 B)\n" +
		"├── .gitignore (6 B)\n" +
		"└── README.md (15 B)\n"
	assert.Equal(t, want, Tree(root))
}

func TestTreeWithOptions(t *testing.T) {
	root := buildTree(t)

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "只显示目录",
			opts: Options{ShowHidden: true},
			want: "proj/ [2 items]\n├── docs/\n└── src/ [1 items]\n    └── utils/\n",
		},
		{
			name: "隐藏点文件且限制深度",
			opts: Options{ShowFiles: true, MaxDepth: 2},
			want: "proj/ [3 items]\n├── docs/ [1 items]\n├── src/ [2 items]\n└── README.md\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TreeWithOptions(root, tt.opts))
		})
	}
	assert.Empty(t, TreeWithOptions(nil, DefaultOptions()))
}

func TestExpandRespectsDepth(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/proj/a/b", 0o755))
	env := explorer.NewEnv(fs, scheduler.NewManual(), explorer.Hooks{})
	root := explorer.NewRoot(env, "proj", "/proj", explorer.WithKind(true))

	require.NoError(t, Expand(context.Background(), root, 1))
	a := root.Find("a")
	require.NotNil(t, a)
	assert.False(t, a.ChildrenLoaded())
}

func TestStats(t *testing.T) {
	root := buildTree(t)
	stats := Stats(root)

	assert.Equal(t, 9, stats.TotalNodes)
	assert.Equal(t, 4, stats.DirectoryCount)
	assert.Equal(t, 5, stats.FileCount)
	assert.Equal(t, int64(53), stats.TotalSize)
	assert.Equal(t, 3, stats.MaxDepth)
	assert.Equal(t, "4 directories, 5 files, 53 B total", stats.String())
	assert.Equal(t, Statistics{}, Stats(nil))
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.size))
	}
}
