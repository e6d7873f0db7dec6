package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sjzsdu/arbor/explorer"
	"github.com/sjzsdu/arbor/helper/logger"
	"github.com/sjzsdu/arbor/scheduler"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedTree(t *testing.T, fs afero.Fs, abs string) *explorer.Node {
	t.Helper()
	sched := scheduler.NewManual()
	env := explorer.NewEnv(fs, sched, explorer.Hooks{})
	env.Logger = logger.Discard()
	root := explorer.NewRoot(env, filepath.Base(abs), abs)
	require.NoError(t, root.Wait(context.Background()))
	sched.RunPending()
	return root
}

func TestTargets(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, p := range []string{"/p/a/x.txt", "/p/a/b/y.txt", "/p/c/z.txt"} {
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(fs, p, []byte("x"), 0o644))
	}
	root := loadedTree(t, fs, "/p")
	a := root.Find("a")
	c := root.Find("c")

	t.Run("同一目录合并", func(t *testing.T) {
		got := Targets(root, []string{"/p/a/new.txt", "/p/a/x.txt"})
		assert.Equal(t, []*explorer.Node{a}, got)
	})

	t.Run("祖先覆盖子目录", func(t *testing.T) {
		got := Targets(root, []string{"/p/a/b/y.txt", "/p/a/x.txt", "/p/c/z.txt"})
		assert.Equal(t, []*explorer.Node{a, c}, got)
	})

	t.Run("未知目录回退到最近的已加载目录", func(t *testing.T) {
		got := Targets(root, []string{"/p/a/unknown/deep/file.txt"})
		assert.Equal(t, []*explorer.Node{a}, got)
	})

	t.Run("根目录外的路径", func(t *testing.T) {
		assert.Empty(t, Targets(root, []string{"/elsewhere/f.txt"}))
	})
}

func TestIgnore(t *testing.T) {
	patterns := append(DefaultIgnores(), "build/**")
	assert.True(t, matchAny(patterns, ".git"))
	assert.True(t, matchAny(patterns, "sub/.git/HEAD"))
	assert.True(t, matchAny(patterns, "build/out.bin"))
	assert.True(t, matchAny(patterns, "notes.txt~"))
	assert.False(t, matchAny(patterns, "src/main.go"))
}

func TestNewRejectsInvalidPattern(t *testing.T) {
	root := explorer.NewRoot(nil, "x", "/x", explorer.WithKind(false))
	_, err := New(Config{Root: root, Ignore: []string{"[bad"}})
	assert.Error(t, err)

	_, err = New(Config{})
	assert.Error(t, err)
}

func TestRunRefreshesTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	root := loadedTree(t, afero.NewOsFs(), dir)

	var mu sync.Mutex
	refreshed := 0
	w, err := New(Config{
		Root:     root,
		Debounce: 20 * time.Millisecond,
		Logger:   logger.Discard(),
		OnRefresh: func(node *explorer.Node, err error) {
			mu.Lock()
			refreshed++
			mu.Unlock()
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))
	assert.Eventually(t, func() bool {
		return root.Find("b.txt") != nil
	}, 5*time.Second, 20*time.Millisecond)

	mu.Lock()
	assert.Positive(t, refreshed)
	mu.Unlock()

	cancel()
	require.NoError(t, <-done)
	assert.Error(t, w.Run(context.Background()))
}
