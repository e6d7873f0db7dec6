package explorer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sjzsdu/arbor/helper/logger"
	"github.com/sjzsdu/arbor/scheduler"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type call struct {
	Store string
	Op    string
	Old   string
	New   string
}

// recorder 记录所有外部协作者收到的调用，顺序即发生顺序
type recorder struct {
	mu     sync.Mutex
	calls  []call
	events []string
}

func (r *recorder) add(c call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	r.events = append(r.events, c.Op+":"+c.Old)
}

func (r *recorder) event(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Calls() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeStore struct {
	name   string
	rec    *recorder
	fail   error
	before func(op, oldPath string)
}

func (s *fakeStore) do(op, oldPath, newPath string) error {
	if s.before != nil {
		s.before(op, oldPath)
	}
	s.rec.add(call{Store: s.name, Op: op, Old: oldPath, New: newPath})
	return s.fail
}

func (s *fakeStore) Rename(_ context.Context, oldPath, newPath string) error {
	return s.do("rename", oldPath, newPath)
}

func (s *fakeStore) Duplicate(_ context.Context, oldPath, newPath string) error {
	return s.do("duplicate", oldPath, newPath)
}

func (s *fakeStore) Clear(_ context.Context, path string) error {
	return s.do("clear", path, "")
}

func (s *fakeStore) Delete(_ context.Context, path string) error {
	return s.do("delete", path, "")
}

type fakeTabs struct{ rec *recorder }

func (f fakeTabs) CloseByPath(path string) { f.rec.event("tab:" + path) }

type fakeOpener struct{ rec *recorder }

func (f fakeOpener) OpenAsEditorTab(path string) error {
	f.rec.event("open:" + path)
	return nil
}

type fakeNotifier struct{ rec *recorder }

func (f fakeNotifier) Notify(title, message string) { f.rec.event("notify:" + title) }

type fixture struct {
	fs      afero.Fs
	sched   *scheduler.Manual
	env     *Env
	rec     *recorder
	content *fakeStore
	format  *fakeStore
	mask    *fakeStore
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		if content == "/" {
			require.NoError(t, fs.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}

	rec := &recorder{}
	f := &fixture{
		fs:      fs,
		sched:   scheduler.NewManual(),
		rec:     rec,
		content: &fakeStore{name: "content", rec: rec},
		format:  &fakeStore{name: "format", rec: rec},
		mask:    &fakeStore{name: "mask", rec: rec},
	}
	f.env = NewEnv(fs, f.sched, Hooks{
		Caches:   Coordinator{Content: f.content, Format: f.format, Mask: f.mask},
		Tabs:     fakeTabs{rec},
		OnDelete: func(path string) { rec.event("delete:" + path) },
		Opener:   fakeOpener{rec},
		Notifier: fakeNotifier{rec},
	})
	f.env.Logger = logger.Discard()
	return f
}

// loadedRoot 创建根节点并执行所有推迟的加载
func (f *fixture) loadedRoot(t *testing.T, abs string) *Node {
	t.Helper()
	root := NewRoot(f.env, "proj", abs)
	f.settle(t, root)
	return root
}

func (f *fixture) settle(t *testing.T, root *Node) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, root.Wait(ctx))
	f.sched.RunPending()
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}

// lstatFailFs 对指定路径的 lstat 返回错误
type lstatFailFs struct {
	afero.Fs
	fail string
}

func (f *lstatFailFs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	if name == f.fail {
		return nil, true, errors.New("permission denied")
	}
	info, err := f.Fs.Stat(name)
	return info, true, err
}
