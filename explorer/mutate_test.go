package explorer

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callsOf(calls []call, op string) []call {
	var out []call
	for _, c := range calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func TestUpdateFile(t *testing.T) {
	f := newFixture(t, map[string]string{"/proj/f.txt": "f"})
	root := f.loadedRoot(t, "/proj")
	file := root.Find("f.txt")
	require.NotNil(t, file)

	var seen []string
	f.content.before = func(op, oldPath string) {
		seen = append(seen, file.AbsolutePath())
	}

	before := file.Version()
	require.NoError(t, file.Update(context.Background(), "/other", "other"))

	renames := callsOf(f.rec.Calls(), "rename")
	require.Len(t, renames, 3)
	stores := []string{}
	for _, c := range renames {
		stores = append(stores, c.Store)
		assert.Equal(t, "/proj/f.txt", c.Old)
		assert.Equal(t, "/other/f.txt", c.New)
	}
	assert.ElementsMatch(t, []string{"content", "format", "mask"}, stores)
	assert.Equal(t, []string{"/proj/f.txt"}, seen)

	assert.Equal(t, "/other/f.txt", file.AbsolutePath())
	assert.Equal(t, "other/f.txt", file.Path())
	assert.Greater(t, file.Version(), before)
}

func TestUpdateFileCacheFailure(t *testing.T) {
	f := newFixture(t, map[string]string{"/proj/f.txt": "f"})
	root := f.loadedRoot(t, "/proj")
	file := root.Find("f.txt")
	f.format.fail = errors.New("disk full")

	err := file.Update(context.Background(), "/other", "other")
	require.Error(t, err)
	assert.Equal(t, "/proj/f.txt", file.AbsolutePath())
}

func TestUpdateFolderRecursive(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/proj/dir/a.txt":     "a",
		"/proj/dir/sub/b.txt": "b",
	})
	root := f.loadedRoot(t, "/proj")
	dir := root.Find("dir")
	sub := dir.Find("sub")
	b := sub.Find("b.txt")
	before := dir.Version()

	require.NoError(t, dir.Update(context.Background(), "/moved", "moved"))

	assert.Equal(t, "/moved/dir", dir.AbsolutePath())
	assert.Equal(t, "/moved/dir/sub", sub.AbsolutePath())
	assert.Equal(t, "/moved/dir/sub/b.txt", b.AbsolutePath())
	assert.Equal(t, "moved/dir/sub/b.txt", b.Path())
	assert.Greater(t, dir.Version(), before)

	renames := callsOf(f.rec.Calls(), "rename")
	assert.Len(t, renames, 6)
	for _, c := range renames {
		assert.Contains(t, []string{"/proj/dir/a.txt", "/proj/dir/sub/b.txt"}, c.Old)
	}
}

func TestUpdateUnloadedFolderLoadsFirst(t *testing.T) {
	f := newFixture(t, map[string]string{"/new/dir/x.txt": "x"})
	dir := NewRoot(f.env, "dir", "/old/dir", WithKind(true))

	require.NoError(t, dir.Update(context.Background(), "/new", "new"))
	assert.True(t, dir.ChildrenLoaded())
	x := dir.Find("x.txt")
	require.NotNil(t, x)
	assert.Equal(t, "/new/dir/x.txt", x.AbsolutePath())
}

func TestUpdateFailedNode(t *testing.T) {
	f := newFixture(t, nil)
	missing := NewRoot(f.env, "missing", "/missing")
	err := missing.Update(context.Background(), "/x", "x")
	assert.ErrorIs(t, err, ErrUnclassified)
	assert.Empty(t, f.rec.Calls())
}

func TestReparent(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/proj/dir1/a.txt": "a",
		"/proj/dir2/z.txt": "z",
	})
	root := f.loadedRoot(t, "/proj")
	dir1, dir2 := root.Find("dir1"), root.Find("dir2")
	a := dir1.Find("a.txt")

	require.NoError(t, a.Reparent(context.Background(), dir2))
	assert.Nil(t, dir1.Find("a.txt"))
	assert.Same(t, a, dir2.Find("a.txt"))
	assert.Same(t, dir2, a.Parent())
	assert.Equal(t, "/proj/dir2/a.txt", a.AbsolutePath())
	assert.Equal(t, []string{"a.txt", "z.txt"}, names(dir2.Children()))
	assert.Len(t, callsOf(f.rec.Calls(), "rename"), 3)
}

func TestRemoveBottomUp(t *testing.T) {
	f := newFixture(t, map[string]string{"/proj/b/c.txt": "c"})
	root := f.loadedRoot(t, "/proj")
	b := root.Find("b")
	require.NotNil(t, b)

	rootVersion := root.Version()
	var versionAtB Version
	f.env.Hooks.OnDelete = func(path string) {
		f.rec.event("delete:" + path)
		if path == "/proj/b" {
			versionAtB = root.Version()
		}
	}

	require.NoError(t, b.Remove(context.Background()))

	events := f.rec.Events()
	firstB := slices.Index(events, "tab:/proj/b")
	require.GreaterOrEqual(t, firstB, 0)
	for i, e := range events {
		switch e {
		case "tab:/proj/b/c.txt", "delete:/proj/b/c.txt", "clear:/proj/b/c.txt":
			assert.Less(t, i, firstB, e)
		}
	}
	assert.Contains(t, events, "delete:/proj/b/c.txt")
	assert.Contains(t, events, "delete:/proj/b")

	deletes := callsOf(f.rec.Calls(), "delete")
	require.Len(t, deletes, 2)
	for _, c := range deletes {
		assert.Equal(t, "mask", c.Store)
	}
	assert.Len(t, callsOf(f.rec.Calls(), "clear"), 4)

	assert.Equal(t, rootVersion, versionAtB)
	assert.Greater(t, root.Version(), rootVersion)
	assert.Nil(t, root.Find("b"))
	assert.Empty(t, b.Children())

	exists, err := afero.Exists(f.fs, "/proj/b/c.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRemoveCacheFailure(t *testing.T) {
	f := newFixture(t, map[string]string{"/proj/a.txt": "a"})
	root := f.loadedRoot(t, "/proj")
	a := root.Find("a.txt")
	f.mask.fail = errors.New("locked")

	err := a.Remove(context.Background())
	require.Error(t, err)

	var opErr *Error
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, OpRemove, opErr.Op)
	assert.Contains(t, f.rec.Events(), "tab:/proj/a.txt")
	assert.Nil(t, root.Find("a.txt"))
}

func TestDuplicate(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/proj/a.txt": "hello",
		"/proj/dir/x": "x",
	})
	root := f.loadedRoot(t, "/proj")
	a := root.Find("a.txt")
	before := root.Version()

	require.NoError(t, a.Duplicate(context.Background(), "a copy.txt", true))

	data, err := afero.ReadFile(f.fs, "/proj/a copy.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	dup := root.Find("a copy.txt")
	require.NotNil(t, dup)
	assert.Equal(t, StateFile, dup.State())
	assert.Equal(t, "proj/a copy.txt", dup.Path())
	assert.Equal(t, []string{"dir", "a copy.txt", "a.txt"}, names(root.Children()))
	assert.Greater(t, root.Version(), before)

	assert.Len(t, callsOf(f.rec.Calls(), "duplicate"), 3)
	assert.Contains(t, f.rec.Events(), "open:/proj/a copy.txt")
}

func TestDuplicateNameTaken(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/proj/a.txt": "a",
		"/proj/b.txt": "b",
	})
	root := f.loadedRoot(t, "/proj")
	a := root.Find("a.txt")
	before := root.Version()

	err := a.Duplicate(context.Background(), "b.txt", true)
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.Empty(t, f.rec.Calls())
	assert.Equal(t, before, root.Version())

	events := f.rec.Events()
	require.Len(t, events, 1)
	assert.Contains(t, events[0], "notify:")

	data, err := afero.ReadFile(f.fs, "/proj/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestDuplicateToleratesContentCache(t *testing.T) {
	f := newFixture(t, map[string]string{"/proj/a.txt": "a"})
	root := f.loadedRoot(t, "/proj")
	f.content.fail = errors.New("gone")

	require.NoError(t, root.Find("a.txt").Duplicate(context.Background(), "b.txt", false))
	assert.NotNil(t, root.Find("b.txt"))
	assert.NotContains(t, f.rec.Events(), "open:/proj/b.txt")

	f.format.fail = errors.New("broken")
	err := root.Find("a.txt").Duplicate(context.Background(), "c.txt", false)
	require.Error(t, err)
	assert.Nil(t, root.Find("c.txt"))
}

func TestDuplicateRejectsFoldersAndRoots(t *testing.T) {
	f := newFixture(t, map[string]string{"/proj/dir/x": "x"})
	root := f.loadedRoot(t, "/proj")

	assert.ErrorIs(t, root.Find("dir").Duplicate(context.Background(), "dir2", false), ErrNotFile)
	assert.ErrorIs(t, root.Duplicate(context.Background(), "proj2", false), ErrNoParent)
	assert.Empty(t, f.rec.Calls())
}
