package workspace

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sjzsdu/arbor/cache"
	"github.com/sjzsdu/arbor/events"
	"github.com/sjzsdu/arbor/explorer"
	"github.com/sjzsdu/arbor/lang"
	"github.com/spf13/afero"
)

var _ explorer.FileOpener = (*Workspace)(nil)

// Read 读取文件文本：优先使用内容缓存，其次读磁盘并记录格式
func (w *Workspace) Read(path string) (string, error) {
	if e, ok := w.caches.Content.Get(path); ok {
		return e.Content, nil
	}

	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return "", err
	}
	format := cache.DetectFormat(data)
	if err := w.caches.Format.Set(path, format); err != nil {
		w.logger.Debug("record format failed", "path", path, "err", err)
	}

	text := normalize(data)
	w.caches.Content.Set(path, text, false)
	return text, nil
}

// OpenAsEditorTab 读取文件并作为标签页打开，已打开时只激活
func (w *Workspace) OpenAsEditorTab(path string) error {
	if _, err := w.Read(path); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	w.tabs.Add(path)
	return nil
}

// Edit 修改已打开文件的缓存内容，保存前不写磁盘
func (w *Workspace) Edit(path, content string) {
	w.caches.Content.Set(path, content, true)
}

// Save 写入文件，必要时创建父目录。refresh 为真时请求刷新父目录，open 为真时打开为标签页。
func (w *Workspace) Save(ctx context.Context, path, content string, refresh, open bool) error {
	if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	format, ok, err := w.caches.Format.Get(path)
	if err != nil || !ok {
		format = cache.Format{LineEnding: cache.LineEndingLF}
	}
	if err := afero.WriteFile(w.fs, path, format.Apply(content), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	if _, cached := w.caches.Content.Get(path); cached {
		w.caches.Content.Set(path, content, false)
	}
	w.events.Saved.Trigger(events.FileSaved{Path: path})

	if refresh {
		w.events.Refresh.Trigger(events.RefreshExplorer{Path: filepath.Dir(path)})
	}
	if open {
		return w.OpenAsEditorTab(path)
	}
	return nil
}

// SaveTab 把标签页的缓存内容写回磁盘
func (w *Workspace) SaveTab(ctx context.Context, path string) error {
	e, ok := w.caches.Content.Get(path)
	if !ok {
		return fmt.Errorf("save %s: %w", path, cache.ErrNoEntry)
	}
	if !e.Dirty {
		return nil
	}
	return w.Save(ctx, path, e.Content, false, false)
}

// Move 把节点移到另一个目录下：先在磁盘上移动，再更新树和缓存
func (w *Workspace) Move(ctx context.Context, node, newParent *explorer.Node) error {
	if !newParent.IsFolder() {
		return fmt.Errorf("move to %s: %w", newParent.Path(), explorer.ErrNotFolder)
	}
	if err := ensureLoaded(ctx, newParent); err != nil {
		return err
	}
	name := node.Name()
	if newParent.Find(name) != nil {
		w.notifier.Notify(lang.T("File already exists"), lang.Tf("A file named %s already exists in this folder", name))
		return fmt.Errorf("move %s: %w", node.Path(), explorer.ErrNameTaken)
	}

	oldAbs := node.AbsolutePath()
	newAbs := filepath.Join(newParent.AbsolutePath(), name)
	if err := w.fs.Rename(oldAbs, newAbs); err != nil {
		return fmt.Errorf("move %s: %w", oldAbs, err)
	}
	w.tabs.Retarget(oldAbs, newAbs)
	return node.Reparent(ctx, newParent)
}

// RenameFile 在磁盘上改名并同步树、缓存和标签页
func (w *Workspace) RenameFile(ctx context.Context, node *explorer.Node, name string) error {
	parent := node.Parent()
	if parent == nil {
		return fmt.Errorf("rename %s: %w", node.Path(), explorer.ErrNoParent)
	}
	if name == node.Name() {
		return nil
	}
	if parent.Find(name) != nil {
		w.notifier.Notify(lang.T("File already exists"), lang.Tf("A file named %s already exists in this folder", name))
		return fmt.Errorf("rename %s: %w", node.Path(), explorer.ErrNameTaken)
	}

	oldAbs := node.AbsolutePath()
	newAbs := filepath.Join(parent.AbsolutePath(), name)
	if err := w.fs.Rename(oldAbs, newAbs); err != nil {
		return fmt.Errorf("rename %s: %w", oldAbs, err)
	}
	w.tabs.Retarget(oldAbs, newAbs)

	if node.IsFolder() {
		node.Rename(name)
		parent.Sort()
		return updateChildren(ctx, node)
	}

	if err := w.caches.Coordinator().RenameAll(ctx, oldAbs, newAbs); err != nil {
		return fmt.Errorf("rename %s: %w", oldAbs, err)
	}
	node.Rename(name)
	parent.Sort()
	return nil
}

func updateChildren(ctx context.Context, folder *explorer.Node) error {
	abs, rel := folder.AbsolutePath(), folder.Path()
	for _, child := range folder.Children() {
		if err := child.Update(ctx, abs, rel); err != nil {
			return err
		}
	}
	return nil
}

// Delete 删除磁盘上的文件或目录，再从树上移除节点
func (w *Workspace) Delete(ctx context.Context, node *explorer.Node) error {
	abs := node.AbsolutePath()
	if err := w.fs.RemoveAll(abs); err != nil {
		return fmt.Errorf("delete %s: %w", abs, err)
	}
	return node.Remove(ctx)
}

// CreateFolder 创建目录并请求刷新父目录
func (w *Workspace) CreateFolder(ctx context.Context, path string) error {
	if err := w.fs.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	w.events.Refresh.Trigger(events.RefreshExplorer{Path: filepath.Dir(path)})
	return nil
}

func normalize(data []byte) string {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			continue
		}
		out = append(out, data[i])
	}
	return string(out)
}
