package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sjzsdu/arbor/explorer"
	"github.com/sjzsdu/arbor/tree"
)

type nodeInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Loaded  bool   `json:"loaded"`
	Version uint64 `json:"version"`
}

func describe(n *explorer.Node) nodeInfo {
	return nodeInfo{
		ID:      n.ID(),
		Name:    n.Name(),
		Path:    n.Path(),
		Kind:    n.State().String(),
		Loaded:  n.ChildrenLoaded(),
		Version: uint64(n.Version()),
	}
}

func (s *Server) registerTools() {
	pathArg := mcp.WithString("path", mcp.Required(), mcp.Description("项目内的相对路径，根目录为空字符串或 /"))

	s.add(mcp.NewTool("explorer_list",
		mcp.WithDescription("列出目录的直接子节点，未加载的目录会先加载"),
		pathArg,
	), s.list)

	s.add(mcp.NewTool("explorer_tree",
		mcp.WithDescription("输出目录的树形结构（文本）"),
		pathArg,
		mcp.WithBoolean("showFiles", mcp.Description("是否显示文件，默认 true")),
		mcp.WithBoolean("showHidden", mcp.Description("是否显示隐藏项，默认 false")),
		mcp.WithNumber("maxDepth", mcp.Description("最大深度（0 表示不限制）")),
	), s.renderTree)

	s.add(mcp.NewTool("explorer_files",
		mcp.WithDescription("列出子树下所有文件的绝对路径，跳过 cache 目录"),
		pathArg,
	), s.files)

	s.add(mcp.NewTool("explorer_refresh",
		mcp.WithDescription("从磁盘重新同步目录，保留未变化节点的标识"),
		pathArg,
	), s.refresh)

	s.add(mcp.NewTool("explorer_read",
		mcp.WithDescription("读取文件文本，行尾统一为 LF"),
		pathArg,
	), s.read)

	s.add(mcp.NewTool("explorer_save",
		mcp.WithDescription("写入文件，保留原有的行尾格式，必要时创建父目录"),
		pathArg,
		mcp.WithString("content", mcp.Required(), mcp.Description("文件内容")),
	), s.save)

	s.add(mcp.NewTool("explorer_mkdir",
		mcp.WithDescription("创建目录（递归创建父目录）"),
		pathArg,
	), s.mkdir)

	s.add(mcp.NewTool("explorer_rename",
		mcp.WithDescription("在同一目录下改名，同步缓存和标签页"),
		pathArg,
		mcp.WithString("name", mcp.Required(), mcp.Description("新名字")),
	), s.rename)

	s.add(mcp.NewTool("explorer_move",
		mcp.WithDescription("把文件或目录移动到另一个目录"),
		pathArg,
		mcp.WithString("target", mcp.Required(), mcp.Description("目标目录的相对路径")),
	), s.move)

	s.add(mcp.NewTool("explorer_duplicate",
		mcp.WithDescription("在同一目录下复制文件"),
		pathArg,
		mcp.WithString("name", mcp.Required(), mcp.Description("副本的名字")),
		mcp.WithBoolean("open", mcp.Description("复制后是否打开，默认 false")),
	), s.duplicate)

	s.add(mcp.NewTool("explorer_delete",
		mcp.WithDescription("删除文件或目录（磁盘和树中同时移除）"),
		pathArg,
	), s.remove)
}

func (s *Server) node(ctx context.Context, req mcp.CallToolRequest) (*explorer.Node, *mcp.CallToolResult) {
	path, err := req.RequireString("path")
	if err != nil {
		return nil, mcp.NewToolResultError("missing or invalid path parameter")
	}
	n, err := s.resolve(ctx, path)
	if err != nil {
		return nil, toolError(err)
	}
	return n, nil
}

func (s *Server) folder(ctx context.Context, req mcp.CallToolRequest) (*explorer.Node, *mcp.CallToolResult) {
	n, res := s.node(ctx, req)
	if res != nil {
		return nil, res
	}
	if !n.IsFolder() {
		return nil, toolError(fmt.Errorf("%s: %w", n.Path(), explorer.ErrNotFolder))
	}
	if !n.ChildrenLoaded() {
		if err := n.Load(ctx); err != nil {
			return nil, toolError(err)
		}
	}
	return n, nil
}

func (s *Server) list(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, res := s.folder(ctx, req)
	if res != nil {
		return res, nil
	}
	children := n.Children()
	items := make([]nodeInfo, 0, len(children))
	for _, c := range children {
		items = append(items, describe(c))
	}
	return mcp.NewToolResultText(toJSON(map[string]any{"node": describe(n), "items": items})), nil
}

func (s *Server) renderTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, res := s.folder(ctx, req)
	if res != nil {
		return res, nil
	}
	opts := tree.Options{
		ShowFiles:  req.GetBool("showFiles", true),
		ShowHidden: req.GetBool("showHidden", false),
		ShowSize:   true,
		MaxDepth:   req.GetInt("maxDepth", 0),
	}
	if err := tree.Expand(ctx, n, opts.MaxDepth); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(tree.TreeWithOptions(n, opts)), nil
}

func (s *Server) files(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, res := s.node(ctx, req)
	if res != nil {
		return res, nil
	}
	if err := tree.Expand(ctx, n, 0); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(toJSON(n.GetAllFiles())), nil
}

func (s *Server) refresh(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, res := s.node(ctx, req)
	if res != nil {
		return res, nil
	}
	if !n.IsFolder() {
		return toolError(fmt.Errorf("%s: %w", n.Path(), explorer.ErrNotFolder)), nil
	}
	if _, err := n.Refresh(ctx); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(toJSON(describe(n))), nil
}

func (s *Server) read(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, res := s.node(ctx, req)
	if res != nil {
		return res, nil
	}
	if n.IsFolder() {
		return toolError(fmt.Errorf("%s: %w", n.Path(), explorer.ErrNotFile)), nil
	}
	text, err := s.ws.Read(n.AbsolutePath())
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) save(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing or invalid path parameter"), nil
	}
	content := req.GetString("content", "")
	abs, err := s.absPath(path)
	if err != nil {
		return toolError(err), nil
	}
	if err := s.ws.Save(ctx, abs, content, true, false); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved %s", abs)), nil
}

func (s *Server) mkdir(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing or invalid path parameter"), nil
	}
	abs, err := s.absPath(path)
	if err != nil {
		return toolError(err), nil
	}
	if err := s.ws.CreateFolder(ctx, abs); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created %s", abs)), nil
}

func (s *Server) rename(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, res := s.node(ctx, req)
	if res != nil {
		return res, nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("missing or invalid name parameter"), nil
	}
	if err := s.ws.RenameFile(ctx, n, name); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(toJSON(describe(n))), nil
}

func (s *Server) move(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, res := s.node(ctx, req)
	if res != nil {
		return res, nil
	}
	target, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError("missing or invalid target parameter"), nil
	}
	dst, err := s.resolve(ctx, target)
	if err != nil {
		return toolError(err), nil
	}
	if err := s.ws.Move(ctx, n, dst); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(toJSON(describe(n))), nil
}

func (s *Server) duplicate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, res := s.node(ctx, req)
	if res != nil {
		return res, nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("missing or invalid name parameter"), nil
	}
	if err := n.Duplicate(ctx, name, req.GetBool("open", false)); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("duplicated %s as %s", n.Path(), name)), nil
}

func (s *Server) remove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, res := s.node(ctx, req)
	if res != nil {
		return res, nil
	}
	if n.Parent() == nil {
		return toolError(fmt.Errorf("%s: %w", n.Path(), explorer.ErrNoParent)), nil
	}
	if err := s.ws.Delete(ctx, n); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted %s", n.Path())), nil
}
