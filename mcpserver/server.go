package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sjzsdu/arbor/explorer"
	"github.com/sjzsdu/arbor/helper"
	"github.com/sjzsdu/arbor/helper/logger"
	"github.com/sjzsdu/arbor/share"
	"github.com/sjzsdu/arbor/workspace"
)

// Server 通过 MCP 工具暴露一个已打开项目的文件树
type Server struct {
	ws       *workspace.Workspace
	category explorer.Category
	project  string
	logger   *log.Logger

	mcp      *server.MCPServer
	handlers map[string]server.ToolHandlerFunc
}

// New 为工作区中的项目创建 MCP 服务器，项目必须已经打开
func New(ws *workspace.Workspace, category explorer.Category, project string) (*Server, error) {
	if _, err := ws.Root(category, project); err != nil {
		return nil, err
	}
	s := &Server{
		ws:       ws,
		category: category,
		project:  project,
		logger:   logger.Named("mcp"),
		mcp: server.NewMCPServer(
			share.MCP_SERVER_NAME,
			share.VERSION,
			server.WithToolCapabilities(true),
		),
		handlers: make(map[string]server.ToolHandlerFunc),
	}
	s.registerTools()
	return s, nil
}

// MCP 返回底层的 MCP 服务器，用于选择传输方式启动
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Call 直接调用已注册的工具
func (s *Server) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	h, ok := s.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return h(ctx, req)
}

// Tools 返回已注册的工具名称
func (s *Server) Tools() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	return names
}

func (s *Server) add(tool mcp.Tool, h server.ToolHandlerFunc) {
	name := tool.Name
	wrapped := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.logger.Debug("tool call", "tool", name)
		return h(ctx, req)
	}
	s.mcp.AddTool(tool, wrapped)
	s.handlers[name] = wrapped
}

// resolve 把项目内的相对路径解析为节点
func (s *Server) resolve(ctx context.Context, rel string) (*explorer.Node, error) {
	return s.ws.Resolve(ctx, s.category, s.project, rel)
}

// absPath 把项目内的相对路径转换为磁盘路径，不要求节点存在
func (s *Server) absPath(rel string) (string, error) {
	root, err := s.ws.Root(s.category, s.project)
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{root.AbsolutePath()}, helper.Segments(rel)...)...), nil
}

func toJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("{\"error\":%q}", err.Error())
	}
	return string(b)
}

func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
