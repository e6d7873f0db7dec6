package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sjzsdu/arbor/explorer"
	"github.com/sjzsdu/arbor/helper"
	"github.com/sjzsdu/arbor/lang"
	"github.com/sjzsdu/arbor/workspace"
)

// session 一次命令执行中打开的工作区和项目
type session struct {
	ws       *workspace.Workspace
	root     *explorer.Node
	category explorer.Category
	project  string
}

// projectDir 根据 --directory 和 --git-root 确定项目目录
func projectDir() (string, error) {
	dir, err := filepath.Abs(workDir)
	if err != nil {
		return "", err
	}
	if useGitRoot {
		root, ok := helper.FindGitRoot(dir)
		if !ok {
			return "", fmt.Errorf("%s: %s", lang.T("Not inside a git repository"), dir)
		}
		dir = root
	}
	return dir, nil
}

// openSession 创建工作区并打开项目目录
func openSession(ctx context.Context, opts workspace.Options) (*session, error) {
	cat, err := explorer.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	dir, err := projectDir()
	if err != nil {
		return nil, err
	}

	ws, err := workspace.New(opts)
	if err != nil {
		return nil, err
	}
	project := filepath.Base(dir)
	root, err := ws.OpenProject(ctx, cat, project, dir)
	if err != nil {
		_ = ws.Close()
		return nil, err
	}
	return &session{ws: ws, root: root, category: cat, project: project}, nil
}

func (s *session) Close() error {
	return s.ws.Close()
}

// resolve 解析相对于项目根目录的路径
func (s *session) resolve(ctx context.Context, rel string) (*explorer.Node, error) {
	return s.ws.Resolve(ctx, s.category, s.project, rel)
}
