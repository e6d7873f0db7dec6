package helper

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FindGitRoot 查找给定路径所属的 git 工作区根目录
func FindGitRoot(path string) (string, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", false
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", false
	}
	return wt.Filesystem.Root(), true
}

// IsGitRoot 路径本身是否是 git 工作区根目录
func IsGitRoot(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	root, ok := FindGitRoot(absPath)
	return ok && root == absPath
}

// GitIgnore 根据工作区中的 .gitignore 文件判断路径是否被忽略
type GitIgnore struct {
	root    string
	matcher gitignore.Matcher
}

// LoadGitIgnore 读取 root 下所有 .gitignore，.git 目录总是被忽略
func LoadGitIgnore(root string) (*GitIgnore, error) {
	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil, err
	}
	patterns = append(patterns, gitignore.ParsePattern(".git", nil))
	return &GitIgnore{root: root, matcher: gitignore.NewMatcher(patterns)}, nil
}

// Ignored 判断绝对路径是否被忽略，root 之外的路径不忽略
func (g *GitIgnore) Ignored(absPath string, isDir bool) bool {
	rel, err := filepath.Rel(g.root, absPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	return g.matcher.Match(strings.Split(filepath.ToSlash(rel), "/"), isDir)
}
