package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sjzsdu/arbor/explorer"
	"github.com/sjzsdu/arbor/helper"
	"github.com/sjzsdu/arbor/lang"
	"github.com/sjzsdu/arbor/tree"
	"github.com/sjzsdu/arbor/workspace"
	"github.com/spf13/cobra"
)

var errQuit = errors.New("quit")

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: lang.T("Interactive file explorer shell"),
	Long:  lang.T("Browse and edit the project tree interactively, type help for commands"),
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, workspace.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	sh := newShell(s, os.Stdin, cmd.OutOrStdout())
	for {
		line := helper.ReadLine(sh.prompt(), sh.complete)
		if err := sh.exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintln(sh.out, lang.T("Error")+":", err)
		}
	}
}

// shell 交互式浏览一棵文件树，cwd 始终是目录节点
type shell struct {
	s   *session
	cwd *explorer.Node
	in  io.Reader
	out io.Writer
}

func newShell(s *session, in io.Reader, out io.Writer) *shell {
	return &shell{s: s, cwd: s.root, in: in, out: out}
}

func (sh *shell) prompt() string {
	return sh.cwd.Path() + "> "
}

// complete 补全当前目录下的名字
func (sh *shell) complete(string) []string {
	children := sh.cwd.Children()
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.Name())
	}
	return names
}

// relative 把参数转换为相对项目根目录的路径，以 / 开头的参数从根目录算起
func (sh *shell) relative(arg string) (string, error) {
	base := ""
	if !strings.HasPrefix(arg, "/") {
		r, err := filepath.Rel(sh.s.root.AbsolutePath(), sh.cwd.AbsolutePath())
		if err != nil {
			return "", err
		}
		base = r
	}
	joined := filepath.Clean(filepath.Join("/", base, arg))
	return strings.TrimPrefix(joined, "/"), nil
}

func (sh *shell) node(ctx context.Context, arg string) (*explorer.Node, error) {
	rel, err := sh.relative(arg)
	if err != nil {
		return nil, err
	}
	return sh.s.resolve(ctx, rel)
}

func (sh *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]

	need := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("%s: %s", lang.T("Missing arguments"), name)
		}
		return nil
	}
	switch name {
	case "exit", "quit":
		return errQuit
	case "help":
		sh.help()
		return nil
	case "pwd":
		fmt.Fprintln(sh.out, sh.cwd.AbsolutePath())
		return nil
	case "ls":
		return sh.ls(ctx, args)
	case "cd":
		return sh.cd(ctx, args)
	case "tree":
		return sh.showTree(ctx, args)
	case "refresh":
		_, err := sh.cwd.Refresh(ctx)
		return err
	case "tabs":
		for _, t := range sh.s.ws.Tabs().List() {
			fmt.Fprintln(sh.out, t.Path)
		}
		return nil
	}

	if err := need(1); err != nil {
		return err
	}
	switch name {
	case "cat":
		n, err := sh.node(ctx, args[0])
		if err != nil {
			return err
		}
		text, err := sh.s.ws.Read(n.AbsolutePath())
		if err != nil {
			return err
		}
		fmt.Fprint(sh.out, text)
		return nil
	case "open":
		n, err := sh.node(ctx, args[0])
		if err != nil {
			return err
		}
		return sh.s.ws.OpenAsEditorTab(n.AbsolutePath())
	case "write":
		rel, err := sh.relative(args[0])
		if err != nil {
			return err
		}
		abs := filepath.Join(sh.s.root.AbsolutePath(), rel)
		return sh.s.ws.Save(ctx, abs, strings.Join(args[1:], " ")+"\n", true, false)
	case "mkdir":
		rel, err := sh.relative(args[0])
		if err != nil {
			return err
		}
		return sh.s.ws.CreateFolder(ctx, filepath.Join(sh.s.root.AbsolutePath(), rel))
	case "rm":
		n, err := sh.node(ctx, args[0])
		if err != nil {
			return err
		}
		question := lang.Tf("Delete %s? (y/n) ", n.Path())
		ok, err := helper.PromptYesNo(sh.in, sh.out, question, false)
		if err != nil || !ok {
			return err
		}
		return sh.s.ws.Delete(ctx, n)
	}

	if err := need(2); err != nil {
		return err
	}
	n, err := sh.node(ctx, args[0])
	if err != nil {
		return err
	}
	switch name {
	case "mv":
		dst, err := sh.node(ctx, args[1])
		if err != nil {
			return err
		}
		return sh.s.ws.Move(ctx, n, dst)
	case "rename":
		return sh.s.ws.RenameFile(ctx, n, args[1])
	case "cp":
		return n.Duplicate(ctx, args[1], false)
	}
	return fmt.Errorf("%s: %s", lang.T("Unknown command"), name)
}

func (sh *shell) ls(ctx context.Context, args []string) error {
	dir := sh.cwd
	if len(args) > 0 {
		n, err := sh.node(ctx, args[0])
		if err != nil {
			return err
		}
		dir = n
	}
	if err := tree.Expand(ctx, dir, 1); err != nil {
		return err
	}
	for _, c := range dir.Children() {
		if c.IsFolder() {
			fmt.Fprintln(sh.out, c.Name()+"/")
		} else {
			fmt.Fprintln(sh.out, c.Name())
		}
	}
	return nil
}

func (sh *shell) cd(ctx context.Context, args []string) error {
	target := "/"
	if len(args) > 0 {
		target = args[0]
	}
	n, err := sh.node(ctx, target)
	if err != nil {
		return err
	}
	if !n.IsFolder() {
		return fmt.Errorf("%s: %w", n.Path(), explorer.ErrNotFolder)
	}
	sh.cwd = n.Open()
	return nil
}

func (sh *shell) showTree(ctx context.Context, args []string) error {
	dir := sh.cwd
	if len(args) > 0 {
		n, err := sh.node(ctx, args[0])
		if err != nil {
			return err
		}
		dir = n
	}
	if err := tree.Expand(ctx, dir, 0); err != nil {
		return err
	}
	fmt.Fprint(sh.out, tree.Tree(dir))
	return nil
}

func (sh *shell) help() {
	fmt.Fprintln(sh.out, lang.T("Commands")+":")
	for _, line := range []string{
		"ls [path]", "cd [path]", "pwd", "tree [path]", "cat <path>", "open <path>", "tabs",
		"write <path> <text>", "mkdir <path>", "mv <path> <dir>", "rename <path> <name>",
		"cp <path> <name>", "rm <path>", "refresh", "exit",
	} {
		fmt.Fprintln(sh.out, "  "+line)
	}
}
