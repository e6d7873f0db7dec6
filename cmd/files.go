package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/sjzsdu/arbor/helper"
	"github.com/sjzsdu/arbor/lang"
	"github.com/sjzsdu/arbor/tree"
	"github.com/sjzsdu/arbor/workspace"
	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files [path]",
	Short: lang.T("List all files of the project"),
	Long:  lang.T("List every file under the path, skipping cache folders"),
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFiles,
}

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.Flags().BoolVar(&useGitIgnore, "gitignore", false, lang.T("Skip files ignored by .gitignore"))
}

func runFiles(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, workspace.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	rel := ""
	if len(args) > 0 {
		rel = args[0]
	}
	node, err := s.resolve(ctx, rel)
	if err != nil {
		return err
	}
	if err := tree.Expand(ctx, node, 0); err != nil {
		return err
	}

	var ignore *helper.GitIgnore
	if useGitIgnore {
		if ignore, err = helper.LoadGitIgnore(s.root.AbsolutePath()); err != nil {
			return err
		}
	}

	base := s.root.AbsolutePath()
	for _, path := range node.GetAllFiles() {
		if ignore != nil && ignore.Ignored(path, false) {
			continue
		}
		if r, err := filepath.Rel(base, path); err == nil {
			path = r
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}
