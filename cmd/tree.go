package cmd

import (
	"fmt"
	"strings"

	"github.com/sjzsdu/arbor/config"
	"github.com/sjzsdu/arbor/helper/renders"
	"github.com/sjzsdu/arbor/lang"
	"github.com/sjzsdu/arbor/tree"
	"github.com/sjzsdu/arbor/workspace"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: lang.T("Show the directory tree"),
	Long: lang.T("Show the directory tree of the project") + `

  arbor tree                    # current directory
  arbor tree src --depth 2      # limit depth
  arbor tree --no-files         # folders only
  arbor tree --git-root --stats # whole repository with statistics`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().IntVar(&treeDepth, "depth", 0, lang.T("Maximum depth (0 means unlimited)"))
	treeCmd.Flags().BoolVarP(&showHidden, "hidden", "a", false, lang.T("Show hidden files"))
	treeCmd.Flags().BoolVar(&noFiles, "no-files", false, lang.T("Show folders only"))
	treeCmd.Flags().BoolVarP(&showStats, "stats", "s", false, lang.T("Show statistics"))
	treeCmd.Flags().BoolVarP(&useMarkdown, "markdown", "m", false, lang.T("Render output as markdown"))
}

func runTree(cmd *cobra.Command, args []string) error {
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
	if err := tree.Expand(ctx, node, treeDepth); err != nil {
		return err
	}

	output := tree.TreeWithOptions(node, tree.Options{
		ShowFiles:  !noFiles,
		ShowHidden: showHidden,
		ShowSize:   true,
		MaxDepth:   treeDepth,
	})
	if showStats {
		output += "\n" + tree.Stats(node).String() + "\n"
	}

	kind := config.GetConfigWithDefault(config.KeyRenderer, "text")
	if useMarkdown {
		kind = "markdown"
	}
	if kind == "markdown" {
		output = fmt.Sprintf("## %s\n\n%s", node.Name(), renders.CodeBlock("text", strings.TrimRight(output, "\n")))
	}
	return renders.New(kind, cmd.OutOrStdout()).Render(output)
}
