package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sjzsdu/arbor/explorer"
	"github.com/sjzsdu/arbor/lang"
	"github.com/sjzsdu/arbor/workspace"
	"github.com/spf13/cobra"
)

var watchIgnores []string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: lang.T("Watch the project and keep the tree in sync"),
	Long:  lang.T("Watch the project directory and refresh changed folders until interrupted"),
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVarP(&watchIgnores, "exclude", "x", nil, lang.T("Glob patterns to exclude"))
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, workspace.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	w, err := s.ws.Watch(s.category, s.project, func(node *explorer.Node, err error) {
		if err != nil {
			fmt.Fprintf(out, "%s %s: %v\n", lang.T("Refresh failed"), node.Path(), err)
			return
		}
		fmt.Fprintf(out, "%s %s\n", lang.T("Refreshed"), node.Path())
	}, watchIgnores...)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s\n", lang.T("Watching"), s.root.AbsolutePath())
	return w.Run(ctx)
}
