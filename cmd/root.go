package cmd

import (
	"fmt"
	"os"

	"github.com/sjzsdu/arbor/config"
	"github.com/sjzsdu/arbor/helper/logger"
	"github.com/sjzsdu/arbor/lang"
	"github.com/sjzsdu/arbor/share"
	"github.com/spf13/cobra"
)

var RootCmd = rootCmd

var rootCmd = &cobra.Command{
	Use:   share.BUILDNAME,
	Short: lang.T("Arbor file explorer"),
	Long:  lang.T("Browse and edit project file trees from the command line"),
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		fmt.Fprintln(os.Stderr, lang.T("Invalid arguments")+": ", args)
		os.Exit(1)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workDir, "directory", "d", ".", lang.T("Work directory path"))
	rootCmd.PersistentFlags().StringVarP(&category, "category", "c", "primary", lang.T("Project category (primary, resource_pack, other)"))
	rootCmd.PersistentFlags().BoolVarP(&useGitRoot, "git-root", "g", false, lang.T("Open the enclosing git repository instead of the directory"))
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "v", false, lang.T("Debug mode"))

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if l := config.GetConfig(config.KeyLang); l != "" {
			lang.SetLanguage(l)
		}
		logger.SetDebug(debugMode)
	}
}
