package cmd

import (
	"fmt"

	"github.com/sjzsdu/arbor/config"
	"github.com/sjzsdu/arbor/lang"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: lang.T("Set config"),
	Long:  lang.T("Set global configuration"),
	RunE:  handleConfigCommand,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVarP(&showAllConfigs, "list", "l", false, lang.T("List all configurations"))

	for _, key := range config.GetAllConfigKeys() {
		configCmd.Flags().String(key, config.GetConfig(key), lang.T(config.GetConfigDescription(key)))
	}
}

func handleConfigCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if showAllConfigs {
		fmt.Fprintln(out, lang.T("Current configurations:"))
		for _, key := range config.GetAllConfigKeys() {
			if value := config.GetConfig(key); value != "" {
				fmt.Fprintf(out, "%s=%s\n", config.GetEnvKey(key), value)
			}
		}
		return nil
	}

	changed := false
	for _, key := range config.GetAllConfigKeys() {
		flag := cmd.Flag(key)
		if flag == nil || !flag.Changed {
			continue
		}
		value, _ := cmd.Flags().GetString(key)
		if !config.IsValidConfigOption(key, value) {
			return fmt.Errorf("%s: %s %q", lang.T("Invalid value"), key, value)
		}
		config.SetConfig(key, value)
		changed = true
	}

	if !changed {
		return cmd.Help()
	}
	if err := config.SaveConfig(); err != nil {
		return fmt.Errorf("%s: %w", lang.T("Error saving config"), err)
	}
	return nil
}
