package config

import (
	"github.com/spf13/cobra"
	"pwmfand/internal/configuration"
	"pwmfand/internal/ui"
	"strings"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Prints the effective configuration, including defaulted fields",
	Long:  ``,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := configuration.LoadConfig()
		config.LogSummary()

		if defaulted := configuration.DefaultedKeys(); len(defaulted) > 0 {
			ui.Info("Defaulted fields: %s", strings.Join(defaulted, ", "))
		}
	},
}

func init() {
	Command.AddCommand(printCmd)
}
