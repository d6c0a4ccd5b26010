package cmd

import (
	"github.com/spf13/cobra"
	"pwmfand/internal/ui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pwmfand",
	Long:  `All software has versions. This is pwmfand's`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.Printfln("1.0.0")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
