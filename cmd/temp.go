package cmd

import (
	"fmt"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"pwmfand/internal/configuration"
	"pwmfand/internal/sensor"
)

var tempCmd = &cobra.Command{
	Use:   "temp",
	Short: "Print the current sensor temperature in °C",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		config := configuration.LoadConfig()
		fileSensor := sensor.NewFileSensor(config.SensorPath)

		value, err := fileSensor.GetValue()
		if err != nil {
			return err
		}
		fmt.Printf("%d\n", value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tempCmd)
}
