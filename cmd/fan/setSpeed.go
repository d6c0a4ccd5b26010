package fan

import (
	"fmt"
	"github.com/spf13/cobra"
	"pwmfand/internal/configuration"
	"pwmfand/internal/fan"
	"pwmfand/internal/gpio"
	"strconv"
)

var setSpeedCmd = &cobra.Command{
	Use:   "setSpeed <duty>",
	Short: "Set the fan to the given duty value ([0..RPM_MAX]) and exit",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		duty, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}

		config := configuration.LoadConfig()
		if duty < 0 || duty > config.RpmMax {
			return fmt.Errorf("duty %d out of range [0, %d]", duty, config.RpmMax)
		}

		driver, err := gpio.NewDriver(config)
		if err != nil {
			return err
		}
		if err := driver.Open(); err != nil {
			return err
		}
		// the pin stays configured so the fan keeps running at the
		// requested speed after exit
		defer driver.Close()

		pwmFan := fan.NewPwmFan(driver, config)
		if err := pwmFan.Setup(); err != nil {
			return err
		}
		return pwmFan.SetSpeed(duty)
	},
}

func init() {
	Command.AddCommand(setSpeedCmd)
}
