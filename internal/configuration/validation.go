package configuration

import (
	"fmt"
)

// Validate checks the cross-field invariants of the configuration.
// Loading deliberately does not enforce these (the parameter file is
// trusted input); the daemon warns about violations at startup and
// `pwmfand config validate` reports them explicitly.
func Validate(config *Configuration) error {
	if config.PwmPin < 0 {
		return fmt.Errorf("PWM_PIN must be a valid BCM pin number, got %d", config.PwmPin)
	}
	if config.Frequency <= 0 {
		return fmt.Errorf("FREQUENCY must be positive, got %d", config.Frequency)
	}
	if config.RpmOff > config.RpmMin {
		return fmt.Errorf("RPM_OFF (%d) must not exceed RPM_MIN (%d)", config.RpmOff, config.RpmMin)
	}
	if config.RpmMin > config.RpmMax {
		return fmt.Errorf("RPM_MIN (%d) must not exceed RPM_MAX (%d)", config.RpmMin, config.RpmMax)
	}
	if config.TempLow >= config.TempMax {
		return fmt.Errorf("TEMP_LOW (%d) must be below TEMP_MAX (%d)", config.TempLow, config.TempMax)
	}
	if config.PollInterval <= 0 {
		return fmt.Errorf("WAIT must be positive, got %dms", config.PollInterval.Milliseconds())
	}
	switch config.Driver {
	case DriverRpio, DriverSysfs:
	case DriverFile:
		if config.PwmFile == "" {
			return fmt.Errorf("DRIVER=file requires PWM_FILE to be set")
		}
	default:
		return fmt.Errorf("unknown DRIVER %q, use one of: rpio | sysfs | file", config.Driver)
	}
	return nil
}
