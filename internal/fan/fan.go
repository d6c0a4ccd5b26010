package fan

import (
	"fmt"
	"pwmfand/internal/configuration"
	"pwmfand/internal/gpio"
	"pwmfand/internal/ui"
)

// Fan is the controllable output of the daemon.
type Fan interface {
	Setup() error
	SetSpeed(duty int) error
	Cleanup()
}

// PwmFan drives a PWM fan through a gpio.Driver. The only component that
// touches pin state.
type PwmFan struct {
	driver gpio.Driver
	config *configuration.Configuration

	originalPinMode gpio.Mode
	setupDone       bool
}

func NewPwmFan(driver gpio.Driver, config *configuration.Configuration) *PwmFan {
	return &PwmFan{
		driver: driver,
		config: config,
	}
}

// Setup captures the pin's current mode, switches it to PWM output and
// configures frequency and range. The range is set to RpmMax so duty values
// are written directly in RPM-equivalent units. The fan starts off: an
// initial duty of RpmOff is written before any temperature was sampled.
func (f *PwmFan) Setup() error {
	pin := f.config.PwmPin

	f.originalPinMode = f.driver.PinMode(pin)
	f.setupDone = true

	if err := f.driver.SetPinMode(pin, gpio.ModePwm); err != nil {
		return fmt.Errorf("unable to set pin %d to PWM mode: %w", pin, err)
	}
	if err := f.driver.SetFrequency(pin, f.config.Frequency); err != nil {
		return fmt.Errorf("unable to set PWM frequency on pin %d: %w", pin, err)
	}
	if err := f.driver.SetRange(pin, f.config.RpmMax); err != nil {
		return fmt.Errorf("unable to set PWM range on pin %d: %w", pin, err)
	}
	if err := f.SetSpeed(f.config.RpmOff); err != nil {
		return fmt.Errorf("unable to write initial duty on pin %d: %w", pin, err)
	}

	ui.Debug("[PWM] GPIO:Mode | %d:%s", pin, f.originalPinMode)
	return nil
}

// SetSpeed writes a duty value in [0, RpmMax]. Side effect only.
func (f *PwmFan) SetSpeed(duty int) error {
	return f.driver.WriteDuty(f.config.PwmPin, duty)
}

// OriginalPinMode reports the pin mode captured by Setup.
func (f *PwmFan) OriginalPinMode() gpio.Mode {
	return f.originalPinMode
}

// Cleanup stops the fan, restores the pin to the mode captured at Setup
// and releases the hardware capability. Best effort: it runs on every
// shutdown path after the driver was opened, including a failed Setup.
func (f *PwmFan) Cleanup() {
	pin := f.config.PwmPin

	if f.setupDone {
		if err := f.SetSpeed(f.config.RpmOff); err != nil {
			ui.Warning("Unable to stop fan on pin %d: %v", pin, err)
		}
		if err := f.driver.SetPinMode(pin, f.originalPinMode); err != nil {
			ui.Warning("Unable to restore mode of pin %d: %v", pin, err)
		}
	}

	if err := f.driver.Close(); err != nil {
		ui.Warning("Error releasing PWM hardware: %v", err)
	}
	ui.Info("Cleaned up - Exiting ...")
}
