package gpio

import (
	"errors"
	"fmt"
	"pwmfand/internal/configuration"
)

// ErrInit marks a failure to bring the hardware capability online.
// It is fatal and must abort the program before any pin state is touched.
var ErrInit = errors.New("hardware initialization failed")

// Mode is the function a pin is configured for.
type Mode int

const (
	ModeInput Mode = iota
	ModeOutput
	ModePwm
)

func (m Mode) String() string {
	switch m {
	case ModeInput:
		return "input"
	case ModeOutput:
		return "output"
	case ModePwm:
		return "pwm"
	}
	return "unknown"
}

// Driver is the capability set pwmfand needs from a PWM/GPIO backend.
// It is the only interface through which hardware state is touched, so the
// controller and fan adapter can be exercised against a fake.
//
// Duty values passed to WriteDuty are expressed in the units established by
// SetRange: a duty of range/2 yields a 50% duty cycle.
type Driver interface {
	// Open brings the backend online. Failure wraps ErrInit.
	Open() error
	// Close releases the backend. Best effort.
	Close() error

	// PinMode reports the current function of the pin.
	PinMode(pin int) Mode
	SetPinMode(pin int, mode Mode) error

	// SetFrequency sets the PWM switching frequency in Hz.
	SetFrequency(pin int, freqHz int) error
	// SetRange sets the cycle length duty values are measured against.
	SetRange(pin int, cycle int) error
	// WriteDuty sets the duty value, valid range [0, cycle].
	WriteDuty(pin int, duty int) error
}

// NewDriver selects the backend named by the configuration.
func NewDriver(config *configuration.Configuration) (Driver, error) {
	switch config.Driver {
	case configuration.DriverRpio:
		return NewRpioDriver(), nil
	case configuration.DriverSysfs:
		return NewSysfsDriver(), nil
	case configuration.DriverFile:
		return NewFileDriver(config.PwmFile), nil
	}
	return nil, fmt.Errorf("unknown PWM driver: %s", config.Driver)
}
