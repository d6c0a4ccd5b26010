package gpio

import (
	"fmt"
	"github.com/stianeikeland/go-rpio/v4"
)

// go-rpio's supported PWM clock window. Outside of it the divider
// behaves unpredictably.
const (
	minPwmClock = 4688
	maxPwmClock = 19_200_000
)

// RpioDriver drives hardware PWM through /dev/gpiomem using go-rpio.
//
// Pin.Freq programs the PWM clock source, not the output frequency: the
// pin toggles at clock divided by cycle length. The driver therefore
// programs a clock of frequency*steps, and when that exceeds the clock
// ceiling it shortens the hardware cycle below the caller's range,
// trading duty resolution for the configured output frequency.
//
// The BCM2835 function select registers cannot be read back through
// go-rpio, so PinMode reports the mode this driver last set. Pins that were
// never touched report ModeInput, the boot default of an unclaimed GPIO.
type RpioDriver struct {
	opened bool
	modes  map[int]Mode
	freqs  map[int]int
	cycles map[int]int
	// steps is the hardware cycle length actually programmed per pin,
	// valid once frequency and range are both known.
	steps map[int]int
}

func NewRpioDriver() *RpioDriver {
	return &RpioDriver{
		modes:  map[int]Mode{},
		freqs:  map[int]int{},
		cycles: map[int]int{},
		steps:  map[int]int{},
	}
}

func (d *RpioDriver) Open() error {
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("%w: %v", ErrInit, err)
	}
	d.opened = true
	return nil
}

func (d *RpioDriver) Close() error {
	if !d.opened {
		return nil
	}
	d.opened = false
	return rpio.Close()
}

func (d *RpioDriver) PinMode(pin int) Mode {
	if mode, ok := d.modes[pin]; ok {
		return mode
	}
	return ModeInput
}

func (d *RpioDriver) SetPinMode(pin int, mode Mode) error {
	p := rpio.Pin(pin)
	switch mode {
	case ModeInput:
		p.Mode(rpio.Input)
	case ModeOutput:
		p.Mode(rpio.Output)
	case ModePwm:
		p.Mode(rpio.Pwm)
	default:
		return fmt.Errorf("unsupported pin mode: %d", mode)
	}
	d.modes[pin] = mode
	return nil
}

func (d *RpioDriver) SetFrequency(pin int, freqHz int) error {
	if freqHz <= 0 {
		return fmt.Errorf("invalid PWM frequency: %d", freqHz)
	}
	d.freqs[pin] = freqHz
	return d.applyClock(pin)
}

func (d *RpioDriver) SetRange(pin int, cycle int) error {
	if cycle <= 0 {
		return fmt.Errorf("invalid PWM range: %d", cycle)
	}
	d.cycles[pin] = cycle
	return d.applyClock(pin)
}

// applyClock programs the PWM clock once both frequency and range are
// known for the pin.
func (d *RpioDriver) applyClock(pin int) error {
	freqHz, haveFreq := d.freqs[pin]
	cycle, haveCycle := d.cycles[pin]
	if !haveFreq || !haveCycle {
		return nil
	}

	steps, clock, err := pwmSteps(freqHz, cycle)
	if err != nil {
		return err
	}
	d.steps[pin] = steps
	rpio.Pin(pin).Freq(clock)
	return nil
}

func (d *RpioDriver) WriteDuty(pin int, duty int) error {
	cycle, ok := d.cycles[pin]
	if !ok {
		return fmt.Errorf("PWM range not configured for pin %d", pin)
	}
	if duty < 0 || duty > cycle {
		return fmt.Errorf("duty %d out of range [0, %d]", duty, cycle)
	}
	steps, ok := d.steps[pin]
	if !ok {
		return fmt.Errorf("PWM clock not configured for pin %d", pin)
	}
	rpio.Pin(pin).DutyCycle(uint32(scaleDuty(duty, cycle, steps)), uint32(steps))
	return nil
}

// pwmSteps picks the hardware cycle length for the requested output
// frequency and caller range. The pin output runs at clock/steps, so the
// programmed clock is freqHz*steps; steps only deviates from cycle when
// the clock window forces it.
func pwmSteps(freqHz int, cycle int) (steps int, clock int, err error) {
	steps = cycle
	if freqHz*steps > maxPwmClock {
		steps = maxPwmClock / freqHz
		if steps < 1 {
			return 0, 0, fmt.Errorf("PWM frequency %d Hz exceeds the supported clock", freqHz)
		}
	}
	if freqHz*steps < minPwmClock {
		steps = (minPwmClock + freqHz - 1) / freqHz
	}
	return steps, freqHz * steps, nil
}

// scaleDuty maps a duty value in [0, cycle] onto [0, steps].
func scaleDuty(duty int, cycle int, steps int) int {
	if steps == cycle {
		return duty
	}
	return duty * steps / cycle
}
