package gpio

import (
	"fmt"
	"github.com/natefinch/atomic"
	"strconv"
	"strings"
)

// FileDriver writes duty values as plain text to a regular file instead of
// driving hardware. Useful for fan protocols that read a control file, and
// for dry-running the daemon on machines without a PWM header.
type FileDriver struct {
	Path string

	opened bool
	modes  map[int]Mode
	cycle  int
}

func NewFileDriver(path string) *FileDriver {
	return &FileDriver{
		Path:  path,
		modes: map[int]Mode{},
	}
}

func (d *FileDriver) Open() error {
	if d.Path == "" {
		return fmt.Errorf("%w: no pwm file configured", ErrInit)
	}
	d.opened = true
	return nil
}

func (d *FileDriver) Close() error {
	d.opened = false
	return nil
}

func (d *FileDriver) PinMode(pin int) Mode {
	if mode, ok := d.modes[pin]; ok {
		return mode
	}
	return ModeInput
}

func (d *FileDriver) SetPinMode(pin int, mode Mode) error {
	d.modes[pin] = mode
	return nil
}

func (d *FileDriver) SetFrequency(pin int, freqHz int) error {
	// no switching frequency on a plain file
	return nil
}

func (d *FileDriver) SetRange(pin int, cycle int) error {
	if cycle <= 0 {
		return fmt.Errorf("invalid PWM range: %d", cycle)
	}
	d.cycle = cycle
	return nil
}

func (d *FileDriver) WriteDuty(pin int, duty int) error {
	if !d.opened {
		return fmt.Errorf("file pwm driver not initialized")
	}
	if duty < 0 || duty > d.cycle {
		return fmt.Errorf("duty %d out of range [0, %d]", duty, d.cycle)
	}
	reader := strings.NewReader(strconv.Itoa(duty))
	return atomic.WriteFile(d.Path, reader)
}
