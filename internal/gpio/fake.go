package gpio

import (
	"fmt"
)

// FakeDriver records every capability call so the fan adapter and the
// controller loop can be tested without hardware.
type FakeDriver struct {
	OpenErr  error
	ModeErr  error
	FreqErr  error
	RangeErr error
	WriteErr error

	Opened bool
	Closed bool

	// CloseCalls counts Close invocations, so release-exactly-once
	// behavior can be asserted.
	CloseCalls int

	Modes  map[int]Mode
	Freqs  map[int]int
	Ranges map[int]int

	// Duties records every successful write in order.
	Duties []int
}

func NewFakeDriver() *FakeDriver {
	return &FakeDriver{
		Modes:  map[int]Mode{},
		Freqs:  map[int]int{},
		Ranges: map[int]int{},
	}
}

func (d *FakeDriver) Open() error {
	if d.OpenErr != nil {
		return fmt.Errorf("%w: %v", ErrInit, d.OpenErr)
	}
	d.Opened = true
	return nil
}

func (d *FakeDriver) Close() error {
	d.CloseCalls++
	d.Closed = true
	return nil
}

func (d *FakeDriver) PinMode(pin int) Mode {
	if mode, ok := d.Modes[pin]; ok {
		return mode
	}
	return ModeInput
}

func (d *FakeDriver) SetPinMode(pin int, mode Mode) error {
	if d.ModeErr != nil {
		return d.ModeErr
	}
	d.Modes[pin] = mode
	return nil
}

func (d *FakeDriver) SetFrequency(pin int, freqHz int) error {
	if d.FreqErr != nil {
		return d.FreqErr
	}
	d.Freqs[pin] = freqHz
	return nil
}

func (d *FakeDriver) SetRange(pin int, cycle int) error {
	if d.RangeErr != nil {
		return d.RangeErr
	}
	d.Ranges[pin] = cycle
	return nil
}

func (d *FakeDriver) WriteDuty(pin int, duty int) error {
	if d.WriteErr != nil {
		return d.WriteErr
	}
	d.Duties = append(d.Duties, duty)
	return nil
}

// LastDuty returns the most recently written duty value, or -1 when
// nothing has been written yet.
func (d *FakeDriver) LastDuty() int {
	if len(d.Duties) == 0 {
		return -1
	}
	return d.Duties[len(d.Duties)-1]
}
