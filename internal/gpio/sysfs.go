package gpio

import (
	"fmt"
	"os"
	"path/filepath"
	"pwmfand/internal/util"
	"strconv"
	"strings"
	"time"
)

// pwmChannelByPin maps BCM pins to the PWM channel they are muxed to when
// the pwm-2chan device tree overlay is active.
var pwmChannelByPin = map[int]int{
	12: 0,
	18: 0,
	13: 1,
	19: 1,
}

// SysfsDriver drives a hardware PWM channel through /sys/class/pwm.
//
// Needs `dtoverlay=pwm-2chan` (or equivalent) so the pin is exposed as a
// PWM channel. Chosen over memory-mapped GPIO for boards where /dev/gpiomem
// is unavailable, such as the Pi 5.
type SysfsDriver struct {
	basePath string
	chipPath string

	periodNS uint64
	cycle    int

	exported map[int]bool
	enabled  bool
}

func NewSysfsDriver() *SysfsDriver {
	return &SysfsDriver{
		basePath: "/sys/class/pwm",
		exported: map[int]bool{},
	}
}

func (d *SysfsDriver) Open() error {
	chipPath, err := findPwmChip(d.basePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInit, err)
	}
	d.chipPath = chipPath
	return nil
}

func (d *SysfsDriver) Close() error {
	if d.chipPath == "" {
		return nil
	}
	d.chipPath = ""
	return nil
}

func (d *SysfsDriver) PinMode(pin int) Mode {
	if d.exported[pin] {
		return ModePwm
	}
	return ModeInput
}

// SetPinMode exports the pin's PWM channel for ModePwm and releases it
// again for any other mode.
func (d *SysfsDriver) SetPinMode(pin int, mode Mode) error {
	channel, err := d.channelFor(pin)
	if err != nil {
		return err
	}

	if mode == ModePwm {
		if err := d.export(channel); err != nil {
			return err
		}
		d.exported[pin] = true
		return nil
	}

	if !d.exported[pin] {
		return nil
	}
	_ = d.writeChannelAttr(channel, "enable", "0")
	d.enabled = false
	if err := writeSysfs(filepath.Join(d.chipPath, "unexport"), strconv.Itoa(channel)); err != nil {
		return fmt.Errorf("unexport pwm channel %d: %w", channel, err)
	}
	delete(d.exported, pin)
	return nil
}

func (d *SysfsDriver) SetFrequency(pin int, freqHz int) error {
	channel, err := d.channelFor(pin)
	if err != nil {
		return err
	}
	if freqHz <= 0 {
		return fmt.Errorf("invalid PWM frequency: %d", freqHz)
	}
	periodNS := uint64(1_000_000_000 / freqHz)
	if periodNS == 0 {
		periodNS = 1
	}

	// the kernel rejects period changes while the channel is enabled
	_ = d.writeChannelAttr(channel, "enable", "0")
	d.enabled = false

	if err := d.writeChannelAttr(channel, "period", strconv.FormatUint(periodNS, 10)); err != nil {
		return err
	}
	d.periodNS = periodNS
	return nil
}

func (d *SysfsDriver) SetRange(pin int, cycle int) error {
	if cycle <= 0 {
		return fmt.Errorf("invalid PWM range: %d", cycle)
	}
	d.cycle = cycle
	return nil
}

func (d *SysfsDriver) WriteDuty(pin int, duty int) error {
	channel, err := d.channelFor(pin)
	if err != nil {
		return err
	}
	if d.cycle <= 0 {
		return fmt.Errorf("PWM range not configured for pin %d", pin)
	}
	if duty < 0 || duty > d.cycle {
		return fmt.Errorf("duty %d out of range [0, %d]", duty, d.cycle)
	}
	if d.periodNS == 0 {
		return fmt.Errorf("PWM period not configured for pin %d", pin)
	}

	dutyNS := d.periodNS * uint64(duty) / uint64(d.cycle)
	if err := d.writeChannelAttr(channel, "duty_cycle", strconv.FormatUint(dutyNS, 10)); err != nil {
		return err
	}
	if !d.enabled {
		if err := d.writeChannelAttr(channel, "enable", "1"); err != nil {
			return err
		}
		d.enabled = true
	}
	return nil
}

func (d *SysfsDriver) channelFor(pin int) (int, error) {
	if d.chipPath == "" {
		return 0, fmt.Errorf("sysfs pwm driver not initialized")
	}
	channel, ok := pwmChannelByPin[pin]
	if !ok {
		return 0, fmt.Errorf("pin %d has no hardware PWM channel, use one of 12, 13, 18, 19", pin)
	}
	return channel, nil
}

func (d *SysfsDriver) export(channel int) error {
	channelPath := d.channelPath(channel)
	if _, err := os.Stat(channelPath); err == nil {
		return nil
	}

	if err := writeSysfs(filepath.Join(d.chipPath, "export"), strconv.Itoa(channel)); err != nil {
		// somebody else may have exported it in the meantime
		if _, statErr := os.Stat(channelPath); statErr == nil {
			return nil
		}
		return fmt.Errorf("export pwm channel %d: %w", channel, err)
	}

	// the sysfs node appears asynchronously after export
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(channelPath); err == nil {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("pwm channel %d did not appear after export", channel)
}

func (d *SysfsDriver) channelPath(channel int) string {
	return filepath.Join(d.chipPath, fmt.Sprintf("pwm%d", channel))
}

func (d *SysfsDriver) writeChannelAttr(channel int, name string, value string) error {
	return writeSysfs(filepath.Join(d.channelPath(channel), name), value)
}

func findPwmChip(basePath string) (string, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", basePath, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "pwmchip") {
			continue
		}
		chipPath := filepath.Join(basePath, name)
		npwm, err := util.ReadIntFromFile(filepath.Join(chipPath, "npwm"))
		if err != nil || npwm <= 0 {
			continue
		}
		return chipPath, nil
	}

	return "", fmt.Errorf("no usable pwmchip under %s (is the pwm overlay enabled?)", basePath)
}

// writeSysfs writes a sysfs attribute. Opened without O_TRUNC/O_CREATE:
// some attributes reject truncation flags even when mode bits allow writes.
// Retries briefly because udev may still be adjusting permissions right
// after a channel export.
func writeSysfs(path string, value string) error {
	deadline := time.Now().Add(2 * time.Second)
	for {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err == nil {
			_, err = f.WriteString(value)
			closeErr := f.Close()
			if err == nil {
				err = closeErr
			}
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) || !isRetryableSysfsErr(err) {
			return err
		}
		time.Sleep(25 * time.Millisecond)
	}
}

func isRetryableSysfsErr(err error) bool {
	return os.IsPermission(err) || os.IsNotExist(err)
}
