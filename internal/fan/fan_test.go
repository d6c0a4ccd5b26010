package fan

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"pwmfand/internal/configuration"
	"pwmfand/internal/gpio"
	"testing"
	"time"
)

func defaultTestConfig() *configuration.Configuration {
	config := &configuration.Configuration{
		PwmPin:       18,
		Frequency:    25000,
		RpmMax:       5000,
		RpmMin:       1500,
		RpmOff:       0,
		TempMax:      55,
		TempLow:      40,
		PollInterval: 5000 * time.Millisecond,
	}
	config.TempRangePct = float64(config.TempMax-config.TempLow) / 100.0
	return config
}

func TestSetupConfiguresPin(t *testing.T) {
	// GIVEN: a pin that is currently a plain output
	driver := gpio.NewFakeDriver()
	driver.Modes[18] = gpio.ModeOutput
	pwmFan := NewPwmFan(driver, defaultTestConfig())

	// WHEN
	err := pwmFan.Setup()

	// THEN: mode captured, pin switched to PWM, frequency and range set,
	// fan initially off
	assert.NoError(t, err)
	assert.Equal(t, gpio.ModeOutput, pwmFan.OriginalPinMode())
	assert.Equal(t, gpio.ModePwm, driver.Modes[18])
	assert.Equal(t, 25000, driver.Freqs[18])
	assert.Equal(t, 5000, driver.Ranges[18])
	assert.Equal(t, []int{0}, driver.Duties)
}

func TestSetupFailurePropagates(t *testing.T) {
	// GIVEN
	driver := gpio.NewFakeDriver()
	driver.FreqErr = errors.New("device busy")
	pwmFan := NewPwmFan(driver, defaultTestConfig())

	// WHEN
	err := pwmFan.Setup()

	// THEN
	assert.Error(t, err)
}

func TestSetSpeedWritesEveryCall(t *testing.T) {
	// GIVEN
	driver := gpio.NewFakeDriver()
	pwmFan := NewPwmFan(driver, defaultTestConfig())
	assert.NoError(t, pwmFan.Setup())

	// WHEN: the same duty is written twice, bypassing the controller's
	// write suppression
	assert.NoError(t, pwmFan.SetSpeed(2500))
	assert.NoError(t, pwmFan.SetSpeed(2500))

	// THEN: both writes reach the hardware
	assert.Equal(t, []int{0, 2500, 2500}, driver.Duties)
}

func TestCleanupRestoresOriginalPinMode(t *testing.T) {
	// GIVEN: setup captured a non-default pin mode
	driver := gpio.NewFakeDriver()
	driver.Modes[18] = gpio.ModeOutput
	pwmFan := NewPwmFan(driver, defaultTestConfig())
	assert.NoError(t, pwmFan.Setup())
	assert.NoError(t, pwmFan.SetSpeed(3000))

	// WHEN
	pwmFan.Cleanup()

	// THEN: fan stopped, mode restored to the pre-setup value, driver
	// released
	assert.Equal(t, 0, driver.LastDuty())
	assert.Equal(t, gpio.ModeOutput, driver.Modes[18])
	assert.True(t, driver.Closed)
}

func TestCleanupWithoutSetupOnlyReleasesDriver(t *testing.T) {
	// GIVEN: driver opened but setup never ran
	driver := gpio.NewFakeDriver()
	pwmFan := NewPwmFan(driver, defaultTestConfig())

	// WHEN
	pwmFan.Cleanup()

	// THEN: no pin state was touched
	assert.Empty(t, driver.Duties)
	assert.Empty(t, driver.Modes)
	assert.True(t, driver.Closed)
}

func TestCleanupAfterFailedSetupStillRestores(t *testing.T) {
	// GIVEN: setup failed after the mode was captured
	driver := gpio.NewFakeDriver()
	driver.RangeErr = errors.New("device busy")
	pwmFan := NewPwmFan(driver, defaultTestConfig())
	assert.Error(t, pwmFan.Setup())

	// WHEN
	pwmFan.Cleanup()

	// THEN
	assert.Equal(t, gpio.ModeInput, driver.Modes[18])
	assert.True(t, driver.Closed)
}
