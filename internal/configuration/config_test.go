package configuration

import (
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func createParamsFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "params.conf")
	err := os.WriteFile(path, []byte(content), 0644)
	assert.NoError(t, err)
	return path
}

func loadFromFile(t *testing.T, path string) *Configuration {
	viper.Reset()
	InitConfig(path)
	return LoadConfig()
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "does-not-exist.conf")

	// WHEN
	config := loadFromFile(t, path)

	// THEN
	assert.Equal(t, 18, config.PwmPin)
	assert.Equal(t, 25000, config.Frequency)
	assert.Equal(t, 5000, config.RpmMax)
	assert.Equal(t, 1500, config.RpmMin)
	assert.Equal(t, 0, config.RpmOff)
	assert.Equal(t, 55, config.TempMax)
	assert.Equal(t, 40, config.TempLow)
	assert.Equal(t, 5*time.Second, config.PollInterval)
	assert.Equal(t, "/sys/class/thermal/thermal_zone0/temp", config.SensorPath)
	assert.Equal(t, DriverRpio, config.Driver)
	assert.InDelta(t, 0.15, config.TempRangePct, 0.0001)
}

func TestLoadPartialOverride(t *testing.T) {
	// GIVEN: a file overriding a subset of fields, in arbitrary order
	path := createParamsFile(t, `
TEMP_LOW=35
PWM_PIN=19
RPM_MAX=4000
`)

	// WHEN
	config := loadFromFile(t, path)

	// THEN: overridden fields apply, the rest keep their defaults
	assert.Equal(t, 19, config.PwmPin)
	assert.Equal(t, 4000, config.RpmMax)
	assert.Equal(t, 35, config.TempLow)
	assert.Equal(t, 1500, config.RpmMin)
	assert.Equal(t, 55, config.TempMax)
	assert.Equal(t, 5*time.Second, config.PollInterval)
	assert.InDelta(t, 0.20, config.TempRangePct, 0.0001)
}

func TestLoadFullOverride(t *testing.T) {
	// GIVEN
	path := createParamsFile(t, `
PWM_PIN=13
FREQUENCY=20000
RPM_MAX=4000
RPM_MIN=1000
RPM_OFF=0
TEMP_MAX=60
TEMP_LOW=45
WAIT=2000
THERMAL_FILE=/sys/class/thermal/thermal_zone1/temp
DRIVER=sysfs
`)

	// WHEN
	config := loadFromFile(t, path)

	// THEN
	assert.Equal(t, 13, config.PwmPin)
	assert.Equal(t, 20000, config.Frequency)
	assert.Equal(t, 4000, config.RpmMax)
	assert.Equal(t, 1000, config.RpmMin)
	assert.Equal(t, 60, config.TempMax)
	assert.Equal(t, 45, config.TempLow)
	assert.Equal(t, 2*time.Second, config.PollInterval)
	assert.Equal(t, "/sys/class/thermal/thermal_zone1/temp", config.SensorPath)
	assert.Equal(t, DriverSysfs, config.Driver)
}

func TestLoadUnparseableFileFallsBackToDefaults(t *testing.T) {
	// GIVEN: a file the properties parser rejects
	path := createParamsFile(t, "\x00\x01\x02 not key value at all =")

	// WHEN
	config := loadFromFile(t, path)

	// THEN: non-fatal, defaults apply
	assert.Equal(t, 18, config.PwmPin)
	assert.Equal(t, 5000, config.RpmMax)
}

func TestDefaultedKeysReported(t *testing.T) {
	// GIVEN
	path := createParamsFile(t, "PWM_PIN=19\nTEMP_LOW=35\n")

	// WHEN
	loadFromFile(t, path)
	defaulted := DefaultedKeys()

	// THEN: exactly the keys absent from the file
	assert.NotContains(t, defaulted, "PWM_PIN")
	assert.NotContains(t, defaulted, "TEMP_LOW")
	assert.Contains(t, defaulted, "RPM_MAX")
	assert.Contains(t, defaulted, "WAIT")
	assert.Contains(t, defaulted, "THERMAL_FILE")
}
