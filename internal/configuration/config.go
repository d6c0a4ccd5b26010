package configuration

import (
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"path/filepath"
	"pwmfand/internal/ui"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is where the daemon looks for its parameter file
	// unless -c is given.
	DefaultConfigPath = "/opt/gpio/fan/params.conf"

	DriverRpio  = "rpio"
	DriverSysfs = "sysfs"
	DriverFile  = "file"
)

// Configuration is the immutable parameter set of the controller. It is
// built once at startup from defaults plus the optional parameter file and
// passed into every component that needs it.
type Configuration struct {
	PwmPin    int
	Frequency int

	RpmMax int
	RpmMin int
	RpmOff int

	TempMax int
	TempLow int

	PollInterval time.Duration

	SensorPath string

	Driver  string
	PwmFile string

	// TempRangePct is (TempMax-TempLow)/100, precomputed once. It is the
	// denominator of the linear mapping.
	TempRangePct float64
}

// configKeys lists all recognized parameter file keys.
var configKeys = []string{
	"PWM_PIN",
	"FREQUENCY",
	"RPM_MAX",
	"RPM_MIN",
	"RPM_OFF",
	"TEMP_MAX",
	"TEMP_LOW",
	"WAIT",
	"THERMAL_FILE",
	"DRIVER",
	"PWM_FILE",
}

// InitConfig points viper at the parameter file. The file uses simple
// KEY=value lines ("properties" format); keys may appear in any order and
// any subset of them may be omitted.
func InitConfig(cfgFile string) {
	if cfgFile == "" {
		cfgFile = DefaultConfigPath
	}
	viper.SetConfigFile(resolvePath(cfgFile))
	viper.SetConfigType("properties")

	viper.AutomaticEnv()

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("PWM_PIN", 18)
	viper.SetDefault("FREQUENCY", 25000)
	viper.SetDefault("RPM_MAX", 5000)
	viper.SetDefault("RPM_MIN", 1500)
	viper.SetDefault("RPM_OFF", 0)
	viper.SetDefault("TEMP_MAX", 55)
	viper.SetDefault("TEMP_LOW", 40)
	viper.SetDefault("WAIT", 5000)
	viper.SetDefault("THERMAL_FILE", "/sys/class/thermal/thermal_zone0/temp")
	viper.SetDefault("DRIVER", DriverRpio)
	viper.SetDefault("PWM_FILE", "")
}

// LoadConfig reads the parameter file and merges it over the defaults.
// A missing or unparseable file is not fatal: a warning is logged and the
// defaults apply.
func LoadConfig() *Configuration {
	if err := viper.ReadInConfig(); err != nil {
		ui.Warning("Parameter file not usable, using defaults: %v", err)
	} else {
		ui.Info("Using parameter file at: %s", viper.ConfigFileUsed())
		if defaulted := DefaultedKeys(); len(defaulted) > 0 {
			ui.Info("Parameters not present in file, using defaults: %s", strings.Join(defaulted, ", "))
		}
	}

	config := &Configuration{
		PwmPin:       viper.GetInt("PWM_PIN"),
		Frequency:    viper.GetInt("FREQUENCY"),
		RpmMax:       viper.GetInt("RPM_MAX"),
		RpmMin:       viper.GetInt("RPM_MIN"),
		RpmOff:       viper.GetInt("RPM_OFF"),
		TempMax:      viper.GetInt("TEMP_MAX"),
		TempLow:      viper.GetInt("TEMP_LOW"),
		PollInterval: time.Duration(viper.GetInt("WAIT")) * time.Millisecond,
		SensorPath:   resolvePath(viper.GetString("THERMAL_FILE")),
		Driver:       strings.ToLower(viper.GetString("DRIVER")),
		PwmFile:      resolvePath(viper.GetString("PWM_FILE")),
	}
	config.TempRangePct = float64(config.TempMax-config.TempLow) / 100.0

	return config
}

// DefaultedKeys returns the recognized keys that were not present in the
// parameter file, sorted alphabetically.
func DefaultedKeys() []string {
	var result []string
	for _, key := range configKeys {
		if !viper.InConfig(key) {
			result = append(result, key)
		}
	}
	sort.Strings(result)
	return result
}

func (c *Configuration) LogSummary() {
	ui.Info("Config values loaded: PWM_PIN=%d | FREQUENCY=%d | RPM_MAX=%d | RPM_MIN=%d | RPM_OFF=%d "+
		"| TEMP_MAX=%d | TEMP_LOW=%d | WAIT=%dms | DRIVER=%s | THERMAL_FILE=%s",
		c.PwmPin, c.Frequency, c.RpmMax, c.RpmMin, c.RpmOff,
		c.TempMax, c.TempLow, c.PollInterval.Milliseconds(), c.Driver, c.SensorPath)
}

// resolvePath expands a leading ~ to the current users home directory.
func resolvePath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := homedir.Dir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
