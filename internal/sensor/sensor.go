package sensor

import (
	"fmt"
	"pwmfand/internal/util"
)

// Sensor provides the current temperature in whole degrees Celsius.
type Sensor interface {
	GetValue() (int, error)
}

// FileSensor reads a sysfs thermal zone file containing a single integer
// in millidegrees Celsius.
type FileSensor struct {
	Path string
}

func NewFileSensor(path string) *FileSensor {
	return &FileSensor{Path: path}
}

func (s *FileSensor) GetValue() (int, error) {
	milli, err := util.ReadIntFromFile(s.Path)
	if err != nil {
		return 0, fmt.Errorf("unable to read temperature from %s: %w", s.Path, err)
	}
	return MilliToDegrees(milli), nil
}

// MilliToDegrees converts a millidegree reading to whole degrees, rounded
// to the nearest degree. Half-degree values round away from zero.
func MilliToDegrees(milli int) int {
	if milli >= 0 {
		return int(float64(milli)/1000 + 0.5)
	}
	return int(float64(milli)/1000 - 0.5)
}
