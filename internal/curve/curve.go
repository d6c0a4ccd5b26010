package curve

import (
	"pwmfand/internal/configuration"
)

// SpeedCurve maps a temperature in whole degrees onto a PWM duty value.
//
// Below TempLow the fan is off. Above it, the duty ramps linearly up to
// RpmMax at TempMax, floored at RpmMin: any positive demand is at least the
// manufacturer's minimum sustainable speed, so the output is never strictly
// between RpmOff and RpmMin.
type SpeedCurve struct {
	rpmMax int
	rpmMin int
	rpmOff int

	tempLow int

	// tempRangePct is (tempMax-tempLow)/100, the denominator of the ramp.
	tempRangePct float64
}

func NewSpeedCurve(config *configuration.Configuration) SpeedCurve {
	return SpeedCurve{
		rpmMax:       config.RpmMax,
		rpmMin:       config.RpmMin,
		rpmOff:       config.RpmOff,
		tempLow:      config.TempLow,
		tempRangePct: config.TempRangePct,
	}
}

// DutyFor computes the duty value for the given temperature.
func (c SpeedCurve) DutyFor(tempC int) int {
	tempDiff := tempC - c.tempLow
	if tempDiff <= 0 {
		return c.rpmOff
	}

	pctOfRange := float64(tempDiff) / c.tempRangePct
	// float product truncated to int before the integer division,
	// matching the established duty values of this controller
	duty := int(pctOfRange*float64(c.rpmMax)) / 100
	if duty < c.rpmMin {
		duty = c.rpmMin
	} else if duty > c.rpmMax {
		duty = c.rpmMax
	}
	return duty
}

// PctOfRange returns how far the temperature sits in the ramp, in percent.
// Values above 100 mean the temperature exceeds the upper threshold.
func (c SpeedCurve) PctOfRange(tempC int) float64 {
	tempDiff := tempC - c.tempLow
	if tempDiff <= 0 {
		return 0
	}
	return float64(tempDiff) / c.tempRangePct
}
