package controller

import (
	"context"
	"pwmfand/internal/curve"
	"pwmfand/internal/fan"
	"pwmfand/internal/sensor"
	"pwmfand/internal/ui"
	"time"
)

type FanController interface {
	// Run executes the control loop until ctx is cancelled.
	Run(ctx context.Context) error
	UpdateFanSpeed() error
}

type fanController struct {
	fan        fan.Fan
	sensor     sensor.Sensor
	curve      curve.SpeedCurve
	updateRate time.Duration

	// lastSetDuty is nil until the first write so the first computed duty
	// is always applied.
	lastSetDuty *int
}

func NewFanController(
	fan fan.Fan,
	sensor sensor.Sensor,
	curve curve.SpeedCurve,
	updateRate time.Duration,
) FanController {
	return &fanController{
		fan:        fan,
		sensor:     sensor,
		curve:      curve,
		updateRate: updateRate,
	}
}

// Run adjusts the fan speed once immediately and then once per tick until
// the context is cancelled. Cancellation is observed at the tick boundary,
// so worst-case shutdown latency is one poll interval.
func (c *fanController) Run(ctx context.Context) error {
	if err := c.UpdateFanSpeed(); err != nil {
		return err
	}

	tick := time.NewTicker(c.updateRate)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			if err := c.UpdateFanSpeed(); err != nil {
				return err
			}
		}
	}
}

// UpdateFanSpeed performs one control cycle: read temperature, map it to a
// duty value and apply it if it differs from the last applied one.
//
// A failed sensor read skips the cycle and keeps the current speed. A
// failed duty write keeps the last applied value so the write is retried
// on the next cycle. Neither is fatal: the fan fails toward running.
func (c *fanController) UpdateFanSpeed() error {
	currTemp, err := c.sensor.GetValue()
	if err != nil {
		ui.Warning("Sensor read failed, keeping fan speed for this cycle: %v", err)
		return nil
	}

	duty := c.curve.DutyFor(currTemp)
	if c.lastSetDuty != nil && *c.lastSetDuty == duty {
		return nil
	}

	ui.Debug("[PWM] Temp: %d | TempDiff: %.1f%% | Duty: %d", currTemp, c.curve.PctOfRange(currTemp), duty)

	if err := c.fan.SetSpeed(duty); err != nil {
		ui.Warning("Unable to set fan speed to %d, will retry: %v", duty, err)
		return nil
	}
	c.lastSetDuty = &duty
	return nil
}
