package internal

import (
	"context"
	"github.com/oklog/run"
	"os"
	"os/signal"
	"pwmfand/internal/configuration"
	"pwmfand/internal/controller"
	"pwmfand/internal/curve"
	"pwmfand/internal/fan"
	"pwmfand/internal/gpio"
	"pwmfand/internal/sensor"
	"pwmfand/internal/ui"
	"syscall"
)

// RunDaemon runs the control loop until SIGINT/SIGTERM.
//
// Exit behavior: 0 after a graceful shutdown, 1 when the PWM hardware
// cannot be initialized or set up. Hardware init failure aborts before any
// pin state is touched; a setup failure after a successful init still runs
// cleanup to release the capability.
func RunDaemon(config *configuration.Configuration) {
	if err := configuration.Validate(config); err != nil {
		ui.Warning("Configuration invariant violated: %v", err)
	}
	config.LogSummary()

	driver, err := gpio.NewDriver(config)
	if err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
	if err := driver.Open(); err != nil {
		ui.Error("PWM hardware initialization failed: %v", err)
		os.Exit(1)
	}

	pwmFan := fan.NewPwmFan(driver, config)
	if err := pwmFan.Setup(); err != nil {
		ui.Error("PWM setup failed: %v", err)
		pwmFan.Cleanup()
		os.Exit(1)
	}

	ui.Info("Initialized and running ...")
	if err := runControlLoop(config, pwmFan); err != nil {
		ui.Error("Fan controller failed: %v", err)
		os.Exit(1)
	}
	ui.Info("Done.")
}

func runControlLoop(config *configuration.Configuration, pwmFan *fan.PwmFan) error {
	// cleanup is bound to every exit path of the loop
	defer pwmFan.Cleanup()

	fanController := controller.NewFanController(
		pwmFan,
		sensor.NewFileSensor(config.SensorPath),
		curve.NewSpeedCurve(config),
		config.PollInterval,
	)

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		// === fan controller
		g.Add(func() error {
			err := fanController.Run(ctx)
			ui.Info("Fan controller stopped.")
			return err
		}, func(err error) {
			cancel()
		})
	}
	{
		// === signal handling
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			<-sig
			ui.Info("Received termination signal, exiting ...")
			return nil
		}, func(err error) {
			signal.Stop(sig)
			defer close(sig)
			cancel()
		})
	}

	return g.Run()
}
