package main

import (
	"context"
	"os"

	"github.com/strikeworks/strike-core/internal/indicator"
	"github.com/strikeworks/strike-core/internal/infrastructure/logging"
)

// simDrivers is the hardware boundary wiring for a development host: no
// GPIO, no radio. Signal changes are logged, the wireless driver
// associates instantly, and reboot exits the process so the supervisor
// restarts it.
//
// TODO: swap in the GPIO and wireless-supplicant backed drivers once the
// hardware bring-up layer lands.
type simDrivers struct {
	trigger  simTrigger
	sensor   simSensor
	button   simButton
	led      simLED
	wireless simWireless
	rebooter processRebooter
}

func newSimDrivers(log *logging.Logger) *simDrivers {
	return &simDrivers{
		trigger:  simTrigger{log: log},
		led:      simLED{log: log},
		rebooter: processRebooter{log: log},
	}
}

// simTrigger logs strike trigger levels.
type simTrigger struct {
	log *logging.Logger
}

func (t simTrigger) Set(high bool) error {
	t.log.Debug("strike trigger", "high", high)
	return nil
}

// simSensor reports the door permanently closed.
type simSensor struct{}

func (simSensor) Closed() (bool, error) { return true, nil }

// simButton reports the reset button never pressed.
type simButton struct{}

func (simButton) Pressed() (bool, error) { return false, nil }

// simLED logs status indicator changes.
type simLED struct {
	log *logging.Logger
}

func (l simLED) Set(style indicator.Style) error {
	l.log.Info("status indicator", "color", style.Color, "flashing", style.Flashing)
	return nil
}

// simWireless associates immediately and holds the link until cancelled.
type simWireless struct{}

func (simWireless) StartAccessPoint(_, _ string) error { return nil }

func (simWireless) Connect(_ context.Context, _, _ string) error { return nil }

func (simWireless) WaitDisconnect(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (simWireless) Stop() error { return nil }

// processRebooter ends the process; the service supervisor brings it
// back up, which is the development-host equivalent of a device reboot.
type processRebooter struct {
	log *logging.Logger
}

func (r processRebooter) Reboot() {
	r.log.Info("rebooting (process exit)")
	os.Exit(0)
}
