// strikectl is the control core of an electric door-strike controller.
//
// It owns the device lifecycle: configuration persistence, the wireless
// mode decision (setup access point vs. station), the broker session with
// hub auto-discovery, debounced door sensing, the strike trigger, the
// long-press factory reset, and the status indicator.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/strikeworks/strike-core/internal/button"
	"github.com/strikeworks/strike-core/internal/connectivity"
	"github.com/strikeworks/strike-core/internal/device"
	"github.com/strikeworks/strike-core/internal/hass"
	"github.com/strikeworks/strike-core/internal/indicator"
	"github.com/strikeworks/strike-core/internal/infrastructure/config"
	"github.com/strikeworks/strike-core/internal/infrastructure/logging"
	"github.com/strikeworks/strike-core/internal/infrastructure/mqtt"
	"github.com/strikeworks/strike-core/internal/lock"
	"github.com/strikeworks/strike-core/internal/orchestrator"
	"github.com/strikeworks/strike-core/internal/session"
	"github.com/strikeworks/strike-core/internal/store"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting strikectl",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration. A factory-fresh device has no config file; the
	// built-in defaults are sufficient for setup mode.
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	switch {
	case err == nil:
		log.Info("configuration loaded", "path", configPath)
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.Default()
		log.Info("no configuration file, using defaults", "path", configPath)
	default:
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the device configuration store
	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	defer func() {
		log.Info("closing config store")
		if closeErr := st.Close(); closeErr != nil {
			log.Error("error closing config store", "error", closeErr)
		}
	}()
	log.Info("config store opened", "path", cfg.Storage.Path)

	// The strike polarity lives in the provisioned device configuration;
	// default to active-high until one exists.
	var activeLow bool
	if devCfg, loadErr := st.Load(); loadErr != nil {
		return fmt.Errorf("loading device config: %w", loadErr)
	} else if devCfg != nil {
		activeLow = devCfg.ActiveLowTrigger
	}

	queue := device.NewQueue(cfg.Queue.Size)

	drivers := newSimDrivers(log)

	lockCtl, err := lock.New(drivers.trigger, drivers.sensor, queue, lock.Options{
		ActiveLowTrigger: activeLow,
		DebounceInterval: cfg.DebounceInterval(),
	})
	if err != nil {
		return fmt.Errorf("initialising lock controller: %w", err)
	}
	lockCtl.SetLogger(log)

	btnMon := button.NewMonitor(queue, cfg.ResetHold())

	connMgr := connectivity.NewManager(drivers.wireless, queue, connectivity.Options{
		InitialDelay: time.Duration(cfg.Wireless.InitialDelay) * time.Second,
		MaxDelay:     time.Duration(cfg.Wireless.MaxDelay) * time.Second,
	})
	connMgr.SetLogger(log)

	sessionFactory := func(devCfg device.Config, sink device.Sink) (orchestrator.BusSession, error) {
		topics := hass.Topics{DeviceID: devCfg.DeviceID}
		qos := byte(cfg.MQTT.QoS)

		client := mqtt.New(devCfg, mqtt.ClientOptions{
			QoS:            qos,
			ConnectTimeout: time.Duration(cfg.MQTT.ConnectTimeoutSeconds) * time.Second,
			KeepAlive:      time.Duration(cfg.MQTT.KeepAliveSeconds) * time.Second,
			Will: mqtt.Will{
				Topic:    topics.Availability(),
				Payload:  hass.PayloadNotAvailable,
				QoS:      qos,
				Retained: true,
			},
		})
		client.SetLogger(log)

		sess, sessErr := session.New(client, devCfg, sink, session.Options{
			QoS:          qos,
			InitialDelay: time.Duration(cfg.MQTT.Reconnect.InitialDelay) * time.Second,
			MaxDelay:     time.Duration(cfg.MQTT.Reconnect.MaxDelay) * time.Second,
			Version:      version,
		})
		if sessErr != nil {
			return nil, sessErr
		}
		sess.SetLogger(log)
		return sess, nil
	}

	ind := indicator.New(drivers.led)
	ind.SetLogger(log)

	orch := orchestrator.New(queue, st, lockCtl, btnMon, drivers.button, connMgr,
		sessionFactory, ind, drivers.rebooter, orchestrator.Options{
			SetupSSID: cfg.Setup.SSID,
			SetupPass: cfg.Setup.Password,
		})
	orch.SetLogger(log)

	if err := orch.Start(); err != nil {
		return fmt.Errorf("starting orchestrator: %w", err)
	}

	go orch.RunSampler(ctx, cfg.SampleInterval())

	log.Info("strikectl running")
	if err := orch.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("shutdown complete",
		"queue_dropped", queue.Dropped(),
	)
	return nil
}

// getConfigPath returns the configuration file path.
// Uses STRIKECTL_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("STRIKECTL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
