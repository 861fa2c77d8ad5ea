// Package app assembles the sensor daemon from its configuration.
package app

import (
	"context"
	"time"

	"codeberg.org/mutker/envsensed/internal/config"
	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/filter"
	"codeberg.org/mutker/envsensed/internal/gatt"
	"codeberg.org/mutker/envsensed/internal/history"
	"codeberg.org/mutker/envsensed/internal/link"
	"codeberg.org/mutker/envsensed/internal/logger"
	"codeberg.org/mutker/envsensed/internal/scheduler"
	"codeberg.org/mutker/envsensed/internal/sensor"
	"codeberg.org/mutker/envsensed/internal/telemetry"
)

// App owns every resource of a running daemon.
type App struct {
	sensors    sensor.Source
	peripheral gatt.Peripheral
	history    history.Recorder
	telemetry  telemetry.Collector
	controller *link.Controller
}

// Option overrides a component, mainly for tests.
type Option func(*options)

type options struct {
	sensors    sensor.Source
	peripheral gatt.Peripheral
	indicator  link.Indicator
	log        logger.Logger
}

// WithSensors uses src instead of the configured sensor backend.
func WithSensors(src sensor.Source) Option {
	return func(o *options) { o.sensors = src }
}

// WithPeripheral uses p instead of the configured transport.
func WithPeripheral(p gatt.Peripheral) Option {
	return func(o *options) { o.peripheral = p }
}

// WithIndicator uses i instead of the configured indicator pin.
func WithIndicator(i link.Indicator) Option {
	return func(o *options) { o.indicator = i }
}

// WithLogger replaces the default logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// New opens the sensors, the publication sinks and the radio, in that
// order, so nothing is advertised before updates can be served. Any failure
// closes what was already opened and is returned.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	errFactory := errors.New()

	o := &options{log: logger.Default()}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{}
	var err error

	a.sensors = o.sensors
	if a.sensors == nil {
		a.sensors, err = sensor.New(sensor.Config{
			Backend:       cfg.Sensor,
			Bus:           cfg.I2CBus,
			BME280Address: cfg.BME280Address,
			Seed:          uint64(time.Now().UnixNano()),
		})
		if err != nil {
			return nil, errFactory.Wrap(errors.ErrInitSensors, err)
		}
	}

	indicator := o.indicator
	if indicator == nil {
		if indicator, err = link.NewIndicator(cfg.IndicatorPin); err != nil {
			a.Close()
			return nil, errFactory.Wrap(errors.ErrInitLink, err)
		}
	}

	a.history, err = history.New(history.Config{
		DBPath:       cfg.HistoryDB,
		Enabled:      cfg.History,
		BatchSize:    history.DefaultConfig().BatchSize,
		BatchTimeout: history.DefaultConfig().BatchTimeout,
	}, o.log)
	if err != nil {
		a.Close()
		return nil, errFactory.Wrap(errors.ErrInitHistory, err)
	}

	a.telemetry, err = telemetry.NewService(telemetry.Config{
		Enabled:  cfg.MQTT,
		Broker:   cfg.MQTTBroker,
		Topic:    cfg.MQTTTopic,
		ClientID: cfg.MQTTClientID,
	}, o.log)
	if err != nil {
		a.Close()
		return nil, errFactory.Wrap(errors.ErrInitTelemetry, err)
	}

	a.peripheral = o.peripheral
	if a.peripheral == nil {
		a.peripheral, err = gatt.New(ctx, gatt.Config{
			Transport: cfg.Transport,
			LocalName: cfg.LocalName,
			Adapter:   cfg.Adapter,
			HCIDevice: cfg.HCIDevice,
		})
		if err != nil {
			a.Close()
			return nil, errFactory.Wrap(errors.ErrInitLink, err)
		}
	}

	updater := scheduler.NewUpdater(a.sensors, a.peripheral, filter.New(),
		scheduler.WithCalibration(cfg.TemperatureCalibration),
		scheduler.WithColorPollDelay(cfg.ColorPollDelay),
		scheduler.WithSinks(a.history, a.telemetry),
		scheduler.WithLogger(o.log),
	)

	sched, err := scheduler.New(cfg.UpdateInterval, time.Now(), updater)
	if err != nil {
		a.Close()
		return nil, errFactory.Wrap(errors.ErrInvalidInterval, err)
	}

	a.controller = link.NewController(a.peripheral, sched,
		link.WithIndicator(indicator),
		link.WithPollInterval(cfg.LinkPollInterval),
		link.WithLogger(o.log),
	)

	o.log.Info().
		Str("sensor", cfg.Sensor).
		Str("transport", cfg.Transport).
		Dur("update_interval", sched.Interval()).
		Float64("temperature_calibration", cfg.TemperatureCalibration).
		Bool("history", cfg.History).
		Bool("mqtt", cfg.MQTT).
		Msg("Sensor daemon initialized")

	return a, nil
}

// Run serves centrals until ctx ends.
func (a *App) Run(ctx context.Context) error {
	if err := a.controller.Run(ctx); err != nil {
		return errors.New().Wrap(errors.ErrMainLoop, err)
	}
	return nil
}

// State returns the current link state.
func (a *App) State() link.State {
	return a.controller.State()
}

// Close releases every resource. It returns the first error encountered but
// always attempts every close.
func (a *App) Close() error {
	errFactory := errors.New()
	var first error

	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	if a.peripheral != nil {
		if err := a.peripheral.Close(); err != nil {
			keep(errFactory.Wrap(errors.ErrCloseLink, err))
		}
	}
	if a.sensors != nil {
		if err := a.sensors.Close(); err != nil {
			keep(errFactory.Wrap(errors.ErrCloseSensors, err))
		}
	}
	if a.history != nil {
		keep(a.history.Close())
	}
	if a.telemetry != nil {
		keep(a.telemetry.Close())
	}

	return first
}
