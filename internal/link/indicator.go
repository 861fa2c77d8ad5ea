package link

import (
	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/logger"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// NewIndicator returns a GPIO indicator driving pin, or a log-only indicator
// when pin is empty.
func NewIndicator(pin string) (Indicator, error) {
	if pin == "" {
		return NewLogIndicator(logger.Default()), nil
	}
	return NewGPIOIndicator(pin)
}

type gpioIndicator struct {
	pin gpio.PinIO
}

// NewGPIOIndicator drives an LED on the named GPIO pin, e.g. "GPIO17". The
// LED starts off.
func NewGPIOIndicator(name string) (Indicator, error) {
	errFactory := errors.New()

	if _, err := host.Init(); err != nil {
		return nil, errFactory.Wrap(ErrIndicatorInit, err)
	}

	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, errFactory.WithData(ErrPinNotFound, name)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, errFactory.Wrap(ErrIndicatorInit, err)
	}

	return &gpioIndicator{pin: pin}, nil
}

func (g *gpioIndicator) Set(on bool) error {
	return g.pin.Out(gpio.Level(on))
}

type logIndicator struct {
	log logger.Logger
}

// NewLogIndicator reports indicator changes at debug level only.
func NewLogIndicator(l logger.Logger) Indicator {
	return &logIndicator{log: l}
}

func (l *logIndicator) Set(on bool) error {
	l.log.Debug().Bool("on", on).Msg("Indicator")
	return nil
}
