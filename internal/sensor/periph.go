package sensor

import (
	"codeberg.org/mutker/envsensed/internal/codec"
	"codeberg.org/mutker/envsensed/internal/logger"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers/apds9960"
)

// periphSource reads a BME280 (temperature, humidity, pressure) and an
// APDS9960 (color) sharing one I2C bus. The periph bus satisfies the tinygo
// drivers I2C interface, so the APDS9960 driver runs on it unchanged.
type periphSource struct {
	bus   i2c.BusCloser
	env   *bmxx80.Dev
	color apds9960.Device
}

// NewPeriph opens the I2C bus and configures both sensors. Any failure is
// fatal for the caller; there is no recovery path for missing hardware.
func NewPeriph(cfg Config) (Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, errFactory.Wrap(ErrHostInitFailed, err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, errFactory.Wrap(ErrBusOpenFailed, err)
	}

	env, err := bmxx80.NewI2C(bus, cfg.BME280Address, &bmxx80.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, errFactory.Wrap(ErrEnvInitFailed, err)
	}
	logger.Info().Str("device", env.String()).Msg("Detected environment sensor")

	s := &periphSource{
		bus:   bus,
		env:   env,
		color: apds9960.New(bus),
	}

	if !s.color.Connected() {
		env.Halt()
		bus.Close()
		return nil, errFactory.New(ErrColorNotFound)
	}
	s.color.Configure(apds9960.Configuration{})
	s.color.EnableColor()
	logger.Info().Msg("Detected color sensor")

	return s, nil
}

func (s *periphSource) sense() (physic.Env, error) {
	var e physic.Env
	if err := s.env.Sense(&e); err != nil {
		return e, errFactory.Wrap(ErrEnvReadFailed, err)
	}
	return e, nil
}

func (s *periphSource) ReadTemperature() (float64, error) {
	e, err := s.sense()
	if err != nil {
		return 0, err
	}
	return e.Temperature.Celsius(), nil
}

func (s *periphSource) ReadHumidity() (float64, error) {
	e, err := s.sense()
	if err != nil {
		return 0, err
	}
	return float64(e.Humidity) / float64(physic.PercentRH), nil
}

func (s *periphSource) ReadPressure() (float64, error) {
	e, err := s.sense()
	if err != nil {
		return 0, err
	}
	return float64(e.Pressure) / float64(physic.KiloPascal), nil
}

func (s *periphSource) ColorAvailable() bool {
	return s.color.ColorAvailable()
}

func (s *periphSource) ReadColor() (codec.RGBA, error) {
	r, g, b, a := s.color.ReadColor()
	return codec.RGBA{R: int(r), G: int(g), B: int(b), A: int(a)}, nil
}

func (s *periphSource) Close() error {
	s.color.DisableAll()
	if err := s.env.Halt(); err != nil {
		logger.Debug().Err(err).Msg("Failed to halt environment sensor")
	}
	if err := s.bus.Close(); err != nil {
		return errFactory.Wrap(ErrCloseFailed, err)
	}
	return nil
}
