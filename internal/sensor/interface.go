package sensor

import "codeberg.org/mutker/envsensed/internal/codec"

// Source exposes blocking reads of the environmental sensors.
type Source interface {
	// ReadTemperature returns the temperature in °C
	ReadTemperature() (float64, error)

	// ReadHumidity returns the relative humidity in percent
	ReadHumidity() (float64, error)

	// ReadPressure returns the barometric pressure in kPa
	ReadPressure() (float64, error)

	// ColorAvailable reports whether a new color reading is ready
	ColorAvailable() bool

	// ReadColor returns the latest red, green, blue and ambient intensities
	ReadColor() (codec.RGBA, error)

	Close() error
}

// Config selects and configures a Source backend
type Config struct {
	Backend       string
	Bus           string
	BME280Address uint16
	Seed          uint64
}

const (
	BackendPeriph    = "periph"
	BackendSimulated = "simulated"
)

// New opens the configured backend.
func New(cfg Config) (Source, error) {
	switch cfg.Backend {
	case BackendPeriph:
		return NewPeriph(cfg)
	case BackendSimulated:
		return NewSimulated(cfg.Seed), nil
	default:
		return nil, errFactory.WithData(ErrUnknownBackend, cfg.Backend)
	}
}
