// Package receiver is the central side: it reads the Environmental Sensing
// attributes of a peripheral and prints them for a person to look at.
package receiver

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"codeberg.org/mutker/envsensed/internal/codec"
	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/logger"
	"github.com/fatih/color"
)

// DefaultInterval is the delay between two reads of all attributes.
const DefaultInterval = 2 * time.Second

// Reader returns the raw payload of every characteristic.
type Reader interface {
	ReadAll() (map[codec.Channel][]byte, error)
}

// Snapshot is one decoded set of readings.
type Snapshot struct {
	Temperature float64 // °C
	Humidity    float64 // %
	Pressure    float64 // kPa
	Color       codec.RGBA
}

// Decode turns raw payloads into a Snapshot. Every channel must be present.
func Decode(raw map[codec.Channel][]byte) (Snapshot, error) {
	errFactory := errors.New()
	var (
		s   Snapshot
		err error
	)

	for _, ch := range codec.Channels {
		b, ok := raw[ch]
		if !ok {
			return s, errFactory.WithData(ErrMissingChannel, ch.String())
		}

		switch ch {
		case codec.Temperature:
			s.Temperature, err = codec.DecodeTemperature(b)
		case codec.Humidity:
			s.Humidity, err = codec.DecodeHumidity(b)
		case codec.Pressure:
			s.Pressure, err = codec.DecodePressure(b)
		case codec.Color:
			s.Color, err = codec.DecodeColor(b)
		}
		if err != nil {
			return s, errFactory.Wrap(ErrDecodeFailed, err)
		}
	}

	return s, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Format prints s the way a person reads it: temperature in °F, pressure in
// kPa, and the color both as values and as a swatch.
func Format(w io.Writer, s Snapshot) error {
	c8 := s.Color.To8Bit()
	swatch := color.RGB(127, 127, 127).AddBgRGB(c8.R, c8.G, c8.B)

	_, err := fmt.Fprintf(w,
		"Temperature: %v°F\nHumidity: %v%%\nBarometric Pressure: %v kPa\n"+
			"16-bit Color values (r,g,b,a): %s\n 8-bit Color values (r,g,b,a): %s\n"+
			"Color Swatch\n%s\n",
		round2(codec.CelsiusToFahrenheit(s.Temperature)),
		round2(s.Humidity),
		round2(s.Pressure),
		s.Color, c8,
		swatch.Sprint("\t\t"),
	)
	return err
}

// Run reads r every interval and prints each snapshot to w until ctx ends.
// Read failures are logged and the loop carries on.
func Run(ctx context.Context, r Reader, w io.Writer, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := once(r, w); err != nil {
			logger.Warn().Err(err).Msg("Failed to read peripheral")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func once(r Reader, w io.Writer) error {
	raw, err := r.ReadAll()
	if err != nil {
		return err
	}

	s, err := Decode(raw)
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	return Format(w, s)
}
