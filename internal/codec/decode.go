package codec

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"

	"codeberg.org/mutker/envsensed/internal/errors"
)

// DecodeTemperature returns the temperature in °C carried by a Temperature
// attribute payload.
func DecodeTemperature(b []byte) (float64, error) {
	if len(b) < 2 {
		return 0, errors.New().WithData(ErrShortPayload, len(b))
	}
	return float64(int16(binary.LittleEndian.Uint16(b))) / temperatureScale, nil
}

// DecodeHumidity returns the relative humidity in percent.
func DecodeHumidity(b []byte) (float64, error) {
	if len(b) < 2 {
		return 0, errors.New().WithData(ErrShortPayload, len(b))
	}
	return float64(binary.LittleEndian.Uint16(b)) / humidityScale, nil
}

// DecodePressure returns the pressure in kPa.
func DecodePressure(b []byte) (float64, error) {
	if len(b) < 4 {
		return 0, errors.New().WithData(ErrShortPayload, len(b))
	}
	return float64(binary.LittleEndian.Uint32(b)) / pressureScale, nil
}

// DecodeColor parses a Color attribute payload. Anything from the first NUL
// on is ignored.
func DecodeColor(b []byte) (RGBA, error) {
	errFactory := errors.New()

	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	parts := strings.Split(string(b), ",")
	if len(parts) != 4 {
		return RGBA{}, errFactory.WithData(ErrMalformedColor, string(b))
	}

	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return RGBA{}, errFactory.WithData(ErrMalformedColor, string(b))
		}
		v[i] = n
	}

	return RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}

// To8Bit folds 16-bit intensities into 0-255 by taking them modulo 256.
func (c RGBA) To8Bit() RGBA {
	return RGBA{R: c.R % 256, G: c.G % 256, B: c.B % 256, A: c.A % 256}
}

func (c RGBA) String() string {
	return strconv.Itoa(c.R) + "," + strconv.Itoa(c.G) + "," + strconv.Itoa(c.B) + "," + strconv.Itoa(c.A)
}

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*1.8 + 32
}
