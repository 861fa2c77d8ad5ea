package codec

import (
	"encoding/binary"
	"math"
	"strconv"

	"codeberg.org/mutker/envsensed/internal/errors"
)

const (
	// ColorCapacity is the size of the Color attribute buffer including the
	// NUL terminator: four 5-digit values, three separators and the NUL.
	ColorCapacity = 24

	temperatureScale = 100
	humidityScale    = 100
	pressureScale    = 1000 * 10 // kPa -> Pa -> 0.1 Pa
)

// TemperatureValue is a temperature in 0.01 °C.
type TemperatureValue int16

// HumidityValue is a relative humidity in 0.01 %.
type HumidityValue uint16

// PressureValue is a pressure in 0.1 Pa.
type PressureValue uint32

// ColorText is the "r,g,b,a" text of the Color attribute, without terminator.
type ColorText string

// RGBA is one reading of the four color sensor channels.
type RGBA struct {
	R, G, B, A int
}

func (TemperatureValue) Channel() Channel { return Temperature }
func (HumidityValue) Channel() Channel    { return Humidity }
func (PressureValue) Channel() Channel    { return Pressure }
func (ColorText) Channel() Channel        { return Color }

func (v TemperatureValue) Bytes() []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(v))
	return b
}

func (v HumidityValue) Bytes() []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(v))
	return b
}

func (v PressureValue) Bytes() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

// Bytes returns the text followed by its NUL terminator.
func (v ColorText) Bytes() []byte {
	b := make([]byte, 0, len(v)+1)
	b = append(b, v...)
	return append(b, 0)
}

// EncodeTemperature converts a reading in °C plus a fixed calibration offset
// into centi-degrees. Both terms are rounded independently. Results outside
// the int16 range are not checked.
func EncodeTemperature(celsius, calibration float64) TemperatureValue {
	return TemperatureValue(int16(math.Round(celsius*temperatureScale) + math.Round(calibration*temperatureScale)))
}

// EncodeHumidity converts a relative humidity in percent into centi-percent.
func EncodeHumidity(percent float64) HumidityValue {
	return HumidityValue(uint16(math.Round(percent * humidityScale)))
}

// EncodePressure converts a pressure in kPa into units of 0.1 Pa.
func EncodePressure(kPa float64) PressureValue {
	return PressureValue(uint32(math.Round(kPa * pressureScale)))
}

// EncodeColor joins the four channel intensities as decimal text. It fails
// instead of truncating when a component is negative or the text plus
// terminator would not fit in ColorCapacity bytes.
func EncodeColor(c RGBA) (ColorText, error) {
	errFactory := errors.New()

	for _, v := range [...]int{c.R, c.G, c.B, c.A} {
		if v < 0 {
			return "", errFactory.WithData(ErrColorNegative, c)
		}
	}

	buf := make([]byte, 0, ColorCapacity)
	buf = strconv.AppendInt(buf, int64(c.R), 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(c.G), 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(c.B), 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(c.A), 10)

	if len(buf)+1 > ColorCapacity {
		return "", errFactory.WithData(ErrColorOverflow, string(buf))
	}

	return ColorText(buf), nil
}
