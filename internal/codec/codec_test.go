package codec_test

import (
	"strings"
	"testing"

	"codeberg.org/mutker/envsensed/internal/codec"
	"codeberg.org/mutker/envsensed/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTemperature(t *testing.T) {
	tests := []struct {
		name        string
		celsius     float64
		calibration float64
		want        codec.TemperatureValue
	}{
		{"calibrated", 21.5, -4.0, 1750},
		{"uncalibrated", 21.5, 0, 2150},
		{"below zero", -3.216, 0, -322},
		{"rounded independently", 20.004, 0.004, 2000},
		{"positive offset", 18.25, 1.5, 1975},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codec.EncodeTemperature(tt.celsius, tt.calibration)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, codec.EncodeTemperature(tt.celsius, tt.calibration), "encoding must be repeatable")
		})
	}
}

func TestEncodeHumidity(t *testing.T) {
	assert.Equal(t, codec.HumidityValue(4523), codec.EncodeHumidity(45.23))
	assert.Equal(t, codec.HumidityValue(0), codec.EncodeHumidity(0))
	assert.Equal(t, codec.HumidityValue(10000), codec.EncodeHumidity(100))
}

func TestEncodePressure(t *testing.T) {
	assert.Equal(t, codec.PressureValue(1013250), codec.EncodePressure(101.325))
	assert.Equal(t, codec.PressureValue(987654), codec.EncodePressure(98.7654))
}

func TestNumericBytesAreLittleEndian(t *testing.T) {
	assert.Equal(t, []byte{0xD6, 0x06}, codec.TemperatureValue(1750).Bytes())
	assert.Equal(t, []byte{0x38, 0xFF}, codec.TemperatureValue(-200).Bytes())
	assert.Equal(t, []byte{0xAB, 0x11}, codec.HumidityValue(4523).Bytes())
	assert.Equal(t, []byte{0x02, 0x76, 0x0F, 0x00}, codec.PressureValue(1013250).Bytes())
}

func TestEncodeColor(t *testing.T) {
	text, err := codec.EncodeColor(codec.RGBA{R: 100, G: 200, B: 300, A: 50})
	require.NoError(t, err)
	assert.Equal(t, codec.ColorText("100,200,300,50"), text)
	assert.Equal(t, append([]byte("100,200,300,50"), 0), text.Bytes())
}

func TestEncodeColorCapacity(t *testing.T) {
	text, err := codec.EncodeColor(codec.RGBA{R: 65535, G: 65535, B: 65535, A: 65535})
	require.NoError(t, err)
	assert.Len(t, text.Bytes(), codec.ColorCapacity)

	_, err = codec.EncodeColor(codec.RGBA{R: 100000, G: 65535, B: 65535, A: 65535})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, codec.ErrColorOverflow))

	_, err = codec.EncodeColor(codec.RGBA{R: -1})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, codec.ErrColorNegative))
}

func TestValueChannels(t *testing.T) {
	assert.Equal(t, codec.Temperature, codec.TemperatureValue(1).Channel())
	assert.Equal(t, codec.Humidity, codec.HumidityValue(1).Channel())
	assert.Equal(t, codec.Pressure, codec.PressureValue(1).Channel())
	assert.Equal(t, codec.Color, codec.ColorText("1,2,3,4").Channel())

	for _, ch := range codec.Channels {
		assert.Equal(t, ch, codec.Zero(ch).Channel())
	}
	assert.Equal(t, []byte{0}, codec.Zero(codec.Color).Bytes())
	assert.Equal(t, "pressure", codec.Pressure.String())
}

func TestDecodeNumeric(t *testing.T) {
	temp, err := codec.DecodeTemperature(codec.TemperatureValue(1750).Bytes())
	require.NoError(t, err)
	assert.InDelta(t, 17.5, temp, 1e-9)
	assert.InDelta(t, 63.5, codec.CelsiusToFahrenheit(temp), 1e-9)

	neg, err := codec.DecodeTemperature(codec.TemperatureValue(-322).Bytes())
	require.NoError(t, err)
	assert.InDelta(t, -3.22, neg, 1e-9)

	hum, err := codec.DecodeHumidity(codec.HumidityValue(4523).Bytes())
	require.NoError(t, err)
	assert.InDelta(t, 45.23, hum, 1e-9)

	kpa, err := codec.DecodePressure(codec.PressureValue(1013250).Bytes())
	require.NoError(t, err)
	assert.InDelta(t, 101.325, kpa, 1e-9)

	_, err = codec.DecodePressure([]byte{1, 2})
	assert.True(t, errors.HasCode(err, codec.ErrShortPayload))
}

func TestDecodeColor(t *testing.T) {
	c, err := codec.DecodeColor([]byte("534,300,234,983\x00"))
	require.NoError(t, err)
	assert.Equal(t, codec.RGBA{R: 534, G: 300, B: 234, A: 983}, c)
	assert.Equal(t, codec.RGBA{R: 22, G: 44, B: 234, A: 215}, c.To8Bit())
	assert.Equal(t, "534,300,234,983", c.String())

	for _, bad := range []string{"", "1,2,3", "1,2,x,4", "1,2,3,-4", strings.Repeat(",", 3)} {
		_, err := codec.DecodeColor([]byte(bad))
		assert.True(t, errors.HasCode(err, codec.ErrMalformedColor), "payload %q", bad)
	}
}
