package gatt_test

import (
	"context"
	"testing"

	"codeberg.org/mutker/envsensed/internal/codec"
	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/gatt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignedNumbers(t *testing.T) {
	assert.Equal(t, "0000181a-0000-1000-8000-00805f9b34fb", gatt.ServiceUUID.String())

	tests := []struct {
		ch   codec.Channel
		uuid string
	}{
		{codec.Temperature, "00002a6e-0000-1000-8000-00805f9b34fb"},
		{codec.Humidity, "00002a6f-0000-1000-8000-00805f9b34fb"},
		{codec.Pressure, "00002a6d-0000-1000-8000-00805f9b34fb"},
		{codec.Color, "936b6a25-e503-4f7c-9349-bcc76c22b8c3"},
	}
	for _, tt := range tests {
		t.Run(tt.ch.String(), func(t *testing.T) {
			a, ok := gatt.Lookup(tt.ch)
			require.True(t, ok)
			assert.Equal(t, tt.uuid, a.UUID.String())

			back, ok := gatt.LookupUUID(a.UUID)
			require.True(t, ok)
			assert.Equal(t, tt.ch, back.Channel)
		})
	}
}

func TestProfileOrderAndDescriptions(t *testing.T) {
	require.Len(t, gatt.Profile, len(codec.Channels))
	for i, a := range gatt.Profile {
		assert.Equal(t, codec.Channels[i], a.Channel)
		if a.Channel == codec.Color {
			assert.Equal(t, "16-bit ints: r, g, b, a", a.Description)
			assert.Zero(t, a.Short)
		} else {
			assert.Empty(t, a.Description)
			assert.NotZero(t, a.Short)
		}
	}
}

func TestInitialValues(t *testing.T) {
	want := map[codec.Channel][]byte{
		codec.Temperature: {0, 0},
		codec.Humidity:    {0, 0},
		codec.Pressure:    {0, 0, 0, 0},
		codec.Color:       {0},
	}
	for _, a := range gatt.Profile {
		assert.Equal(t, want[a.Channel], a.Initial(), a.Channel.String())
	}
}

func TestNewUnknownTransport(t *testing.T) {
	_, err := gatt.New(context.Background(), gatt.Config{Transport: "serial"})
	require.Error(t, err)
	assert.Equal(t, gatt.ErrUnknownTransport, errors.CodeOf(err))
}
