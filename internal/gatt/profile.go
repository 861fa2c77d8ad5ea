// Package gatt exposes the sensor channels as attributes of the
// Environmental Sensing service and transmits updates to a connected
// central.
package gatt

import (
	"github.com/google/uuid"

	"codeberg.org/mutker/envsensed/internal/codec"
)

// Assigned numbers.
const (
	EnvironmentalSensingUUID16 uint16 = 0x181A
	TemperatureUUID16          uint16 = 0x2A6E
	HumidityUUID16             uint16 = 0x2A6F
	PressureUUID16             uint16 = 0x2A6D
	UserDescriptionUUID16      uint16 = 0x2901
)

// ColorDescription is the user description of the color characteristic.
const ColorDescription = "16-bit ints: r, g, b, a"

// ColorUUID identifies the vendor color characteristic.
var ColorUUID = uuid.MustParse("936b6a25-e503-4f7c-9349-bcc76c22b8c3")

// ServiceUUID is the full form of the Environmental Sensing service UUID.
var ServiceUUID = FromUUID16(EnvironmentalSensingUUID16)

// bluetoothBase is 00000000-0000-1000-8000-00805f9b34fb.
var bluetoothBase = uuid.UUID{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00,
	0x80, 0x00, 0x00, 0x80, 0x5f, 0x9b, 0x34, 0xfb,
}

// FromUUID16 expands a 16-bit assigned number onto the Bluetooth base UUID.
func FromUUID16(short uint16) uuid.UUID {
	u := bluetoothBase
	u[2] = byte(short >> 8)
	u[3] = byte(short)
	return u
}

// Attribute describes one characteristic of the service.
type Attribute struct {
	Channel codec.Channel
	UUID    uuid.UUID

	// Short is the 16-bit assigned number, or 0 for vendor UUIDs.
	Short uint16

	// Description is served as a user description descriptor when set.
	Description string
}

// Initial returns the value the attribute holds before the first publish.
func (a Attribute) Initial() []byte {
	return codec.Zero(a.Channel).Bytes()
}

// Profile lists the characteristics of the service in channel order.
var Profile = []Attribute{
	{Channel: codec.Temperature, UUID: FromUUID16(TemperatureUUID16), Short: TemperatureUUID16},
	{Channel: codec.Humidity, UUID: FromUUID16(HumidityUUID16), Short: HumidityUUID16},
	{Channel: codec.Pressure, UUID: FromUUID16(PressureUUID16), Short: PressureUUID16},
	{Channel: codec.Color, UUID: ColorUUID, Description: ColorDescription},
}

// Lookup returns the attribute carrying ch.
func Lookup(ch codec.Channel) (Attribute, bool) {
	for _, a := range Profile {
		if a.Channel == ch {
			return a, true
		}
	}
	return Attribute{}, false
}

// LookupUUID returns the attribute with the given UUID.
func LookupUUID(u uuid.UUID) (Attribute, bool) {
	for _, a := range Profile {
		if a.UUID == u {
			return a, true
		}
	}
	return Attribute{}, false
}
