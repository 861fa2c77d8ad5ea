// Package codec converts raw sensor readings into the exact wire values of
// the Environmental Sensing attributes, and back again for the receiver.
package codec

// Channel identifies one published sensor attribute.
type Channel uint8

const (
	Temperature Channel = iota
	Humidity
	Pressure
	Color
)

// Channels lists every channel in publish order.
var Channels = []Channel{Temperature, Humidity, Pressure, Color}

func (c Channel) String() string {
	switch c {
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	case Pressure:
		return "pressure"
	case Color:
		return "color"
	default:
		return "unknown"
	}
}

// Value is an encoded attribute value ready for transmission. Implementations
// are comparable so equal encodings compare equal with ==.
type Value interface {
	Channel() Channel
	Bytes() []byte
}

// Zero returns the initial attribute value of a channel: zero for numeric
// channels and the empty text for Color.
func Zero(c Channel) Value {
	switch c {
	case Temperature:
		return TemperatureValue(0)
	case Humidity:
		return HumidityValue(0)
	case Pressure:
		return PressureValue(0)
	default:
		return ColorText("")
	}
}
