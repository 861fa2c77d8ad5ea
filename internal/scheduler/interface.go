package scheduler

import (
	"context"
	"time"

	"codeberg.org/mutker/envsensed/internal/codec"
)

// Publisher transmits an encoded value on its attribute, notifying any
// subscribed central.
type Publisher interface {
	Publish(v codec.Value) error
}

// Sink observes every successful publish. Sinks must not block for long;
// they run on the update goroutine.
type Sink interface {
	Record(ctx context.Context, p *Publication) error
}

// Publication describes one transmitted attribute value.
type Publication struct {
	Timestamp time.Time
	Channel   codec.Channel
	Value     codec.Value

	// Reading is the calibrated physical value behind a numeric encoding.
	// It is zero for Color.
	Reading float64
}

// Reading holds the raw sensor values taken during one tick.
type Reading struct {
	Temperature float64
	Humidity    float64
	Pressure    float64
	Color       codec.RGBA
}
