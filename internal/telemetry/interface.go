package telemetry

import (
	"context"
	"time"

	"codeberg.org/mutker/envsensed/internal/scheduler"
)

// Collector mirrors every successful publish to an MQTT broker.
type Collector interface {
	Record(ctx context.Context, p *scheduler.Publication) error
	Close() error
}

// Repository delivers encoded messages to a topic.
type Repository interface {
	Store(topic string, payload []byte) error
	Close() error
}

// Message is the JSON document published for one attribute update.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Channel   string    `json:"channel"`

	// Wire is the transmitted value: an integer in attribute units for
	// numeric channels and the "r,g,b,a" text for color.
	Wire any `json:"wire"`

	// Reading is the physical value; absent for color.
	Reading *float64 `json:"reading,omitempty"`
}
