package gatt

import (
	"context"

	"codeberg.org/mutker/envsensed/internal/codec"
	"codeberg.org/mutker/envsensed/internal/errors"
)

// Transports
const (
	TransportBlueZ = "bluez"
	TransportHCI   = "hci"
)

// Peripheral serves the Environmental Sensing service. Publish is called
// from the update goroutine; Central may be called from any goroutine.
type Peripheral interface {
	// Publish stores v on its attribute and notifies subscribers
	Publish(v codec.Value) error

	// Central returns the address of the connected central, if any
	Central() (remote string, ok bool)

	Close() error
}

// Config selects and configures a Peripheral backend.
type Config struct {
	Transport string
	LocalName string

	// Adapter is the BlueZ adapter name, e.g. "hci0".
	Adapter string

	// HCIDevice is the raw HCI device index.
	HCIDevice int
}

// New registers the service on the configured transport and starts
// advertising. Advertising stops when ctx ends or Close is called.
func New(ctx context.Context, cfg Config) (Peripheral, error) {
	switch cfg.Transport {
	case TransportBlueZ:
		return newBlueZ(ctx, cfg)
	case TransportHCI:
		return newHCI(ctx, cfg)
	default:
		return nil, errors.New().WithData(ErrUnknownTransport, cfg.Transport)
	}
}
