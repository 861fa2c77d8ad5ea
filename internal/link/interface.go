package link

import (
	"context"
	"time"
)

// State is the connection state of the peripheral.
type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// Transport reports the central currently connected to the peripheral, if
// any. Implementations are safe for concurrent use.
type Transport interface {
	Central() (remote string, ok bool)
}

// Poller is offered control on every iteration while connected.
type Poller interface {
	Poll(ctx context.Context, now time.Time) (bool, error)
}

// Indicator shows the connection state to a person nearby.
type Indicator interface {
	Set(on bool) error
}
