// Package scheduler decides when to sample the sensors and runs the
// read, encode, filter and publish cycle.
package scheduler

import (
	"context"
	"time"

	"codeberg.org/mutker/envsensed/internal/errors"
)

// DefaultInterval is the minimum time between two update cycles.
const DefaultInterval = 2 * time.Second

// Cycler runs one complete update cycle.
type Cycler interface {
	Cycle(ctx context.Context) error
}

// Scheduler gates update cycles to at most one per interval. It is owned by
// the link controller goroutine.
type Scheduler struct {
	interval time.Duration
	lastTick time.Time
	cycler   Cycler
}

// New returns a Scheduler whose first cycle becomes due one interval after
// boot.
func New(interval time.Duration, boot time.Time, cycler Cycler) (*Scheduler, error) {
	if interval <= 0 {
		return nil, errors.New().WithData(ErrInvalidInterval, interval)
	}

	return &Scheduler{
		interval: interval,
		lastTick: boot,
		cycler:   cycler,
	}, nil
}

// Due reports whether an interval has elapsed since the last tick. When it
// has, the tick is consumed and lastTick moves to now.
func (s *Scheduler) Due(now time.Time) bool {
	if now.Sub(s.lastTick) < s.interval {
		return false
	}
	s.lastTick = now
	return true
}

// Poll runs one cycle if it is due and reports whether it ran.
func (s *Scheduler) Poll(ctx context.Context, now time.Time) (bool, error) {
	if !s.Due(now) {
		return false, nil
	}
	return true, s.cycler.Cycle(ctx)
}

// LastTick returns the time the last cycle fired, or boot if none has.
func (s *Scheduler) LastTick() time.Time {
	return s.lastTick
}

// Interval returns the configured update interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}
