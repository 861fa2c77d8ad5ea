// Package link drives the peripheral connection lifecycle and gates sensor
// updates on the presence of a central.
package link

import (
	"context"
	"time"

	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/logger"
)

// DefaultPollInterval is the delay between two controller iterations.
const DefaultPollInterval = 50 * time.Millisecond

// Controller is the Disconnected/Connected state machine. All of its work,
// including every scheduler poll, happens on the goroutine calling Run or
// Step.
type Controller struct {
	transport Transport
	poller    Poller
	indicator Indicator
	interval  time.Duration
	now       func() time.Time
	log       logger.Logger

	state  State
	remote string
}

// Option configures a Controller.
type Option func(*Controller)

// WithIndicator sets the connection indicator.
func WithIndicator(i Indicator) Option {
	return func(c *Controller) { c.indicator = i }
}

// WithPollInterval sets the delay between iterations of Run.
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) { c.interval = d }
}

// WithClock replaces the clock passed to the poller by Run.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger replaces the default logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func NewController(t Transport, p Poller, opts ...Option) *Controller {
	c := &Controller{
		transport: t,
		poller:    p,
		interval:  DefaultPollInterval,
		now:       time.Now,
		log:       logger.Default(),
		state:     Disconnected,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.indicator == nil {
		c.indicator = NewLogIndicator(c.log)
	}
	return c
}

// State returns the current link state.
func (c *Controller) State() State {
	return c.state
}

// Remote returns the identity of the connected central, or "" when
// disconnected.
func (c *Controller) Remote() string {
	return c.remote
}

// Step performs one iteration: it applies any connection change and, while
// connected, offers control to the poller. Nothing is polled while
// disconnected.
func (c *Controller) Step(ctx context.Context, now time.Time) error {
	remote, ok := c.transport.Central()

	switch {
	case ok && c.state == Disconnected:
		c.connect(remote)
	case !ok && c.state == Connected:
		c.disconnect()
	case ok && remote != c.remote:
		// A different central took over between two iterations.
		c.disconnect()
		c.connect(remote)
	}

	if c.state != Connected {
		return nil
	}

	if _, err := c.poller.Poll(ctx, now); err != nil {
		return errors.New().Wrap(ErrUpdateFailed, err)
	}
	return nil
}

// Run calls Step every poll interval until ctx ends. The indicator is
// switched off on return.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer c.setIndicator(false)

	c.log.Info().Msg("Waiting for connections")

	for {
		if err := c.Step(ctx, c.now()); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (c *Controller) connect(remote string) {
	c.state = Connected
	c.remote = remote
	c.setIndicator(true)
	c.log.Info().Str("remote", remote).Msg("Connected")
}

func (c *Controller) disconnect() {
	c.log.Info().Str("remote", c.remote).Msg("Disconnected")
	c.state = Disconnected
	c.remote = ""
	c.setIndicator(false)
}

func (c *Controller) setIndicator(on bool) {
	if err := c.indicator.Set(on); err != nil {
		c.log.ErrorWithCode(errors.New().Wrap(ErrIndicatorSet, err)).Msg("Failed to set indicator")
	}
}
