package scheduler

import (
	"context"
	"time"

	"codeberg.org/mutker/envsensed/internal/codec"
	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/filter"
	"codeberg.org/mutker/envsensed/internal/logger"
	"codeberg.org/mutker/envsensed/internal/sensor"
)

// DefaultColorPollDelay is the pause between color availability checks.
const DefaultColorPollDelay = 5 * time.Millisecond

// Updater reads every sensor, encodes the readings and publishes the ones
// that changed.
type Updater struct {
	src         sensor.Source
	pub         Publisher
	filter      *filter.Filter
	sinks       []Sink
	calibration float64
	colorDelay  time.Duration
	now         func() time.Time
	log         logger.Logger
}

// Option configures an Updater.
type Option func(*Updater)

// WithCalibration adds a fixed offset in °C to every temperature reading.
func WithCalibration(celsius float64) Option {
	return func(u *Updater) { u.calibration = celsius }
}

// WithColorPollDelay sets the pause between color availability checks.
func WithColorPollDelay(d time.Duration) Option {
	return func(u *Updater) { u.colorDelay = d }
}

// WithSinks registers observers of successful publishes.
func WithSinks(sinks ...Sink) Option {
	return func(u *Updater) { u.sinks = append(u.sinks, sinks...) }
}

// WithClock replaces the clock used to timestamp publications.
func WithClock(now func() time.Time) Option {
	return func(u *Updater) { u.now = now }
}

// WithLogger replaces the default logger.
func WithLogger(l logger.Logger) Option {
	return func(u *Updater) { u.log = l }
}

func NewUpdater(src sensor.Source, pub Publisher, f *filter.Filter, opts ...Option) *Updater {
	u := &Updater{
		src:        src,
		pub:        pub,
		filter:     f,
		colorDelay: DefaultColorPollDelay,
		now:        time.Now,
		log:        logger.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type pending struct {
	value   codec.Value
	reading float64
}

// Cycle performs one update. Every channel is read each cycle, including
// Color when it ends up unpublished. A failed read or encode skips only the
// affected channel. A failed publish leaves the filter untouched so the
// value is retried next cycle. The only error returned is an aborted color
// wait, which happens at shutdown.
func (u *Updater) Cycle(ctx context.Context) error {
	errFactory := errors.New()
	var (
		r      Reading
		values []pending
		err    error
	)

	if r.Temperature, err = u.src.ReadTemperature(); err != nil {
		u.logReadError(codec.Temperature, err)
	} else {
		values = append(values, pending{
			codec.EncodeTemperature(r.Temperature, u.calibration),
			r.Temperature + u.calibration,
		})
	}

	if r.Humidity, err = u.src.ReadHumidity(); err != nil {
		u.logReadError(codec.Humidity, err)
	} else {
		values = append(values, pending{codec.EncodeHumidity(r.Humidity), r.Humidity})
	}

	if r.Pressure, err = u.src.ReadPressure(); err != nil {
		u.logReadError(codec.Pressure, err)
	} else {
		values = append(values, pending{codec.EncodePressure(r.Pressure), r.Pressure})
	}

	r.Color, err = sensor.WaitColor(ctx, u.src, u.colorDelay)
	switch {
	case errors.HasCode(err, sensor.ErrColorWaitEnded):
		return errFactory.Wrap(ErrCycleAborted, err)
	case err != nil:
		u.logReadError(codec.Color, err)
	default:
		text, err := codec.EncodeColor(r.Color)
		if err != nil {
			u.log.ErrorWithCode(errFactory.Wrap(ErrEncodeFailed, err)).
				Str("channel", codec.Color.String()).
				Msg("Skipping color update")
		} else {
			values = append(values, pending{value: text})
		}
	}

	u.log.Debug().
		Float64("temperature", r.Temperature).
		Float64("humidity", r.Humidity).
		Float64("pressure", r.Pressure).
		Str("color", r.Color.String()).
		Msg("Sampled sensors")

	for _, p := range values {
		u.publish(ctx, p)
	}
	return nil
}

func (u *Updater) publish(ctx context.Context, p pending) {
	ch := p.value.Channel()
	if !u.filter.Changed(p.value) {
		return
	}

	if err := u.pub.Publish(p.value); err != nil {
		u.log.ErrorWithCode(errors.New().Wrap(ErrPublishFailed, err)).
			Str("channel", ch.String()).
			Msg("Failed to publish attribute")
		return
	}
	u.filter.Commit(p.value)

	u.log.Info().
		Str("channel", ch.String()).
		Interface("value", p.value).
		Msg("Published attribute")

	pub := &Publication{
		Timestamp: u.now(),
		Channel:   ch,
		Value:     p.value,
		Reading:   p.reading,
	}
	for _, s := range u.sinks {
		if err := s.Record(ctx, pub); err != nil {
			u.log.Debug().Err(err).Str("channel", ch.String()).Msg("Publication sink failed")
		}
	}
}

func (u *Updater) logReadError(ch codec.Channel, err error) {
	u.log.ErrorWithCode(errors.New().Wrap(ErrReadFailed, err)).
		Str("channel", ch.String()).
		Msg("Failed to read sensor")
}
