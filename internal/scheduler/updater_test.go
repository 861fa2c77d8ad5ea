package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"codeberg.org/mutker/envsensed/internal/codec"
	"codeberg.org/mutker/envsensed/internal/filter"
	"codeberg.org/mutker/envsensed/internal/logger"
	"codeberg.org/mutker/envsensed/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	temp, humidity, pressure float64
	color                    codec.RGBA
	tempErr                  error
	colorReads               int
}

func (f *fakeSource) ReadTemperature() (float64, error) { return f.temp, f.tempErr }
func (f *fakeSource) ReadHumidity() (float64, error)    { return f.humidity, nil }
func (f *fakeSource) ReadPressure() (float64, error)    { return f.pressure, nil }
func (f *fakeSource) ColorAvailable() bool              { return true }
func (f *fakeSource) Close() error                      { return nil }

func (f *fakeSource) ReadColor() (codec.RGBA, error) {
	f.colorReads++
	return f.color, nil
}

type fakePublisher struct {
	published []codec.Value
	fail      map[codec.Channel]bool
}

func (p *fakePublisher) Publish(v codec.Value) error {
	if p.fail[v.Channel()] {
		return errors.New("radio busy")
	}
	p.published = append(p.published, v)
	return nil
}

type fakeSink struct {
	records []*scheduler.Publication
}

func (s *fakeSink) Record(_ context.Context, p *scheduler.Publication) error {
	s.records = append(s.records, p)
	return nil
}

func newUpdater(src *fakeSource, pub *fakePublisher, opts ...scheduler.Option) (*scheduler.Updater, *filter.Filter) {
	f := filter.New()
	opts = append([]scheduler.Option{scheduler.WithLogger(logger.Nop())}, opts...)
	return scheduler.NewUpdater(src, pub, f, opts...), f
}

func TestCyclePublishesChangedValues(t *testing.T) {
	src := &fakeSource{temp: 17.5, humidity: 45.23, pressure: 101.325, color: codec.RGBA{R: 100, G: 200, B: 300, A: 50}}
	pub := &fakePublisher{}
	u, _ := newUpdater(src, pub)

	require.NoError(t, u.Cycle(context.Background()))
	assert.Equal(t, []codec.Value{
		codec.TemperatureValue(1750),
		codec.HumidityValue(4523),
		codec.PressureValue(1013250),
		codec.ColorText("100,200,300,50"),
	}, pub.published)

	// Nothing changed, nothing is sent, but color is still read.
	require.NoError(t, u.Cycle(context.Background()))
	assert.Len(t, pub.published, 4)
	assert.Equal(t, 2, src.colorReads)
}

func TestCycleOnlyChangedChannel(t *testing.T) {
	src := &fakeSource{temp: 21.5, humidity: 40, pressure: 100, color: codec.RGBA{R: 1, G: 2, B: 3, A: 4}}
	pub := &fakePublisher{}
	u, _ := newUpdater(src, pub)

	require.NoError(t, u.Cycle(context.Background()))
	pub.published = nil

	src.temp = 21.51
	require.NoError(t, u.Cycle(context.Background()))
	assert.Equal(t, []codec.Value{codec.TemperatureValue(2151)}, pub.published)
}

func TestCycleCalibration(t *testing.T) {
	src := &fakeSource{temp: 17.5}
	pub := &fakePublisher{}
	u, _ := newUpdater(src, pub, scheduler.WithCalibration(-1.25))

	require.NoError(t, u.Cycle(context.Background()))
	require.NotEmpty(t, pub.published)
	assert.Equal(t, codec.TemperatureValue(1625), pub.published[0])
}

func TestCycleFailedPublishNotCommitted(t *testing.T) {
	src := &fakeSource{temp: 17.5, humidity: 10, pressure: 90}
	pub := &fakePublisher{fail: map[codec.Channel]bool{codec.Humidity: true}}
	u, f := newUpdater(src, pub)

	require.NoError(t, u.Cycle(context.Background()))
	assert.Equal(t, codec.Value(codec.HumidityValue(0)), f.Last(codec.Humidity))
	assert.Equal(t, codec.Value(codec.TemperatureValue(1750)), f.Last(codec.Temperature))

	// Retried on the next cycle once the link accepts it.
	pub.fail = nil
	pub.published = nil
	require.NoError(t, u.Cycle(context.Background()))
	assert.Equal(t, []codec.Value{codec.HumidityValue(1000)}, pub.published)
}

func TestCycleReadFailureSkipsChannel(t *testing.T) {
	src := &fakeSource{temp: 17.5, humidity: 10, tempErr: errors.New("i2c nack")}
	pub := &fakePublisher{}
	u, f := newUpdater(src, pub)

	require.NoError(t, u.Cycle(context.Background()))
	assert.Equal(t, codec.Value(codec.TemperatureValue(0)), f.Last(codec.Temperature))
	assert.Equal(t, codec.Value(codec.HumidityValue(1000)), f.Last(codec.Humidity))
}

func TestCycleColorOverflowSkipped(t *testing.T) {
	src := &fakeSource{color: codec.RGBA{R: 1_000_000_000, G: 65535, B: 65535, A: 65535}}
	pub := &fakePublisher{}
	u, f := newUpdater(src, pub)

	require.NoError(t, u.Cycle(context.Background()))
	assert.Equal(t, codec.Value(codec.ColorText("")), f.Last(codec.Color))
}

func TestCycleNotifiesSinks(t *testing.T) {
	at := time.Unix(1700000000, 0)
	src := &fakeSource{temp: 20, color: codec.RGBA{R: 1, G: 1, B: 1, A: 1}}
	pub := &fakePublisher{}
	sink := &fakeSink{}
	u, _ := newUpdater(src, pub,
		scheduler.WithSinks(sink),
		scheduler.WithClock(func() time.Time { return at }),
		scheduler.WithCalibration(0.5),
	)

	require.NoError(t, u.Cycle(context.Background()))
	require.Len(t, sink.records, 2)

	assert.Equal(t, codec.Temperature, sink.records[0].Channel)
	assert.Equal(t, codec.Value(codec.TemperatureValue(2050)), sink.records[0].Value)
	assert.InDelta(t, 20.5, sink.records[0].Reading, 1e-9)
	assert.Equal(t, at, sink.records[0].Timestamp)

	assert.Equal(t, codec.Color, sink.records[1].Channel)
}

func TestCycleAbortedOnShutdown(t *testing.T) {
	src := &neverColor{}
	pub := &fakePublisher{}
	f := filter.New()
	u := scheduler.NewUpdater(src, pub, f, scheduler.WithLogger(logger.Nop()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := u.Cycle(ctx)
	require.Error(t, err)
	assert.Empty(t, pub.published)
}

type neverColor struct {
	fakeSource
}

func (*neverColor) ColorAvailable() bool { return false }
