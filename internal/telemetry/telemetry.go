// Package telemetry mirrors published attribute values to MQTT.
package telemetry

import (
	"context"
	"encoding/json"

	"codeberg.org/mutker/envsensed/internal/codec"
	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/logger"
	"codeberg.org/mutker/envsensed/internal/scheduler"
)

type service struct {
	repo  Repository
	topic string
}

type noopCollector struct{}

// NewService connects to the broker in the background and returns a
// Collector. It returns a no-op Collector when telemetry is disabled.
func NewService(cfg Config, log logger.Logger) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		log.Debug().Msg("Telemetry disabled, using no-op collector")
		return &noopCollector{}, nil
	}

	return newService(cfg.Topic, NewRepository(cfg, log)), nil
}

func newService(topic string, repo Repository) *service {
	return &service{repo: repo, topic: topic}
}

// Topic returns the topic carrying ch below prefix.
func Topic(prefix string, ch codec.Channel) string {
	return prefix + "/" + ch.String()
}

// Encode renders p as a JSON Message.
func Encode(p *scheduler.Publication) ([]byte, error) {
	m := Message{
		Timestamp: p.Timestamp.UTC(),
		Channel:   p.Channel.String(),
		Wire:      p.Value,
	}
	if p.Channel != codec.Color {
		reading := p.Reading
		m.Reading = &reading
	}
	return json.Marshal(m)
}

func (s *service) Record(ctx context.Context, p *scheduler.Publication) error {
	errFactory := errors.New()

	if p == nil || p.Value == nil {
		return errFactory.New(ErrInvalidPublication)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
	}

	payload, err := Encode(p)
	if err != nil {
		return errFactory.Wrap(ErrEncodeFailed, err)
	}

	if err := s.repo.Store(Topic(s.topic, p.Channel), payload); err != nil {
		return errFactory.Wrap(ErrPublishFailed, err)
	}
	return nil
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrServiceShutdown, err)
	}
	return nil
}

func (*noopCollector) Record(context.Context, *scheduler.Publication) error {
	return nil
}

func (*noopCollector) Close() error {
	return nil
}
