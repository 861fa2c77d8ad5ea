package telemetry

import (
	"strings"
	"time"

	"codeberg.org/mutker/envsensed/internal/errors"
)

const (
	DefaultBroker   = "tcp://localhost:1883"
	DefaultTopic    = "envsensed"
	DefaultClientID = "envsensed"

	publishTimeout = 500 * time.Millisecond
	retryInterval  = 5 * time.Second
	maxReconnect   = 60 * time.Second
	keepAlive      = 30 * time.Second
	quiesceMillis  = 250
)

type Config struct {
	Enabled  bool
	Broker   string
	Topic    string
	ClientID string
}

func DefaultConfig() Config {
	return Config{
		Enabled:  false,
		Broker:   DefaultBroker,
		Topic:    DefaultTopic,
		ClientID: DefaultClientID,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return errFactory.New(ErrInvalidBroker)
	}
	if c.Topic == "" || strings.ContainsAny(c.Topic, "+#") {
		return errFactory.WithData(ErrInvalidTopic, c.Topic)
	}
	return nil
}
