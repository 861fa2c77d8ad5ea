package telemetry

import (
	"sync"

	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/logger"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// mqttRepository publishes over a paho client that keeps reconnecting in the
// background. Messages produced while the broker is unreachable are dropped.
// Store only queues; a worker waits on the broker.
type mqttRepository struct {
	client mqtt.Client
	queue  *publishQueue
	log    logger.Logger

	mu        sync.RWMutex
	connected bool
	closed    bool
	closeOnce sync.Once
}

// NewRepository starts connecting to cfg.Broker without waiting for the
// first connection to complete.
func NewRepository(cfg Config, log logger.Logger) Repository {
	r := &mqttRepository{log: log}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(retryInterval)
	opts.SetMaxReconnectInterval(maxReconnect)
	opts.SetKeepAlive(keepAlive)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		r.setConnected(true)
		log.Info().Str("broker", cfg.Broker).Msg("Telemetry broker connected")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		r.setConnected(false)
		log.Warn().Err(err).Str("broker", cfg.Broker).Msg("Telemetry broker connection lost")
	})

	r.client = mqtt.NewClient(opts)
	r.queue = newPublishQueue(r.client, queueSize, publishTimeout, log)
	r.client.Connect()

	return r
}

func (r *mqttRepository) Store(topic string, payload []byte) error {
	errFactory := errors.New()

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed || !r.connected || !r.client.IsConnected() {
		return errFactory.WithData(ErrNotConnected, topic)
	}

	return r.queue.enqueue(topic, payload)
}

func (r *mqttRepository) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()

		r.queue.close()
		r.client.Disconnect(quiesceMillis)
		r.setConnected(false)
		r.log.Info().Msg("Telemetry disconnected")
	})
	return nil
}

func (r *mqttRepository) setConnected(v bool) {
	r.mu.Lock()
	r.connected = v
	r.mu.Unlock()
}
