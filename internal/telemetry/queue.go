package telemetry

import (
	"sync"
	"time"

	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/logger"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const queueSize = 64

// publisher is the part of mqtt.Client the queue needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type outbound struct {
	topic   string
	payload []byte
}

// publishQueue hands messages to a single worker so callers never wait on
// the broker. When the queue is full new messages are dropped.
type publishQueue struct {
	pub     publisher
	timeout time.Duration
	log     logger.Logger

	queue     chan outbound
	done      chan struct{}
	closeOnce sync.Once
}

func newPublishQueue(pub publisher, size int, timeout time.Duration, log logger.Logger) *publishQueue {
	q := &publishQueue{
		pub:     pub,
		timeout: timeout,
		log:     log,
		queue:   make(chan outbound, size),
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

// enqueue never blocks.
func (q *publishQueue) enqueue(topic string, payload []byte) error {
	select {
	case q.queue <- outbound{topic: topic, payload: payload}:
		return nil
	default:
		return errors.New().WithData(ErrQueueFull, topic)
	}
}

func (q *publishQueue) run() {
	defer close(q.done)

	for m := range q.queue {
		token := q.pub.Publish(m.topic, 0, false, m.payload)
		if !token.WaitTimeout(q.timeout) {
			q.log.Warn().Str("topic", m.topic).Msg("Telemetry publish timed out")
			continue
		}
		if err := token.Error(); err != nil {
			q.log.ErrorWithCode(errors.New().Wrap(ErrPublishFailed, err)).
				Str("topic", m.topic).
				Msg("Telemetry publish failed")
			continue
		}
		q.log.Debug().Str("topic", m.topic).Msg("Published telemetry")
	}
}

// close stops accepting messages and waits for the worker to send what is
// already queued.
func (q *publishQueue) close() {
	q.closeOnce.Do(func() {
		close(q.queue)
		<-q.done
	})
}
