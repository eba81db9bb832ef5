// Package events publishes poll lifecycle events to an AMQP fanout exchange
// so downstream consumers (feeds, notification services, analytics) can
// react without polling the API. Publishing is strictly best-effort: a
// broker outage is logged and the originating request still succeeds.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Routing keys for the events the engine emits.
const (
	PollCreated   = "poll.created"
	PollDeleted   = "poll.deleted"
	OptionAdded   = "option.added"
	OptionRemoved = "option.removed"
	VoteCast      = "vote.cast"
	VoteChanged   = "vote.changed"
)

// exchangeName is the fanout exchange all events go through.
const exchangeName = "poll.events"

// Publisher is the contract services use to emit events. Implementations
// must never fail the caller: errors are handled (logged) internally.
type Publisher interface {
	// Publish emits payload (JSON-encoded) under the given routing key.
	Publish(ctx context.Context, key string, payload any)
}

// Nop is a Publisher that drops everything. Used when AMQP is not
// configured and in tests.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, string, any) {}

// envelope is the wire format: the routing key is repeated in the body so
// consumers bound to a fanout exchange still see the event type.
type envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// AMQPPublisher publishes events to RabbitMQ. It is safe for concurrent use;
// the underlying channel is guarded by a mutex since amqp091 channels are
// not concurrency-safe for publishing.
type AMQPPublisher struct {
	conn *amqp.Connection
	mu   sync.Mutex
	ch   *amqp.Channel
}

// Connect dials the broker, opens a channel, and declares the fanout
// exchange. The returned publisher should be Closed on shutdown.
func Connect(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(
		exchangeName,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

// Publish implements Publisher. Marshal or broker errors are logged and
// swallowed: losing an event must never lose a vote.
func (p *AMQPPublisher) Publish(ctx context.Context, key string, payload any) {
	body, err := json.Marshal(envelope{
		Type:       key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("event marshal failed")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx,
		exchangeName,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now().UTC(),
			Body:        body,
		},
	)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("event publish failed")
	}
}

// Close tears down the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
