// Package rabbitmq publishes trip.* domain events to a topic exchange with
// publisher confirms.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	zlog "github.com/rs/zerolog/log"
)

const (
	DefaultExchange = "travel.trips"

	defaultConfirmWait = 2 * time.Second
)

var (
	ErrNoRoute     = errors.New("rabbitmq: message returned unroutable")
	ErrNack        = errors.New("rabbitmq: publish nacked")
	ErrNotReady    = errors.New("rabbitmq: publisher channel not ready")
	ErrConfirmWait = errors.New("rabbitmq: timed out waiting for confirm")
)

type Publisher struct {
	url         string
	exchange    string
	confirmWait time.Duration

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	returnCh  <-chan amqp.Return
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{url: url, exchange: exchange, confirmWait: defaultConfirmWait}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect dials, declares the durable topic exchange and enables confirms.
// Callers hold p.mu or own p exclusively.
func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("enable confirms: %w", err)
	}

	p.conn = conn
	p.ch = ch
	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returnCh = ch.NotifyReturn(make(chan amqp.Return, 1))
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

func (p *Publisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// PublishEvent sends body as persistent JSON with the mandatory flag and
// waits for the broker's confirm. messageID must be the outbox message id so
// consumers can dedupe redeliveries. Any error leaves the outbox row pending.
func (p *Publisher) PublishEvent(ctx context.Context, routingKey, messageID string, body []byte) error {
	if strings.TrimSpace(routingKey) == "" {
		return errors.New("missing routingKey")
	}
	if strings.TrimSpace(messageID) == "" {
		return errors.New("missing messageID")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		p.closeLocked()
		if err := p.connect(); err != nil {
			zlog.Warn().Err(err).Msg("rabbitmq reconnect failed")
			return ErrNotReady
		}
	}

	tag := p.ch.GetNextPublishSeqNo()
	err := p.ch.PublishWithContext(ctx, p.exchange, routingKey,
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			MessageId:    messageID,
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return err
	}

	err = awaitConfirm(ctx, p.confirmCh, p.returnCh, tag, messageID, p.confirmWait)
	if errors.Is(err, ErrConfirmWait) || ctx.Err() != nil {
		// The confirm may still arrive; drop the channel so it cannot be
		// read by the next publish.
		p.closeLocked()
	}
	return err
}

// awaitConfirm waits for the confirm of delivery tag. Confirms for earlier
// tags and returns for other message ids are left over from abandoned
// publishes and are skipped. A returned message is followed by its confirm.
func awaitConfirm(ctx context.Context, confirms <-chan amqp.Confirmation, returns <-chan amqp.Return, tag uint64, messageID string, wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	var returned bool
	for {
		select {
		case ret, ok := <-returns:
			if !ok {
				return ErrNotReady
			}
			if ret.MessageId != messageID {
				continue
			}
			zlog.Warn().Str("routing_key", ret.RoutingKey).Str("message_id", messageID).Msg("rabbitmq returned message")
			returned = true
		case conf, ok := <-confirms:
			if !ok {
				return ErrNotReady
			}
			if conf.DeliveryTag < tag {
				zlog.Debug().Uint64("delivery_tag", conf.DeliveryTag).Uint64("want", tag).Msg("rabbitmq stale confirm skipped")
				continue
			}
			if returned {
				return ErrNoRoute
			}
			if !conf.Ack {
				return ErrNack
			}
			return nil
		case <-timer.C:
			return ErrConfirmWait
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
