// Package queue publishes reservation lifecycle events to RabbitMQ and
// consumes them into an append-only audit log.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"hotel-backoffice/services"
)

var (
	ErrPublishBufferFull = errors.New("event buffer full")
	ErrPublisherClosed   = errors.New("publisher closed")
)

const (
	dialTimeout    = 2 * time.Second
	publishTimeout = 5 * time.Second
	// events are dropped without dialing for this long after a failed dial
	redialCooldown = 5 * time.Second
)

// Publisher hands events to a background worker. Publish never waits on the
// broker; a full buffer or an unreachable broker drops the event with a log
// line. The worker owns the connection and channel.
type Publisher struct {
	queue  string
	dial   func() (*amqp.Connection, error)
	events chan services.Event
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once

	conn      *amqp.Connection
	ch        *amqp.Channel
	downUntil time.Time
}

func NewPublisher(url, queue string, buffer int) *Publisher {
	return newPublisher(queue, buffer, func() (*amqp.Connection, error) {
		return amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	})
}

func newPublisher(queue string, buffer int, dial func() (*amqp.Connection, error)) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	p := &Publisher{
		queue:  queue,
		dial:   dial,
		events: make(chan services.Event, buffer),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Publisher) Publish(ctx context.Context, ev services.Event) error {
	select {
	case <-p.quit:
		return ErrPublisherClosed
	default:
	}
	select {
	case p.events <- ev:
		return nil
	default:
		log.Printf("rabbitmq: buffer full, dropping %s for reservation %d", ev.Topic, ev.ReservationID)
		return ErrPublishBufferFull
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for {
		select {
		case ev := <-p.events:
			p.deliver(ev)
		case <-p.quit:
			for {
				select {
				case ev := <-p.events:
					p.deliver(ev)
				default:
					p.disconnect()
					return
				}
			}
		}
	}
}

func (p *Publisher) deliver(ev services.Event) {
	if err := p.send(ev); err != nil {
		log.Printf("rabbitmq: publish %s for reservation %d failed: %v", ev.Topic, ev.ReservationID, err)
	}
}

func (p *Publisher) send(ev services.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	ch, err := p.channel()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Type:         ev.Topic,
			Body:         body,
		},
	)
	if err != nil {
		_ = ch.Close()
		p.ch = nil
		return err
	}
	return nil
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	if p.conn == nil || p.conn.IsClosed() {
		if time.Now().Before(p.downUntil) {
			return nil, errors.New("broker unavailable, waiting before redial")
		}
		conn, err := p.dial()
		if err != nil {
			p.downUntil = time.Now().Add(redialCooldown)
			return nil, fmt.Errorf("dial: %w", err)
		}
		p.conn = conn
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("channel open: %w", err)
	}
	// durable so events survive broker restarts
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.ch = ch
	return ch, nil
}

func (p *Publisher) disconnect() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close stops accepting events, flushes what is buffered and closes the
// connection.
func (p *Publisher) Close() error {
	p.once.Do(func() { close(p.quit) })
	<-p.done
	return nil
}

var _ services.Publisher = (*Publisher)(nil)
