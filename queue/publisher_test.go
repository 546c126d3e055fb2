package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"hotel-backoffice/services"
)

func TestPublishDoesNotWaitForBroker(t *testing.T) {
	release := make(chan struct{})
	dials := make(chan struct{}, 10)
	p := newPublisher("hotel.test", 2, func() (*amqp.Connection, error) {
		dials <- struct{}{}
		<-release
		return nil, errors.New("connection refused")
	})

	start := time.Now()
	full := 0
	for i := 0; i < 10; i++ {
		err := p.Publish(context.Background(), services.Event{Topic: services.TopicReservationCreated, ReservationID: uint(i + 1)})
		if errors.Is(err, ErrPublishBufferFull) {
			full++
		} else if err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Publish blocked on the broker for %s", elapsed)
	}
	// the worker holds at most one event while dialing and the buffer two more
	if full < 7 {
		t.Fatalf("expected at least 7 dropped events, got %d", full)
	}

	close(release)
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n := len(dials); n != 1 {
		t.Fatalf("expected one dial before the cooldown, got %d", n)
	}
	if err := p.Publish(context.Background(), services.Event{Topic: services.TopicReservationCreated}); !errors.Is(err, ErrPublisherClosed) {
		t.Fatalf("expected ErrPublisherClosed after Close, got %v", err)
	}
}
