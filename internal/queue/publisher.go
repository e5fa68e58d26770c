package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

// BookingQueue is the durable queue all booking events go to.
const BookingQueue = "booking.events"

// Publisher sends booking events.  Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, ev BookingEvent) error
}

// NewPublisher returns an AMQP publisher, or a no-op one when url is empty.
func NewPublisher(url string) Publisher {
	if url == "" {
		return NoopPublisher{}
	}
	return &AMQPPublisher{url: url}
}

// NoopPublisher drops events.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, BookingEvent) error { return nil }

// AMQPPublisher dials the broker for each event.  Booking events are rare
// enough that a long-lived connection is not worth its reconnect logic.
type AMQPPublisher struct {
	url string
}

// Publish sends ev as a persistent JSON message via the default exchange.
// Errors are logged and returned so the caller can choose to ignore them.
func (p *AMQPPublisher) Publish(ctx context.Context, ev BookingEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Warnf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warnf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(BookingQueue, true, false, false, false, nil); err != nil {
		log.Warnf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", BookingQueue, false, false, pub); err != nil {
		log.Warnf("rabbitmq: publish %s failed: %v", ev.Type, err)
		return err
	}
	return nil
}
