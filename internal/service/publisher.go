// Package service provides the outbound side of talk lifecycle events: a
// RabbitMQ publisher the lifecycle controller hands events to.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/talkmaster-dashboard/internal/config"
	"github.com/iliyamo/talkmaster-dashboard/internal/queue"
)

// Publisher sends lifecycle events to one durable queue. It dials per
// publish: mutations are rare and a broker outage must not leave a dead
// connection behind.
type Publisher struct {
	url         string
	queue       string
	dialTimeout time.Duration
}

// NewPublisher returns nil when events are disabled.
func NewPublisher(cfg config.EventsConfig) *Publisher {
	if !cfg.Enabled || cfg.URL == "" {
		return nil
	}
	return &Publisher{url: cfg.URL, queue: cfg.Queue, dialTimeout: cfg.DialTimeout}
}

// Publish sends ev as a persistent JSON message. Errors are returned so the
// caller can log them; they never affect the user action.
func (p *Publisher) Publish(ctx context.Context, ev queue.TalkLifecycleEvent) error {
	if p == nil {
		return nil
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}

	conn, err := queue.Dial(p.url, p.dialTimeout)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("rabbitmq: queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         string(ev.Action),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}
