// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package events publishes domain events to RabbitMQ.

Publishing is best effort: callers log a failed publish and carry on, so the
broker being down never fails a catalog write or a role change. Each event
type is routed to a durable queue of the same name through the default
exchange, and messages are marked persistent. A channel dropped by the broker
is replaced on the next publish.
*/
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/toikana/marketplace/pkg/uuid"
)

// Event types.
const (
	TypeCatalogItemCreated = "catalog.item.created"
	TypeCatalogItemUpdated = "catalog.item.updated"
	TypeCatalogItemDeleted = "catalog.item.deleted"
	TypeProfileRoleChanged = "profile.role_changed"

	TypePasswordResetRequested = "auth.password_reset_requested"
)

// Event is the envelope written to the broker.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	ActorID    string    `json:"actor_id,omitempty"`
	Payload    any       `json:"payload"`
}

// New stamps a fresh event.
func New(eventType, actorID string, payload any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		ActorID:    actorID,
		Payload:    payload,
	}
}

// Publisher sends events to subscribers.
type Publisher interface {
	Publish(context context.Context, event Event) error
}

// # No-op

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

// Publish implements [Publisher].
func (Noop) Publish(context.Context, Event) error { return nil }

// # Recorder

// Recorder keeps published events in memory for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements [Publisher].
func (recorder *Recorder) Publish(_ context.Context, event Event) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.events = append(recorder.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (recorder *Recorder) Events() []Event {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]Event(nil), recorder.events...)
}

// Types returns the type of every recorded event, in order.
func (recorder *Recorder) Types() []string {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()

	types := make([]string, 0, len(recorder.events))
	for _, event := range recorder.events {
		types = append(types, event.Type)
	}
	return types
}

// # AMQP

// amqpChannel is the part of [*amqp.Channel] the publisher uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// link is one broker connection and its channel.
type link struct {
	channel amqpChannel
	close   func() error
}

// AMQPPublisher publishes over one long-lived connection. When the broker
// drops the channel (restart, network loss), the next Publish dials again.
type AMQPPublisher struct {
	mu       sync.Mutex
	connect  func() (*link, error)
	current  *link
	declared map[string]bool
	logger   *slog.Logger
}

// Dial connects to the broker and opens a channel.
func Dial(url string, logger *slog.Logger) (*AMQPPublisher, error) {
	publisher := newAMQPPublisher(func() (*link, error) { return dialLink(url) }, logger)

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	if _, err := publisher.channel(); err != nil {
		return nil, err
	}

	logger.Info("amqp publisher connected")
	return publisher, nil
}

func newAMQPPublisher(connect func() (*link, error), logger *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{connect: connect, declared: make(map[string]bool), logger: logger}
}

func dialLink(url string) (*link, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: dial failed: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("events: channel open failed: %w", err)
	}
	return &link{channel: channel, close: conn.Close}, nil
}

// channel returns an open channel, redialing when the current one is closed.
// Queues are declared again on a new channel. Callers hold mu.
func (publisher *AMQPPublisher) channel() (amqpChannel, error) {
	if publisher.current != nil {
		if !publisher.current.channel.IsClosed() {
			return publisher.current.channel, nil
		}
		_ = publisher.current.close()
		publisher.current = nil
		publisher.logger.Warn("amqp_channel_lost_redialing")
	}

	next, err := publisher.connect()
	if err != nil {
		return nil, err
	}
	publisher.current = next
	publisher.declared = make(map[string]bool)
	return next.channel, nil
}

// Publish implements [Publisher]. AMQP channels are not safe for concurrent
// use, so publishes are serialized.
func (publisher *AMQPPublisher) Publish(context context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal %s failed: %w", event.Type, err)
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	channel, err := publisher.channel()
	if err != nil {
		return err
	}

	if !publisher.declared[event.Type] {
		if _, err := channel.QueueDeclare(event.Type, true, false, false, false, nil); err != nil {
			return fmt.Errorf("events: queue declare %s failed: %w", event.Type, err)
		}
		publisher.declared[event.Type] = true
	}

	message := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	}

	if err := channel.PublishWithContext(context, "", event.Type, false, false, message); err != nil {
		return fmt.Errorf("events: publish %s failed: %w", event.Type, err)
	}

	return nil
}

// Close closes the channel and the connection.
func (publisher *AMQPPublisher) Close() error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	if publisher.current == nil {
		return nil
	}
	current := publisher.current
	publisher.current = nil

	if err := current.channel.Close(); err != nil {
		publisher.logger.Warn("amqp_channel_close_failed", slog.Any("error", err))
	}
	return current.close()
}

// PublishQuietly publishes and logs, never returning an error.
func PublishQuietly(context context.Context, publisher Publisher, logger *slog.Logger, event Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(context, event); err != nil {
		logger.WarnContext(context, "event_publish_failed",
			slog.String("type", event.Type),
			slog.String("error", err.Error()),
		)
	}
}
