// Package events publishes booking lifecycle changes for collaborators such
// as the notifier. Events are published after the change has committed; a
// failed publish never undoes the booking change.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eventstay/pkg/kafka"
	"eventstay/pkg/model"
	"eventstay/pkg/observability"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingConfirmed Type = "booking.confirmed"
	BookingCancelled Type = "booking.cancelled"
	BookingExpired   Type = "booking.expired"
)

const SchemaVersion = "1"

// TypeFor maps the status a booking entered to its event type.
func TypeFor(status model.Status) (Type, bool) {
	switch status {
	case model.StatusTemporary:
		return BookingCreated, true
	case model.StatusConfirmed:
		return BookingConfirmed, true
	case model.StatusCancelled:
		return BookingCancelled, true
	case model.StatusExpired:
		return BookingExpired, true
	}
	return "", false
}

type Event struct {
	Type          Type          `json:"type"`
	Booking       model.Booking `json:"booking"`
	PropertyID    string        `json:"property_id"`
	PropertyTitle string        `json:"property_title,omitempty"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

func New(t Type, booking *model.Booking, propertyTitle string, at time.Time) Event {
	return Event{
		Type:          t,
		Booking:       *booking,
		PropertyID:    booking.PropertyID,
		PropertyTitle: propertyTitle,
		OccurredAt:    at.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }

// Sender is the part of kafka.Producer the publisher needs.
type Sender interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaPublisher keys every message by property id so the events of one
// property stay ordered on a single partition.
type KafkaPublisher struct {
	sender Sender
	source string
}

func NewKafkaPublisher(sender Sender, source string) *KafkaPublisher {
	return &KafkaPublisher{sender: sender, source: source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := kafka.NewMessage().
		WithKey(event.PropertyID).
		WithValue(event).
		WithEventType(string(event.Type)).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s message: %w", event.Type, err)
	}
	observability.InjectHeaders(ctx, msg.Headers)

	if err := p.sender.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s for booking %s: %w", event.Type, event.Booking.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.sender.Close()
}

// Decode reads an Event back from a consumed message.
func Decode(msg kafka.Message) (Event, error) {
	var event Event
	if err := msg.DecodeValue(&event); err != nil {
		return Event{}, kafka.NewPermanentError("deserialization failed", err).
			WithDetail("event_type", msg.Headers[kafka.HeaderEventType])
	}
	if _, ok := TypeFor(event.Booking.Status); !ok || event.Type == "" {
		return Event{}, kafka.NewPermanentError("invalid message", fmt.Errorf("unknown event %q", event.Type)).
			WithDetail("event_type", string(event.Type)).
			WithDetail("booking_id", event.Booking.ID)
	}
	return event, nil
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]Type, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}
