package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventstay/internal/reservations/events"
	"eventstay/pkg/kafka"
	"eventstay/pkg/logger"
	"eventstay/pkg/model"
)

type captureSender struct {
	msgs []kafka.Message
}

func (c *captureSender) Publish(_ context.Context, msg kafka.Message) error {
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *captureSender) Close() error { return nil }

func TestNotify_HandlesPublishedEvent(t *testing.T) {
	sender := &captureSender{}
	booking := &model.Booking{
		ID:           "b-1",
		PropertyID:   "p-1",
		GuestName:    "Ada Obi",
		CheckIn:      time.Date(2026, 12, 18, 14, 0, 0, 0, time.UTC),
		CheckOut:     time.Date(2026, 12, 21, 14, 0, 0, 0, time.UTC),
		Units:        1,
		Price:        model.Quote{Nights: 3, Accommodation: 120000, Total: 120000},
		BookingState: model.ConfirmedState(),
	}
	publisher := events.NewKafkaPublisher(sender, "reservations")
	require.NoError(t, publisher.Publish(context.Background(), events.New(events.BookingConfirmed, booking, "Lagoon Villa", time.Now())))
	require.Len(t, sender.msgs, 1)

	handle := notify(model.EventConfig{EventName: "Lagos Summit", Currency: "NGN", WhatsAppNumber: "+234 800 000 0000"}, logger.Discard())
	assert.NoError(t, handle(context.Background(), sender.msgs[0]))
}

func TestNotify_RejectsGarbage(t *testing.T) {
	handle := notify(model.EventConfig{}, logger.Discard())
	err := handle(context.Background(), kafka.Message{Key: "p-1", Value: []byte("not json")})

	var kerr *kafka.KafkaError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, kafka.ErrorTypePermanent, kerr.Type)
	assert.False(t, kafka.ShouldRetry(err, 0, 3))
}
