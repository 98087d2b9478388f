package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	kafka_config "eventstay/pkg/kafka/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("booking-1").
		WithValue(map[string]int{"units": 2}).
		WithEventType("booking.created").
		WithSource("reservations").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "booking-1", msg.Key)
	assert.JSONEq(t, `{"units":2}`, string(msg.Value))
	assert.NotEmpty(t, msg.GetEventID())
	assert.NotEmpty(t, msg.Headers[HeaderTimestamp])
	assert.Equal(t, "booking.created", msg.GetEventType())

	var decoded map[string]int
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, 2, decoded["units"])
}

func TestMessageBuilder_EncodingError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestRetryCount(t *testing.T) {
	msg := Message{Headers: map[string]string{}}
	assert.Equal(t, 0, msg.GetRetryCount())
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	assert.Equal(t, 12, msg.GetRetryCount())

	msg.Headers[HeaderRetryCount] = "garbage"
	assert.Equal(t, 0, msg.GetRetryCount())
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"typed transient", &KafkaError{Type: ErrorTypeTransient, Message: "x"}, ErrorTypeTransient},
		{"typed permanent", NewPermanentError("x", nil), ErrorTypePermanent},
		{"wrapped typed", fmt.Errorf("ctx: %w", NewPermanentError("timeout", nil)), ErrorTypePermanent},
		{"leader moved", errors.New("[6] Not Leader For Partition"), ErrorTypeTransient},
		{"deadline", context.DeadlineExceeded, ErrorTypeTransient},
		{"network text", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"schema", errors.New("schema mismatch"), ErrorTypePermanent},
		{"unknown", errors.New("weird"), ErrorTypePermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := errors.New("i/o timeout")
	assert.True(t, ShouldRetry(transient, 0, 3))
	assert.False(t, ShouldRetry(transient, 3, 3))
	assert.False(t, ShouldRetry(NewPermanentError("bad", nil), 0, 3))
	assert.False(t, ShouldRetry(nil, 0, 3))
}

func TestAnnotateDLQ(t *testing.T) {
	now := time.Date(2026, 12, 1, 9, 0, 0, 0, time.UTC)
	msg := Message{Key: "p-1"}
	err := fmt.Errorf("handler: %w", NewPermanentError("deserialization failed", errors.New("bad json")).
		WithDetail("event_type", "booking.created"))

	annotateDLQ(&msg, "booking-events", "notifier", err, now)

	assert.Equal(t, "booking-events", msg.Headers[HeaderOriginalTopic])
	assert.Equal(t, "notifier", msg.Headers[HeaderDLQGroup])
	assert.Equal(t, "2026-12-01T09:00:00Z", msg.Headers[HeaderDLQTimestamp])
	assert.Contains(t, msg.Headers[HeaderDLQError], "bad json")
	assert.Equal(t, "booking.created", msg.Headers[HeaderDLQDetailPrefix+"event_type"])
	assert.Equal(t, now, msg.Timestamp)

	plain := Message{Key: "p-1"}
	annotateDLQ(&plain, "t", "g", errors.New("weird"), now)
	assert.Len(t, plain.Headers, 4)
}

func TestNewProducer_Validation(t *testing.T) {
	_, err := NewProducer(nil, "t", nil)
	assert.Error(t, err)

	_, err = NewProducer(&kafka_config.Config{}, "t", nil)
	assert.Error(t, err)

	_, err = NewProducer(&kafka_config.Config{Brokers: []string{"localhost:9092"}}, "", nil)
	assert.Error(t, err)
}

func TestProducer_PublishRejectsBadMessages(t *testing.T) {
	p, err := NewProducer(&kafka_config.Config{Brokers: []string{"localhost:9092"}, ProducerMaxAttempts: 1}, "t", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("x")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k", Value: []byte("x")}), ErrProducerClosed)
}

func TestNewConsumer_Validation(t *testing.T) {
	cfg := &kafka_config.Config{Brokers: []string{"localhost:9092"}}
	handler := func(context.Context, Message) error { return nil }

	_, err := NewConsumer(cfg, "", "g", handler, nil)
	assert.Error(t, err)
	_, err = NewConsumer(cfg, "t", "", handler, nil)
	assert.Error(t, err)
	_, err = NewConsumer(cfg, "t", "g", nil, nil)
	assert.Error(t, err)
}
