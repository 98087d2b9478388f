package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"eventstay/pkg/kafka"
	"eventstay/pkg/logger"
	"eventstay/pkg/observability"

	"github.com/stretchr/testify/assert"
)

func TestProducerMiddleware_PassesThrough(t *testing.T) {
	boom := errors.New("boom")
	msg := kafka.Message{Key: "b1", Headers: map[string]string{kafka.HeaderEventType: "booking.created"}}

	for _, mw := range []kafka.ProducerMiddleware{
		LoggingProducerMiddleware(logger.Discard()),
		MetricsProducerMiddleware(observability.NewMetrics()),
	} {
		called := 0
		err := mw(context.Background(), msg, func(ctx context.Context, m kafka.Message) error {
			called++
			assert.Equal(t, "b1", m.Key)
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, called)
	}
}

func TestConsumerMiddleware_PassesThrough(t *testing.T) {
	msg := kafka.Message{Key: "b1", Headers: map[string]string{}}

	for _, mw := range []kafka.ConsumerMiddleware{
		LoggingConsumerMiddleware(logger.Discard()),
		MetricsConsumerMiddleware(nil),
		TracingConsumerMiddleware(),
	} {
		called := 0
		err := mw(context.Background(), msg, func(ctx context.Context, m kafka.Message) error {
			called++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, called)
	}
}
