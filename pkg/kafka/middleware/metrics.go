package kafka_middleware

import (
	"context"
	"time"

	"eventstay/pkg/kafka"
	"eventstay/pkg/observability"
)

const (
	DirectionProduce = "produce"
	DirectionConsume = "consume"
)

func MetricsProducerMiddleware(m *observability.Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		m.KafkaMessage(DirectionProduce, err, time.Since(start))
		return err
	}
}

func MetricsConsumerMiddleware(m *observability.Metrics) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		m.KafkaMessage(DirectionConsume, err, time.Since(start))
		return err
	}
}

// TracingConsumerMiddleware continues the trace carried in the message headers.
func TracingConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		ctx = observability.ExtractHeaders(ctx, msg.Headers)
		ctx, span := observability.Tracer().Start(ctx, "kafka.consume "+msg.GetEventType())
		defer span.End()
		err := next(ctx, msg)
		if err != nil {
			span.RecordError(err)
		}
		return err
	}
}
