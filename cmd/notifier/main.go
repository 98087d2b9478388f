package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"eventstay/internal/reservations/events"
	"eventstay/internal/reservations/handler"
	"eventstay/pkg/config"
	"eventstay/pkg/kafka"
	kafkaconfig "eventstay/pkg/kafka/config"
	kafkamiddleware "eventstay/pkg/kafka/middleware"
	"eventstay/pkg/logger"
	"eventstay/pkg/model"
	"eventstay/pkg/observability"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Notifier service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, ServiceName, cfg.OtelEndpoint)
	if err != nil {
		cfg.Log.Fatal("Failed to set up tracing", "error", err)
	}

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	metrics := observability.NewMetrics()
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.BookingEventsTopic, cfg.NotifierGroupID, notify(cfg.Event, cfg.Log), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafkamiddleware.TracingConsumerMiddleware())
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafkamiddleware.MetricsConsumerMiddleware(metrics))

	server := healthServer(cfg, metrics)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cfg.Log.Error("Health server failed", "error", err)
		}
	}()

	cfg.Log.Info("Consuming booking events", "topic", cfg.BookingEventsTopic, "group", cfg.NotifierGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	cfg.Log.Info("Starting graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		cfg.Log.Error("Health server shutdown failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		cfg.Log.Error("Tracing shutdown failed", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}

// notify turns every booking event into the organiser's WhatsApp and e-mail
// links. Delivery is left to whoever reads the log stream.
func notify(event model.EventConfig, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		e, err := events.Decode(msg)
		if err != nil {
			return err
		}
		n := events.Compose(event, e)
		log.Info("Booking notification ready",
			"type", n.Type,
			"booking_id", n.BookingID,
			"subject", n.Subject,
			"whatsapp_link", n.WhatsApp,
			"email_link", n.Email,
		)
		return nil
	}
}

func healthServer(cfg *config.Config, metrics *observability.Metrics) *http.Server {
	router := httprouter.New()
	handler.NewHealthHandler(nil, cfg.Log).RegisterRoutes(router)
	router.Handler(http.MethodGet, "/metrics", metrics.Handler())

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
