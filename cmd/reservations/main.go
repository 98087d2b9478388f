package main

import (
	"context"

	"eventstay/internal/reservations/events"
	"eventstay/internal/reservations/handler"
	"eventstay/internal/reservations/ledger"
	"eventstay/internal/reservations/repository"
	"eventstay/internal/reservations/service"
	"eventstay/internal/reservations/sweeper"
	"eventstay/internal/reservations/validator"
	"eventstay/pkg/app"
	"eventstay/pkg/clock"
	"eventstay/pkg/config"
	"eventstay/pkg/db"
	"eventstay/pkg/db/memory"
	mongodb "eventstay/pkg/db/mongo"
	"eventstay/pkg/kafka"
	kafkaconfig "eventstay/pkg/kafka/config"
	kafkamiddleware "eventstay/pkg/kafka/middleware"
	"eventstay/pkg/observability"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Reservations service")

	shutdownTracing, err := observability.SetupTracing(context.Background(), ServiceName, cfg.OtelEndpoint)
	if err != nil {
		cfg.Log.Fatal("Failed to set up tracing", "error", err)
	}

	metrics := observability.NewMetrics()
	repos, uow, ready := initStorage(cfg)
	publisher := initPublisher(cfg, metrics)

	clk := clock.System()
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	reservations := service.NewReservationService(
		repos,
		uow,
		ledger.New(repos.Properties, repos.Holds, clk),
		reservationValidator,
		publisher,
		metrics,
		clk,
		cfg,
	)
	properties := service.NewPropertyService(repos, uow, reservationValidator, metrics, clk, cfg)

	serverApp := app.NewApplication(cfg, metrics)
	serverApp.SetApp(ready, handler.Routes{
		Reservations: handler.NewReservationHandler(reservations, cfg.Log),
		Properties:   handler.NewPropertyHandler(properties, cfg.Event, cfg.Log),
	})
	serverApp.AddWorker(sweeper.New(reservations, cfg.SweepInterval, cfg.SweepBatchSize, cfg.Log))
	serverApp.OnShutdown("events publisher", func(context.Context) error {
		return publisher.Close()
	})
	serverApp.OnShutdown("tracing", shutdownTracing)
	serverApp.OnShutdown("clients", func(context.Context) error {
		cfg.GracefulShutdown()
		return nil
	})
	serverApp.Run()
}

func initStorage(cfg *config.Config) (repository.Repositories, db.UnitOfWork, handler.ReadinessCheck) {
	if cfg.IdempotencyBackend == config.IdempotencyRedis {
		cfg.SetRedis()
	}

	if !cfg.UsesMongo() {
		cfg.Log.Warn("Using in-memory storage; data is lost on restart")
		return repository.NewMemoryStore().Repositories(), memory.NewUnitOfWork(), nil
	}

	cfg.SetMongo()
	mongoClient := cfg.Client.Mongo
	cfg.Log.Info("Storage initialized", "backend", config.StorageMongo, "database", cfg.MongoDatabaseName)
	return repository.NewMongoRepositories(cfg),
		mongodb.NewTransactionManager(mongoClient),
		func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }
}

func initPublisher(cfg *config.Config, metrics *observability.Metrics) events.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled; booking events are not published")
		return events.NoopPublisher{}
	}

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafkamiddleware.MetricsProducerMiddleware(metrics))

	cfg.Log.Info("Publishing booking events", "topic", producer.Topic())
	return events.NewKafkaPublisher(producer, ServiceName)
}
