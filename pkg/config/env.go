package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvStorageBackend    = "STORAGE_BACKEND"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout     = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL     = "IDEMPOTENCY_TTL"
	EnvIdempotencyBackend = "IDEMPOTENCY_BACKEND"
	EnvRedisURL           = "REDIS_URL"
	EnvMaxRequestSize     = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvHoldDuration   = "HOLD_DURATION"
	EnvSweepInterval  = "SWEEP_INTERVAL"
	EnvSweepBatchSize = "SWEEP_BATCH_SIZE"

	EnvEventName                = "EVENT_NAME"
	EnvEventVenue               = "EVENT_VENUE"
	EnvEventStartDate           = "EVENT_START_DATE"
	EnvEventEndDate             = "EVENT_END_DATE"
	EnvWhatsAppNumber           = "WHATSAPP_NUMBER"
	EnvDriverCostStandardPerDay = "DRIVER_COST_STANDARD_PER_DAY"
	EnvCurrency                 = "CURRENCY"

	EnvKafkaEnabled       = "KAFKA_ENABLED"
	EnvBookingEventsTopic = "BOOKING_EVENTS_TOPIC"
	EnvNotifierGroupID    = "NOTIFIER_GROUP_ID"

	EnvOtelEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvMetricsEnabled = "METRICS_ENABLED"
)
