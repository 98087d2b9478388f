package config

import "time"

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"

	IdempotencyMemory = "memory"
	IdempotencyRedis  = "redis"
)

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "eventstay"
	DefaultMongoConnTimeout  = 10 * time.Second
	DefaultStorageBackend    = StorageMongo

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout     = 30 * time.Second
	DefaultIdempotencyTTL     = 24 * time.Hour
	DefaultIdempotencyBackend = IdempotencyMemory
	DefaultRedisURL           = "redis://localhost:6379/0"
	DefaultMaxRequestSize     = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultHoldDuration   = 1 * time.Hour
	DefaultSweepInterval  = 1 * time.Minute
	DefaultSweepBatchSize = 200

	DefaultEventName                = "Event Weekend"
	DefaultEventVenue               = "Main Venue"
	DefaultEventStartDate           = "2026-12-18"
	DefaultEventEndDate             = "2026-12-21"
	DefaultDriverCostStandardPerDay = 50000
	DefaultCurrency                 = "NGN"

	DefaultKafkaEnabled       = false
	DefaultBookingEventsTopic = "booking-events"
	DefaultNotifierGroupID    = "booking-notifier"

	DefaultMetricsEnabled = true

	DefaultPaginationLimit = 100
)
