package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "event_booking"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequesterHeader = "X-Requester-ID"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// A slot lock only covers one short-lived transaction; the TTL is a
	// backstop against holders that died before releasing.
	DefaultSlotLockTTL = 10 * time.Second

	DefaultEventsEnabled     = true
	DefaultBookingEventTopic = "booking-events"
	DefaultBookingEventDLQ   = ""

	DefaultPaginationLimit = 100
)
