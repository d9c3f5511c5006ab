package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "homecare"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultJWTTTL = 24 * time.Hour

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultConflictWindow is the half-width of the double-booking guard:
	// a staff member may not hold two bookings within this distance of each
	// other, inclusive on both bounds.
	DefaultConflictWindow = 2 * time.Hour

	DefaultSlotLockTTL = 10 * time.Second

	DefaultDayStart = "08:00"
	DefaultDayEnd   = "19:00"

	DefaultNotifyTopic    = "homecare.notifications"
	DefaultNotifyDLQTopic = "homecare.notifications.dlq"
	DefaultNotifyGroupID  = "notifier"

	DefaultPaginationLimit = 100
)
