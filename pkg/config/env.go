package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret = "JWT_SECRET"
	EnvJWTTTL    = "JWT_TTL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvConflictWindow = "BOOKING_CONFLICT_WINDOW"
	EnvSlotLockTTL    = "SLOT_LOCK_TTL"

	EnvDefaultDayStart = "DEFAULT_DAY_START"
	EnvDefaultDayEnd   = "DEFAULT_DAY_END"

	EnvNotifyTopic    = "NOTIFY_TOPIC"
	EnvNotifyDLQTopic = "NOTIFY_DLQ_TOPIC"
	EnvNotifyGroupID  = "NOTIFY_GROUP_ID"

	EnvSMTPHost = "SMTP_HOST"
	EnvSMTPPort = "SMTP_PORT"
	EnvSMTPUser = "SMTP_USER"
	EnvSMTPPass = "SMTP_PASS"
	EnvSMTPFrom = "SMTP_FROM"
)
