package constants

import "time"

const (
	DefaultTimeout        = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	ShutdownTimeout       = 15 * time.Second
)

const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes
)

// Context keys
const (
	ContextTokenData = "token_data"
	ContextRequestID = "request_id"
)

const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Redis keys
const (
	RedisKeySuggestedHoursPreset = "availability:preset:%s"
	RedisKeyLatestSchedule       = "availability:latest:%s"
	LatestScheduleTTL            = 24 * time.Hour
)

// Background tasks
const (
	TaskAvailabilityWarmUp = "availability:warm_up"
	QueueDefault           = "default"
)

const DefaultTimezone = "Asia/Ho_Chi_Minh"
