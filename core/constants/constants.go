package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Timeouts
const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultTimeout        = 30 * time.Second
)

// Database settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Redis key prefixes
const (
	RedisKeyTokenBlacklist = "token:blacklist:"
	RedisKeyOAuthState     = "oauth:state:"
)

// OAuth state lifetime
const (
	OAuthStateTTL = 10 * time.Minute
)

// Calendar sync
const (
	// SyncHorizonWeeks is how far ahead external calendars are mirrored
	// into the events table.
	SyncHorizonWeeks = 8
)
