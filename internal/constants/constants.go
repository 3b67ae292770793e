package constants

import "time"

const (
	// match ids requested per League history lookup, bounds the detail fan-out
	MatchHistoryCount = 5
	// max concurrent League detail fetches within one request
	MatchDetailConcurrency = 5
)

const (
	RequestTimeout  = 30 * time.Second
	DatabaseTimeout = 5 * time.Second
)

const (
	// upstream bodies larger than this are rejected
	MaxUpstreamBodyBytes = 6 << 20
	MaxRequestBodyBytes  = 1 << 20
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	PasswordHashCost = 10
	TokenTTL         = 7 * 24 * time.Hour
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultNewsQuery = "gaming"
	UnknownMap       = "Unknown Map"
)
