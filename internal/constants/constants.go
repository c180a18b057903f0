package constants

import "time"

const (
	GeneralCacheTTL = 60 * time.Second
	PlayerCacheTTL  = 1 * time.Hour
	CacheEvictEvery = 1 * time.Minute
)

const (
	ExternalAPITimeout = 15 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	// MaxRetries is the number of additional attempts after the first
	// request; only 429, 5xx and network-level failures are retried.
	MaxRetries   = 2
	RetryBackoff = 500 * time.Millisecond
)

const (
	DefaultMatchLimit = 5
	MaxMatchLimit     = 20

	// EnrichConcurrency bounds the per-match statistics fan-out.
	EnrichConcurrency = 5

	SearchFallbackLimit = 5
)

const DefaultGame = "cs2"

const (
	ShutdownTimeout = 5 * time.Second
)
