package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// PlayerTTL bounds how long a player record outlives its process.
	// The engine is process-lifetime only; the TTL just keeps a shared
	// Redis from accumulating records across restarts.
	PlayerTTL time.Duration
	// VoteTTL bounds per-room vote hashes the same way
	VoteTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		PlayerTTL:    24 * time.Hour,
		VoteTTL:      24 * time.Hour,
	}
}
