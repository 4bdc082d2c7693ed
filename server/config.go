package server

import "time"

// Config holds configuration for the simulation HTTP server.
type Config struct {
	Addr      string // Listen address (default ":8000")
	LogLevel  string // Log level: trace, debug, info, warn, error
	LogFormat string // Log format: text, json

	// MaxDuration caps the simulated horizon per request, in ms. Zero means no cap.
	MaxDuration int64

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultMaxDuration is the default per-request horizon cap: 1,000 s of simulated time.
const DefaultMaxDuration int64 = 1_000_000

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8000",
		LogLevel:     "info",
		LogFormat:    "text",
		MaxDuration:  DefaultMaxDuration,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
