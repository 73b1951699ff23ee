package config

import (
	"time"
)

// ClientConfig is the top-level configuration container for the playsync
// client. It is populated by merging values from environment variables,
// command-line flags and an optional JSON file, in that priority order.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type ClientConfig struct {
	// Server holds the addresses of the remote media server.
	Server Server `envPrefix:"SERVER_"`

	// Sync holds the tunables of the reconciliation engine.
	Sync Sync `envPrefix:"SYNC_"`

	// Cache holds the local snapshot cache settings.
	Cache Cache `envPrefix:"CACHE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Server holds the addresses and timeout used to reach the media server.
type Server struct {
	// BaseURL is the HTTP base URL of the pull API
	// (e.g. "http://localhost:8080").
	// Env: SERVER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// SocketURL is the websocket URL of the push event stream
	// (e.g. "ws://localhost:8080/api/events").
	// Env: SERVER_SOCKET_URL
	SocketURL string `env:"SOCKET_URL"`

	// RequestTimeout bounds every pull request (e.g. "15s").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds the reconciliation engine tunables.
type Sync struct {
	// PollInterval is how often the fallback status poller wakes up.
	// Env: SYNC_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`

	// StaleAfter is how long a playing session may go without a progress
	// tick before the poller considers the pushed status stale.
	// Env: SYNC_STALE_AFTER
	StaleAfter time.Duration `env:"STALE_AFTER"`

	// ShieldWindow bounds how long an optimistic mutation suppresses
	// conflicting server snapshots when its acknowledgment never arrives.
	// Env: SYNC_SHIELD_WINDOW
	ShieldWindow time.Duration `env:"SHIELD_WINDOW"`

	// GapThreshold is the sequence jump size that triggers a proactive
	// resync. Zero disables gap detection.
	// Env: SYNC_GAP_THRESHOLD
	GapThreshold uint64 `env:"GAP_THRESHOLD"`

	// RetryDelay is the pause before the single retry of a subscription
	// frame that failed because the transport was down.
	// Env: SYNC_RETRY_DELAY
	RetryDelay time.Duration `env:"RETRY_DELAY"`
}

// Cache holds the local snapshot cache settings.
type Cache struct {
	// Path is the sqlite file backing the playlist snapshot cache.
	// Empty disables the cache entirely.
	// Env: CACHE_PATH
	Path string `env:"PATH"`
}

// GetClientConfig loads, merges and validates the client configuration from
// all available sources in the following priority order (earlier sources win
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *ClientConfig or an error if any source fails
// to load or the final config fails validation.
func GetClientConfig() (*ClientConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}

func defaultConfig() *ClientConfig {
	return &ClientConfig{
		Server: Server{
			BaseURL:        "http://localhost:8080",
			SocketURL:      "ws://localhost:8080/api/events",
			RequestTimeout: 15 * time.Second,
		},
		Sync: Sync{
			PollInterval: 5 * time.Second,
			StaleAfter:   15 * time.Second,
			ShieldWindow: 10 * time.Second,
			GapThreshold: 64,
			RetryDelay:   500 * time.Millisecond,
		},
	}
}
