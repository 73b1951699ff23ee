package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-base-url pull API base URL
//	-socket-url push event stream websocket URL
//	-request-timeout pull request timeout (e.g., "15s")
//	-poll-interval fallback status poll interval (e.g., "5s")
//	-stale-after pushed-status staleness bound (e.g., "15s")
//	-shield-window optimistic mutation shield bound (e.g., "10s")
//	-gap-threshold sequence jump size that triggers resync (0 disables)
//	-cache local snapshot cache path (empty disables)
//	-c/-config json file path with configs
func ParseFlags() *ClientConfig {
	var baseURL string
	var socketURL string
	var requestTimeout time.Duration
	var pollInterval time.Duration
	var staleAfter time.Duration
	var shieldWindow time.Duration
	var gapThreshold uint64
	var cachePath string
	var jsonConfigPath string

	flag.StringVar(&baseURL, "base-url", "", "Pull API base URL")
	flag.StringVar(&socketURL, "socket-url", "", "Push event stream websocket URL")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Pull request timeout (e.g., 15s)")
	flag.DurationVar(&pollInterval, "poll-interval", 0, "Fallback status poll interval (e.g., 5s)")
	flag.DurationVar(&staleAfter, "stale-after", 0, "Pushed-status staleness bound (e.g., 15s)")
	flag.DurationVar(&shieldWindow, "shield-window", 0, "Optimistic mutation shield bound (e.g., 10s)")
	flag.Uint64Var(&gapThreshold, "gap-threshold", 0, "Sequence jump size that triggers resync")
	flag.StringVar(&cachePath, "cache", "", "Local snapshot cache path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &ClientConfig{
		Server: Server{
			BaseURL:        baseURL,
			SocketURL:      socketURL,
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			PollInterval: pollInterval,
			StaleAfter:   staleAfter,
			ShieldWindow: shieldWindow,
			GapThreshold: gapThreshold,
		},
		Cache: Cache{
			Path: cachePath,
		},
		JSONFilePath: jsonConfigPath,
	}
}
