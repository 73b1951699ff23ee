package config

import "strings"

// validate checks that the final merged [ClientConfig] satisfies all
// invariants the engine relies on at startup.
func (cfg *ClientConfig) validate() error {
	if cfg.Server.BaseURL == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}
	if cfg.Server.SocketURL == "" ||
		!(strings.HasPrefix(cfg.Server.SocketURL, "ws://") || strings.HasPrefix(cfg.Server.SocketURL, "wss://")) {
		return ErrInvalidServerConfigs
	}

	if cfg.Sync.PollInterval <= 0 || cfg.Sync.StaleAfter <= 0 || cfg.Sync.ShieldWindow <= 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
