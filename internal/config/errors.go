package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidServerConfigs indicates invalid server settings (for
	// example, a missing base or socket URL).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidSyncConfigs indicates invalid engine settings (for
	// example, a zero poll interval or shield window).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
