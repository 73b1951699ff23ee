package adapter

import "errors"

var (
	// ErrNotFound indicates the server no longer knows the requested
	// resource; callers purge their local copy and resync.
	ErrNotFound = errors.New("resource not found")
	// ErrUnavailable indicates the server answered with a 5xx status.
	ErrUnavailable = errors.New("server unavailable")
)
