// Package service implements the reconciliation engine: it folds the push
// event stream, pull snapshots and optimistic local mutations into the two
// state containers while keeping every sequence counter monotonic.
package service

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/transport_mock.go -package=mock

// Transport is the outbound side of the push channel. Reconnect and
// backoff mechanics are the transport's own business; the engine only
// needs to emit frames and to know whether a send can succeed right now.
type Transport interface {
	// Emit marshals frame as JSON and sends it. Returns an error while
	// disconnected; frames are never queued.
	Emit(ctx context.Context, frame any) error

	// Connected reports whether the push channel is currently up.
	Connected() bool
}
