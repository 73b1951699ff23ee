package service

import (
	"context"
	"time"

	"github.com/mmelnik/playsync/models"
)

// HandleConnect runs on every (re)established transport session. Order
// matters: subscriptions are restored first so events for resynced
// playlists start flowing, then the full-state resync is requested, then
// the current player status is pulled so the UI is not blind while the
// snapshot is in flight.
func (e *Engine) HandleConnect(ctx context.Context) {
	e.mu.Lock()
	ids := make([]string, 0, len(e.subscribed))
	for id := range e.subscribed {
		ids = append(ids, id)
	}
	e.mu.Unlock()

	for _, id := range ids {
		if err := e.emitSubscription(ctx, models.FrameSubscribe, id); err != nil {
			e.log.Warn().Err(err).Str("playlist_id", id).Msg("restore subscription")
		}
	}

	if err := e.RequestResync(ctx); err != nil {
		e.log.Warn().Err(err).Msg("request resync on connect, falling back to pull")
		e.refreshCollection(ctx)
	}

	e.primeStatus(ctx)
}

// refreshCollection pulls the full playlist set over HTTP when the resync
// request could not be carried by the transport. Each pulled playlist is
// applied the way a post-failure reload is: its counter fast-forwards and
// the local copy is replaced, with shielded playlists left alone.
func (e *Engine) refreshCollection(ctx context.Context) {
	list, err := e.pull.Playlists(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("refresh playlists over pull")
		return
	}

	applied := make([]models.Playlist, 0, len(list))
	e.mu.Lock()
	for _, p := range list {
		if e.shields.active(p.ID) {
			continue
		}
		if p.Seq > 0 {
			if ok, _ := e.tracker.tryAdvance(p.ID, p.Seq); !ok {
				continue
			}
		}
		e.playlists.Upsert(p)
		applied = append(applied, p)
	}
	e.mu.Unlock()

	for _, p := range applied {
		e.cacheSave(p)
	}
	e.log.Info().Int("playlists", len(applied)).Msg("playlists refreshed over pull")
}

// RequestResync asks the server for fresh authoritative snapshots. The
// current sequence vector rides along so the server can skip streams the
// client is already current on; the snapshots that come back flow through
// the ordinary event path and its sequence gate.
func (e *Engine) RequestResync(ctx context.Context) error {
	e.mu.Lock()
	vec := e.tracker.vector()
	e.mu.Unlock()

	frame := models.ResyncRequest{Type: models.FrameResync, Vector: vec}
	if err := e.transport.Emit(ctx, frame); err != nil {
		return err
	}

	e.log.Info().Uint64("global_seq", vec.Global).Int("playlists", len(vec.Playlists)).Msg("resync requested")
	return nil
}

// primeStatus pulls the player status once so reconnects do not wait for
// the next push or poller tick.
func (e *Engine) primeStatus(ctx context.Context) {
	st, err := e.pull.PlayerStatus(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("prime player status")
		return
	}
	e.ApplyPulledStatus(st)
}

// scheduleResync fires a resync request off the event-handling path. Lock
// ordering forbids emitting while holding the engine mutex, and a failed
// emit here is not an error worth propagating: the next reconnect resyncs
// anyway.
func (e *Engine) scheduleResync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.RequestResync(ctx); err != nil {
			e.log.Warn().Err(err).Msg("scheduled resync not sent")
		}
	}()
}
