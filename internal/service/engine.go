package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/mmelnik/playsync/internal/adapter"
	"github.com/mmelnik/playsync/internal/config"
	"github.com/mmelnik/playsync/internal/logger"
	"github.com/mmelnik/playsync/internal/state"
	"github.com/mmelnik/playsync/internal/store"
	"github.com/mmelnik/playsync/models"
)

// Engine is the reconciliation core. It owns the sequence tracker, the
// shield set and the ack tracker, and is the only writer of the two state
// containers. All mutation paths — push events, pull results, local
// mutations, ack resolutions — are serialized behind one mutex, so handlers
// run to completion against a consistent view.
type Engine struct {
	log       *logger.Logger
	transport Transport
	pull      adapter.PullClient
	cache     store.SnapshotCache // nil when caching is disabled
	playlists *state.PlaylistCollection
	player    *state.PlayerState
	cfg       config.Sync

	norm    *Normalizer
	tracker *sequenceTracker
	shields *shieldSet
	acks    *AckTracker

	mu         sync.Mutex
	subscribed map[string]struct{}
}

func NewEngine(
	cfg config.Sync,
	transport Transport,
	pull adapter.PullClient,
	cache store.SnapshotCache,
	playlists *state.PlaylistCollection,
	player *state.PlayerState,
	log *logger.Logger,
) *Engine {
	if cfg.ShieldWindow <= 0 {
		cfg.ShieldWindow = 10 * time.Second
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 15 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}

	return &Engine{
		log:        log,
		transport:  transport,
		pull:       pull,
		cache:      cache,
		playlists:  playlists,
		player:     player,
		cfg:        cfg,
		norm:       NewNormalizer(log),
		tracker:    newSequenceTracker(),
		shields:    newShieldSet(cfg.ShieldWindow),
		acks:       NewAckTracker(),
		subscribed: make(map[string]struct{}),
	}
}

// HandleRaw is the transport's delivery callback. Frames with an ack/err
// type discriminator are routed to the operation tracker; everything else
// goes through the normalizer and the sequence gate.
func (e *Engine) HandleRaw(data []byte) {
	var head struct {
		Type string `json:"type"`
	}
	// A decode failure leaves Type empty and the frame falls through to
	// the normalizer, which owns malformed-input handling.
	_ = json.Unmarshal(data, &head)

	switch head.Type {
	case models.FrameAck, models.FrameErr:
		var reply models.OperationReply
		if err := json.Unmarshal(data, &reply); err != nil {
			e.log.Debug().Err(err).Msg("drop undecodable operation reply")
			return
		}
		e.resolveReply(context.Background(), reply)
	default:
		if ev := e.norm.Normalize(data); ev != nil {
			e.HandleEvent(ev)
		}
	}
}

// HandleEvent applies one canonical event under the monotonic-advance rule:
// stale and duplicate sequences are discarded without mutating state, and
// an accepted event advances exactly one counter. A jump beyond the
// configured gap threshold additionally schedules a resync; the event
// itself still applies.
func (e *Engine) HandleEvent(ev *models.Event) {
	e.mu.Lock()

	var ok bool
	var jump uint64
	if ev.Kind.PlaylistScoped() {
		if ev.ResourceID == "" {
			e.mu.Unlock()
			e.log.Debug().Str("kind", string(ev.Kind)).Msg("drop playlist event without resource id")
			return
		}
		ok, jump = e.tracker.tryAdvance(ev.ResourceID, ev.Seq)
	} else {
		ok, jump = e.tracker.tryAdvanceGlobal(ev.Seq)
	}
	if !ok {
		e.mu.Unlock()
		return
	}

	after := e.applyLocked(ev)
	e.mu.Unlock()

	if after != nil {
		after()
	}
	if e.cfg.GapThreshold > 0 && jump > e.cfg.GapThreshold {
		e.log.Info().
			Str("kind", string(ev.Kind)).
			Uint64("jump", jump).
			Msg("sequence gap beyond threshold, scheduling resync")
		e.scheduleResync()
	}
}

// applyLocked mutates state for an event that already passed the sequence
// gate. It returns a follow-up to run outside the engine lock (cache I/O).
func (e *Engine) applyLocked(ev *models.Event) func() {
	switch ev.Kind {
	case models.KindPlaylistsSnapshot:
		return e.applyCollectionSnapshotLocked(ev)

	case models.KindPlaylistSnapshot, models.KindPlaylistCreated, models.KindPlaylistUpdated:
		return e.applyPlaylistLocked(ev)

	case models.KindPlaylistDeleted:
		e.playlists.Remove(ev.ResourceID)
		e.shields.lift(ev.ResourceID)
		e.tracker.forget(ev.ResourceID)
		id := ev.ResourceID
		return func() { e.cacheDelete(id) }

	case models.KindTracksReindexed:
		return e.applyReindexLocked(ev)

	case models.KindStatus:
		var st models.PlayerStatus
		if err := json.Unmarshal(ev.Payload, &st); err != nil {
			e.log.Debug().Err(err).Msg("drop undecodable status payload")
			return nil
		}
		st.Seq = ev.Seq
		e.player.Replace(st)
		return nil

	case models.KindProgress:
		var p models.ProgressPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			e.log.Debug().Err(err).Msg("drop undecodable progress payload")
			return nil
		}
		e.player.Progress(p.PositionSec, p.DurationSec, ev.Seq)
		return nil

	case models.KindVolume:
		var v models.VolumePayload
		if err := json.Unmarshal(ev.Payload, &v); err != nil {
			e.log.Debug().Err(err).Msg("drop undecodable volume payload")
			return nil
		}
		e.player.SetVolume(v.Volume, ev.Seq)
		return nil

	case models.KindDeviceState:
		var d models.DeviceState
		if err := json.Unmarshal(ev.Payload, &d); err != nil {
			e.log.Debug().Err(err).Msg("drop undecodable device payload")
			return nil
		}
		if d.DeviceID == "" {
			d.DeviceID = ev.ResourceID
		}
		e.player.SetDevice(d)
		return nil
	}

	return nil
}

func (e *Engine) applyCollectionSnapshotLocked(ev *models.Event) func() {
	var payload models.PlaylistsSnapshotPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		e.log.Debug().Err(err).Msg("drop undecodable collection snapshot")
		return nil
	}

	perPlaylist := make(map[string]uint64, len(payload.Playlists))
	for i := range payload.Playlists {
		payload.Playlists[i].Normalize()
		if payload.Playlists[i].Seq > 0 {
			perPlaylist[payload.Playlists[i].ID] = payload.Playlists[i].Seq
		}
	}

	e.tracker.resetFromSnapshot(ev.Seq, perPlaylist)
	e.playlists.ReplaceAll(payload.Playlists, e.activeKeepTracksLocked())

	e.log.Info().Int("playlists", len(payload.Playlists)).Uint64("seq", ev.Seq).Msg("collection snapshot applied")

	snapshot := payload.Playlists
	return func() { e.cacheReplaceAll(snapshot) }
}

func (e *Engine) applyPlaylistLocked(ev *models.Event) func() {
	var p models.Playlist
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		e.log.Debug().Err(err).Msg("drop undecodable playlist payload")
		return nil
	}
	if p.ID == "" {
		p.ID = ev.ResourceID
	}
	p.Normalize()

	// The sequence already advanced; a shielded playlist keeps its
	// optimistic track order until the in-flight mutation resolves.
	if e.shields.active(p.ID) {
		e.log.Debug().Str("playlist_id", p.ID).Uint64("seq", ev.Seq).Msg("suppress snapshot for shielded playlist")
		return nil
	}

	e.playlists.Upsert(p)
	return func() { e.cacheSave(p) }
}

func (e *Engine) applyReindexLocked(ev *models.Event) func() {
	var payload models.TracksReindexedPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		e.log.Debug().Err(err).Msg("drop undecodable reindex payload")
		return nil
	}

	if e.shields.active(ev.ResourceID) {
		e.log.Debug().Str("playlist_id", ev.ResourceID).Msg("suppress reindex for shielded playlist")
		return nil
	}

	p, ok := e.playlists.Get(ev.ResourceID)
	if !ok {
		return nil
	}

	positions := make(map[int64]int, len(payload.Entries))
	for _, entry := range payload.Entries {
		positions[entry.TrackID] = entry.Position
	}
	for i := range p.Tracks {
		if pos, ok := positions[p.Tracks[i].ID]; ok {
			p.Tracks[i].Position = pos
		}
	}
	p.Normalize()

	e.playlists.Upsert(p)
	return func() { e.cacheSave(p) }
}

// ApplyPulledStatus feeds a pulled status through the same sequence-gated
// path as a push, so a pull that raced a newer push cannot overwrite it.
func (e *Engine) ApplyPulledStatus(st models.PlayerStatus) {
	payload, err := json.Marshal(st)
	if err != nil {
		e.log.Warn().Err(err).Msg("encode pulled status")
		return
	}
	e.HandleEvent(&models.Event{Kind: models.KindStatus, Seq: st.Seq, Payload: payload})
}

// StatusLooksStale is the fallback poller's predicate: true when nothing is
// known about the active track yet, or when the player claims to be playing
// but no progress tick has arrived within the staleness bound.
func (e *Engine) StatusLooksStale() bool {
	st := e.player.Status()
	if st.TrackID == 0 {
		return true
	}
	if !st.IsPlaying {
		return false
	}
	last := e.player.LastProgress()
	return last.IsZero() || time.Since(last) > e.cfg.StaleAfter
}

// Subscribe registers interest in a playlist's events. The frame is
// retried once after a short delay when the transport is down, per the
// transport-absent policy for subscription calls.
func (e *Engine) Subscribe(ctx context.Context, playlistID string) error {
	e.mu.Lock()
	e.subscribed[playlistID] = struct{}{}
	e.mu.Unlock()

	return e.emitSubscription(ctx, models.FrameSubscribe, playlistID)
}

// Unsubscribe drops interest in a playlist's events.
func (e *Engine) Unsubscribe(ctx context.Context, playlistID string) error {
	e.mu.Lock()
	delete(e.subscribed, playlistID)
	e.mu.Unlock()

	return e.emitSubscription(ctx, models.FrameUnsubscribe, playlistID)
}

func (e *Engine) emitSubscription(ctx context.Context, frameType, playlistID string) error {
	frame := models.SubscribeRequest{Type: frameType, PlaylistID: playlistID}

	backoff := retry.WithMaxRetries(1, retry.NewConstant(e.cfg.RetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := e.transport.Emit(ctx, frame); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		e.log.Warn().Err(err).Str("type", frameType).Str("playlist_id", playlistID).Msg("subscription frame not sent")
		return err
	}
	return nil
}

// resolveReply routes a direct operation reply. Each token resolves exactly
// once; duplicates are no-ops.
func (e *Engine) resolveReply(ctx context.Context, reply models.OperationReply) {
	op, ok := e.acks.Resolve(reply.OpID)
	if !ok {
		e.log.Debug().Str("op_id", reply.OpID).Msg("ignore reply for unknown or resolved operation")
		return
	}

	if reply.Type == models.FrameAck {
		e.mu.Lock()
		e.shields.lift(op.Resource)
		e.mu.Unlock()

		if reply.Patch != nil {
			e.player.Patch(*reply.Patch)
		}

		// The server accepted the mutation, so the visible (optimistic)
		// playlist is now the authoritative one; persist it.
		if p, found := e.playlists.Get(op.Resource); found {
			e.cacheSave(p)
		}

		e.log.Debug().Str("op_id", reply.OpID).Str("resource", op.Resource).Msg("operation acknowledged")
		return
	}

	e.log.Warn().
		Str("op_id", reply.OpID).
		Str("resource", op.Resource).
		Int("code", reply.Code).
		Str("message", reply.Message).
		Msg("operation rejected")

	e.mu.Lock()
	e.shields.lift(op.Resource)
	e.mu.Unlock()

	if reply.Code == http.StatusNotFound {
		e.purgePlaylist(op.Resource)
		return
	}

	go e.reloadPlaylist(ctx, op.Resource)
}

// failOperation is the local failure path for an operation whose submit
// never left the client: resolve the token and recover the resource.
func (e *Engine) failOperation(ctx context.Context, opID string) {
	op, ok := e.acks.Resolve(opID)
	if !ok {
		return
	}

	e.mu.Lock()
	e.shields.lift(op.Resource)
	e.mu.Unlock()

	go e.reloadPlaylist(ctx, op.Resource)
}

// reloadPlaylist pulls one playlist to recover a known-good state after a
// failed mutation. The pulled snapshot goes through the same sequence gate
// as a push: a pull that lost the race to a newer push, or to a fresh local
// mutation that re-shielded the playlist, is dropped rather than applied.
func (e *Engine) reloadPlaylist(ctx context.Context, id string) {
	p, err := e.pull.Playlist(ctx, id)
	if err != nil {
		if errors.Is(err, adapter.ErrNotFound) {
			e.purgePlaylist(id)
			return
		}
		e.log.Warn().Err(err).Str("playlist_id", id).Msg("reload playlist")
		return
	}

	e.mu.Lock()
	if e.shields.active(id) {
		e.mu.Unlock()
		e.log.Debug().Str("playlist_id", id).Msg("discard reload for re-shielded playlist")
		return
	}
	if p.Seq > 0 {
		if ok, _ := e.tracker.tryAdvance(id, p.Seq); !ok {
			e.mu.Unlock()
			e.log.Debug().Str("playlist_id", id).Uint64("seq", p.Seq).Msg("discard stale reload")
			return
		}
	}
	e.playlists.Upsert(p)
	e.mu.Unlock()

	e.cacheSave(p)
	e.log.Debug().Str("playlist_id", id).Msg("playlist reloaded after failed mutation")
}

// purgePlaylist removes a playlist the server no longer knows and schedules
// a full resync to re-establish a consistent baseline.
func (e *Engine) purgePlaylist(id string) {
	e.mu.Lock()
	e.playlists.Remove(id)
	e.shields.lift(id)
	e.tracker.forget(id)
	delete(e.subscribed, id)
	e.mu.Unlock()

	e.cacheDelete(id)
	e.log.Info().Str("playlist_id", id).Msg("playlist purged, resync scheduled")
	e.scheduleResync()
}

// PendingOperations exposes the outstanding token count for observability.
func (e *Engine) PendingOperations() int {
	return e.acks.PendingCount()
}

func (e *Engine) cacheSave(p models.Playlist) {
	if e.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.cache.SavePlaylist(ctx, p); err != nil {
		e.log.Warn().Err(err).Str("playlist_id", p.ID).Msg("cache playlist")
	}
}

func (e *Engine) cacheDelete(id string) {
	if e.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.cache.DeletePlaylist(ctx, id); err != nil {
		e.log.Warn().Err(err).Str("playlist_id", id).Msg("drop cached playlist")
	}
}

func (e *Engine) cacheReplaceAll(playlists []models.Playlist) {
	if e.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.cache.ReplaceAll(ctx, playlists); err != nil {
		e.log.Warn().Err(err).Msg("replace cached playlists")
	}
}
