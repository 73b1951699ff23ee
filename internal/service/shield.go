package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmelnik/playsync/models"
)

// shieldSet marks resources with an in-flight optimistic mutation. While a
// resource is shielded, server pushes that would wholesale-replace its
// track list still advance sequence counters but are not applied to the
// visible collection. Expiry is checked lazily on the next lookup; no timer
// goroutine runs.
//
// Not safe for concurrent use on its own: the engine serializes all access
// behind its mutex.
type shieldSet struct {
	window  time.Duration
	entries map[string]time.Time
	now     func() time.Time
}

func newShieldSet(window time.Duration) *shieldSet {
	return &shieldSet{
		window:  window,
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *shieldSet) mark(id string) {
	s.entries[id] = s.now().Add(s.window)
}

func (s *shieldSet) lift(id string) {
	delete(s.entries, id)
}

// active reports whether id is currently shielded, dropping the entry when
// its window has already elapsed.
func (s *shieldSet) active(id string) bool {
	expiry, ok := s.entries[id]
	if !ok {
		return false
	}
	if s.now().After(expiry) {
		delete(s.entries, id)
		return false
	}
	return true
}

// activeKeepTracks returns, for every shielded playlist still present in
// the collection, its currently visible track list. The engine hands this
// to ReplaceAll so a full snapshot does not clobber optimistic state.
func (e *Engine) activeKeepTracksLocked() map[string][]models.Track {
	keep := make(map[string][]models.Track)
	for id := range e.shields.entries {
		if !e.shields.active(id) {
			continue
		}
		if p, ok := e.playlists.Get(id); ok {
			keep[id] = p.Tracks
		}
	}
	return keep
}

// Reorder applies a locally initiated track reorder: the new order becomes
// visible immediately, the playlist is shielded against conflicting server
// snapshots, and the mutation is submitted with a fresh operation token.
// trackIDs must name exactly the playlist's tracks in the desired order;
// positions are re-numbered 1..N, discarding any legacy numbering.
//
// Returns the operation token. When the submit itself fails the optimistic
// state is already rolled into the failure path (unshield and reload), so
// callers only need to surface the error.
func (e *Engine) Reorder(ctx context.Context, playlistID string, trackIDs []int64) (string, error) {
	e.mu.Lock()

	current, ok := e.playlists.Get(playlistID)
	if !ok {
		e.mu.Unlock()
		return "", ErrUnknownPlaylist
	}

	reordered, err := reorderTracks(current.Tracks, trackIDs)
	if err != nil {
		e.mu.Unlock()
		return "", err
	}

	current.Tracks = reordered
	current.TrackCount = len(reordered)
	e.playlists.Upsert(current)
	e.shields.mark(playlistID)

	opID := e.acks.Track(playlistID, opReorderTracks)
	e.mu.Unlock()

	body, err := json.Marshal(models.ReorderBody{PlaylistID: playlistID, TrackIDs: trackIDs})
	if err != nil {
		return opID, fmt.Errorf("encode reorder body: %w", err)
	}

	frame := models.OperationRequest{
		Type: models.FrameOp,
		OpID: opID,
		Name: opReorderTracks,
		Body: body,
	}
	if err = e.transport.Emit(ctx, frame); err != nil {
		e.log.Warn().Err(err).Str("playlist_id", playlistID).Msg("submit reorder")
		e.failOperation(ctx, opID)
		return opID, fmt.Errorf("submit reorder: %w", err)
	}

	e.log.Debug().Str("playlist_id", playlistID).Str("op_id", opID).Msg("reorder submitted")
	return opID, nil
}

const opReorderTracks = "reorder_tracks"

// reorderTracks maps the existing tracks into the order given by trackIDs
// and re-numbers positions 1..N. The id list must be a permutation of the
// playlist's tracks.
func reorderTracks(tracks []models.Track, trackIDs []int64) ([]models.Track, error) {
	if len(trackIDs) != len(tracks) {
		return nil, ErrTrackMismatch
	}

	byID := make(map[int64]models.Track, len(tracks))
	for _, t := range tracks {
		byID[t.ID] = t
	}

	out := make([]models.Track, 0, len(trackIDs))
	for i, id := range trackIDs {
		t, ok := byID[id]
		if !ok {
			return nil, ErrTrackMismatch
		}
		delete(byID, id)

		t.Position = i + 1
		t.LegacyNumber = 0
		out = append(out, t)
	}

	return out, nil
}
