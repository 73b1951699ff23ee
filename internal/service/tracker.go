package service

import "github.com/mmelnik/playsync/models"

// sequenceTracker records the last-seen sequence number for the global
// stream and for each independently sequenced playlist. Values only ever
// grow; an incoming number is accepted only when it strictly advances the
// relevant counter.
//
// Not safe for concurrent use on its own: the engine serializes all access
// behind its mutex.
type sequenceTracker struct {
	global    uint64
	playlists map[string]uint64
}

func newSequenceTracker() *sequenceTracker {
	return &sequenceTracker{playlists: make(map[string]uint64)}
}

// tryAdvanceGlobal advances the global counter when seq is strictly
// greater. jump is the distance from the previous value, zero when the
// counter had never been set (the first event of a session is not a gap).
func (t *sequenceTracker) tryAdvanceGlobal(seq uint64) (ok bool, jump uint64) {
	if seq <= t.global {
		return false, 0
	}
	if t.global > 0 {
		jump = seq - t.global
	}
	t.global = seq
	return true, jump
}

// tryAdvance is tryAdvanceGlobal for one playlist's counter.
func (t *sequenceTracker) tryAdvance(id string, seq uint64) (ok bool, jump uint64) {
	prev := t.playlists[id]
	if seq <= prev {
		return false, 0
	}
	if prev > 0 {
		jump = seq - prev
	}
	t.playlists[id] = seq
	return true, jump
}

// resetFromSnapshot rebases the vector on a full-collection snapshot: the
// global counter takes the snapshot's carried sequence and the per-playlist
// map is replaced by the sequences the snapshot carried. The caller has
// already verified the snapshot advances the global counter.
func (t *sequenceTracker) resetFromSnapshot(global uint64, playlists map[string]uint64) {
	t.global = global
	t.playlists = make(map[string]uint64, len(playlists))
	for id, seq := range playlists {
		t.playlists[id] = seq
	}
}

// forget drops the counter of a deleted playlist so a later reincarnation
// of the id starts fresh.
func (t *sequenceTracker) forget(id string) {
	delete(t.playlists, id)
}

// vector snapshots the current counters.
func (t *sequenceTracker) vector() models.SequenceVector {
	return models.SequenceVector{Global: t.global, Playlists: t.playlists}.Clone()
}
