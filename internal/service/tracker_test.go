package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ── global counter ───────────────────────────────────────────────────────────

func TestSequenceTracker_GlobalMonotonicAdvance(t *testing.T) {
	tr := newSequenceTracker()

	ok, jump := tr.tryAdvanceGlobal(5)
	assert.True(t, ok)
	assert.Zero(t, jump, "the first value of a session is not a gap")

	ok, _ = tr.tryAdvanceGlobal(5)
	assert.False(t, ok, "duplicate must be rejected")

	ok, _ = tr.tryAdvanceGlobal(3)
	assert.False(t, ok, "stale value must be rejected")

	ok, jump = tr.tryAdvanceGlobal(6)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), jump)

	ok, jump = tr.tryAdvanceGlobal(106)
	assert.True(t, ok)
	assert.Equal(t, uint64(100), jump)
}

// ── per-playlist counters ────────────────────────────────────────────────────

func TestSequenceTracker_PlaylistCountersAreIndependent(t *testing.T) {
	tr := newSequenceTracker()

	ok, _ := tr.tryAdvance("a", 10)
	assert.True(t, ok)

	ok, jump := tr.tryAdvance("b", 2)
	assert.True(t, ok, "counter for b is untouched by a's advance")
	assert.Zero(t, jump)

	ok, _ = tr.tryAdvance("a", 10)
	assert.False(t, ok)

	ok, jump = tr.tryAdvance("a", 12)
	assert.True(t, ok)
	assert.Equal(t, uint64(2), jump)
}

func TestSequenceTracker_Forget(t *testing.T) {
	tr := newSequenceTracker()

	ok, _ := tr.tryAdvance("a", 50)
	assert.True(t, ok)

	tr.forget("a")

	ok, jump := tr.tryAdvance("a", 1)
	assert.True(t, ok, "a reincarnated id starts from scratch")
	assert.Zero(t, jump)
}

// ── snapshot rebase ──────────────────────────────────────────────────────────

func TestSequenceTracker_ResetFromSnapshot(t *testing.T) {
	tr := newSequenceTracker()
	tr.tryAdvanceGlobal(100)
	tr.tryAdvance("old", 40)

	tr.resetFromSnapshot(200, map[string]uint64{"new": 7})

	ok, _ := tr.tryAdvanceGlobal(150)
	assert.False(t, ok, "global counter took the snapshot's value")

	ok, _ = tr.tryAdvance("new", 7)
	assert.False(t, ok)
	ok, _ = tr.tryAdvance("new", 8)
	assert.True(t, ok)

	ok, _ = tr.tryAdvance("old", 1)
	assert.True(t, ok, "counters absent from the snapshot are dropped")
}

func TestSequenceTracker_Vector(t *testing.T) {
	tr := newSequenceTracker()
	tr.tryAdvanceGlobal(9)
	tr.tryAdvance("a", 3)

	vec := tr.vector()
	assert.Equal(t, uint64(9), vec.Global)
	assert.Equal(t, map[string]uint64{"a": 3}, vec.Playlists)

	// The vector is a snapshot, not a live view.
	vec.Playlists["a"] = 999
	ok, _ := tr.tryAdvance("a", 4)
	assert.True(t, ok)
}
