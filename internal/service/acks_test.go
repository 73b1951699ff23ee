package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAckTracker_TrackAndResolve(t *testing.T) {
	tracker := NewAckTracker()

	opID := tracker.Track("pl-1", opReorderTracks)
	require.NotEmpty(t, opID)
	assert.Equal(t, 1, tracker.PendingCount())

	op, ok := tracker.Resolve(opID)
	require.True(t, ok)
	assert.Equal(t, "pl-1", op.Resource)
	assert.Equal(t, opReorderTracks, op.Name)
	assert.Zero(t, tracker.PendingCount())
}

func TestAckTracker_ResolveIsExactlyOnce(t *testing.T) {
	tracker := NewAckTracker()
	opID := tracker.Track("pl-1", opReorderTracks)

	_, ok := tracker.Resolve(opID)
	require.True(t, ok)

	_, ok = tracker.Resolve(opID)
	assert.False(t, ok, "a token resolves at most once")
}

func TestAckTracker_ResolveUnknownToken(t *testing.T) {
	tracker := NewAckTracker()

	_, ok := tracker.Resolve("never-issued")
	assert.False(t, ok)
}

func TestAckTracker_TokensAreUnique(t *testing.T) {
	tracker := NewAckTracker()

	seen := make(map[string]struct{})
	for range 100 {
		opID := tracker.Track("pl-1", opReorderTracks)
		_, dup := seen[opID]
		require.False(t, dup, "token %q issued twice", opID)
		seen[opID] = struct{}{}
	}
	assert.Equal(t, 100, tracker.PendingCount())
}

func TestAckTracker_RecordsSentAt(t *testing.T) {
	tracker := NewAckTracker()
	sent := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return sent }

	opID := tracker.Track("pl-1", opReorderTracks)

	op, ok := tracker.Resolve(opID)
	require.True(t, ok)
	assert.Equal(t, sent, op.SentAt)
}
