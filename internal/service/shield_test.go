package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mmelnik/playsync/models"
)

func TestShieldSet_MarkAndLift(t *testing.T) {
	s := newShieldSet(10 * time.Second)

	assert.False(t, s.active("pl-1"))

	s.mark("pl-1")
	assert.True(t, s.active("pl-1"))
	assert.False(t, s.active("pl-2"))

	s.lift("pl-1")
	assert.False(t, s.active("pl-1"))
}

func TestShieldSet_ExpiresLazily(t *testing.T) {
	s := newShieldSet(10 * time.Second)

	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	s.mark("pl-1")
	assert.True(t, s.active("pl-1"))

	current = current.Add(9 * time.Second)
	assert.True(t, s.active("pl-1"), "still inside the window")

	current = current.Add(2 * time.Second)
	assert.False(t, s.active("pl-1"), "window elapsed; server state wins again")

	_, held := s.entries["pl-1"]
	assert.False(t, held, "expired entries are dropped on lookup")
}

func TestShieldSet_RemarkExtendsWindow(t *testing.T) {
	s := newShieldSet(10 * time.Second)

	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	s.mark("pl-1")
	current = current.Add(8 * time.Second)
	s.mark("pl-1")
	current = current.Add(8 * time.Second)

	assert.True(t, s.active("pl-1"), "a fresh mutation restarts the window")
}

// ── reorderTracks ────────────────────────────────────────────────────────────

func TestReorderTracks_RenumbersFromOne(t *testing.T) {
	tracks := []models.Track{
		{ID: 10, Position: 1, LegacyNumber: 1},
		{ID: 20, Position: 2, LegacyNumber: 2},
		{ID: 30, Position: 3, LegacyNumber: 3},
	}

	out, err := reorderTracks(tracks, []int64{30, 10, 20})
	assert.NoError(t, err)

	assert.Equal(t, int64(30), out[0].ID)
	assert.Equal(t, 1, out[0].Position)
	assert.Equal(t, int64(10), out[1].ID)
	assert.Equal(t, 2, out[1].Position)
	assert.Equal(t, int64(20), out[2].ID)
	assert.Equal(t, 3, out[2].Position)

	for _, tr := range out {
		assert.Zero(t, tr.LegacyNumber)
	}
}
