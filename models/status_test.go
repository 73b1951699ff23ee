package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── StatusPatch.Apply ────────────────────────────────────────────────────────

func TestStatusPatch_Apply_OnlyPresentFields(t *testing.T) {
	st := PlayerStatus{
		PlaylistID:  "pl-1",
		TrackID:     7,
		PositionSec: 33.5,
		IsPlaying:   true,
		Volume:      80,
	}

	playing := false
	patch := StatusPatch{IsPlaying: &playing}
	patch.Apply(&st)

	assert.False(t, st.IsPlaying)
	assert.Equal(t, "pl-1", st.PlaylistID)
	assert.Equal(t, int64(7), st.TrackID)
	assert.Equal(t, 33.5, st.PositionSec)
	assert.Equal(t, 80, st.Volume)
}

func TestStatusPatch_Apply_ZeroValueIsStillApplied(t *testing.T) {
	st := PlayerStatus{Volume: 80}

	zero := 0
	patch := StatusPatch{Volume: &zero}
	patch.Apply(&st)

	assert.Equal(t, 0, st.Volume, "an explicit zero in the patch must win")
}

func TestStatusPatch_Apply_EmptyPatchIsNoop(t *testing.T) {
	st := PlayerStatus{PlaylistID: "pl-1", TrackID: 3, IsPlaying: true}
	before := st

	StatusPatch{}.Apply(&st)

	assert.Equal(t, before, st)
}

func TestStatusPatch_DecodeDistinguishesAbsentFromZero(t *testing.T) {
	var patch StatusPatch
	require.NoError(t, json.Unmarshal([]byte(`{"volume":0}`), &patch))

	require.NotNil(t, patch.Volume)
	assert.Equal(t, 0, *patch.Volume)
	assert.Nil(t, patch.IsPlaying)
	assert.Nil(t, patch.TrackID)
}

// ── full-replace decode semantics ────────────────────────────────────────────

func TestPlayerStatus_DecodeSparseSnapshot(t *testing.T) {
	var st PlayerStatus
	require.NoError(t, json.Unmarshal([]byte(`{"is_playing":true}`), &st))

	assert.True(t, st.IsPlaying)
	assert.Empty(t, st.PlaylistID)
	assert.Zero(t, st.TrackID)
	assert.Zero(t, st.PositionSec)
}
