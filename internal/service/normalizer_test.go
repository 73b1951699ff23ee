package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmelnik/playsync/internal/logger"
	"github.com/mmelnik/playsync/models"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(logger.Nop())
}

// ── full envelopes ───────────────────────────────────────────────────────────

func TestNormalizer_FullEnvelope(t *testing.T) {
	n := newTestNormalizer()

	ev := n.Normalize([]byte(`{"event_type":"playlist_updated","server_seq":12,"playlist_id":"pl-1","data":{"id":"pl-1","title":"Mix"}}`))

	require.NotNil(t, ev)
	assert.Equal(t, models.KindPlaylistUpdated, ev.Kind)
	assert.Equal(t, "pl-1", ev.ResourceID)
	assert.Equal(t, uint64(12), ev.Seq)
	assert.JSONEq(t, `{"id":"pl-1","title":"Mix"}`, string(ev.Payload))
}

func TestNormalizer_EnvelopeWithSeqAlias(t *testing.T) {
	n := newTestNormalizer()

	ev := n.Normalize([]byte(`{"event_type":"volume","seq":4,"data":{"volume":55}}`))

	require.NotNil(t, ev)
	assert.Equal(t, models.KindVolume, ev.Kind)
	assert.Equal(t, uint64(4), ev.Seq)
}

func TestNormalizer_EnvelopeWithoutData_UsesWholeObject(t *testing.T) {
	n := newTestNormalizer()

	ev := n.Normalize([]byte(`{"event_type":"status","server_seq":3,"is_playing":true}`))

	require.NotNil(t, ev)
	assert.Equal(t, models.KindStatus, ev.Kind)
	assert.Equal(t, uint64(3), ev.Seq)

	// The payload is the raw object itself; downstream decoding picks the
	// status fields out of it.
	assert.Contains(t, string(ev.Payload), `"is_playing":true`)
}

func TestNormalizer_ResourceIDFallback(t *testing.T) {
	n := newTestNormalizer()

	ev := n.Normalize([]byte(`{"event_type":"playlist_deleted","server_seq":8,"resource_id":"pl-9"}`))

	require.NotNil(t, ev)
	assert.Equal(t, "pl-9", ev.ResourceID)
}

// ── wrapped payloads ─────────────────────────────────────────────────────────

func TestNormalizer_DataWrapperWithoutKind_DefaultsToStatus(t *testing.T) {
	n := newTestNormalizer()

	ev := n.Normalize([]byte(`{"seq":21,"data":{"is_playing":false,"volume":30}}`))

	require.NotNil(t, ev)
	assert.Equal(t, models.KindStatus, ev.Kind)
	assert.Equal(t, uint64(21), ev.Seq)
	assert.JSONEq(t, `{"is_playing":false,"volume":30}`, string(ev.Payload))
}

// ── bare payloads ────────────────────────────────────────────────────────────

func TestNormalizer_BareObject_IsDirectStatusPush(t *testing.T) {
	n := newTestNormalizer()

	ev := n.Normalize([]byte(`{"playlist_id":"pl-1","track_id":7,"is_playing":true,"seq":40}`))

	require.NotNil(t, ev)
	assert.Equal(t, models.KindStatus, ev.Kind)
	assert.Equal(t, uint64(40), ev.Seq, "a bare payload's own seq rides along")
}

func TestNormalizer_BareObjectWithoutSeq(t *testing.T) {
	n := newTestNormalizer()

	ev := n.Normalize([]byte(`{"is_playing":true}`))

	require.NotNil(t, ev)
	assert.Equal(t, models.KindStatus, ev.Kind)
	assert.Zero(t, ev.Seq)
}

// ── rejected frames ──────────────────────────────────────────────────────────

func TestNormalizer_DropsGarbage(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name  string
		frame string
	}{
		{name: "empty", frame: ""},
		{name: "whitespace", frame: "   "},
		{name: "array", frame: `[1,2,3]`},
		{name: "scalar", frame: `42`},
		{name: "truncated json", frame: `{"event_type":"status"`},
		{name: "named unknown kind", frame: `{"event_type":"heartbeat","server_seq":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, n.Normalize([]byte(tt.frame)))
		})
	}
}
