package models

import "encoding/json"

// EventKind tags the canonical event envelope. The normalizer produces it
// exactly once; downstream code switches on the kind exhaustively instead
// of sniffing payload shapes.
type EventKind string

const (
	KindPlaylistsSnapshot EventKind = "playlists_snapshot"
	KindPlaylistSnapshot  EventKind = "playlist_snapshot"
	KindStatus            EventKind = "status"
	KindProgress          EventKind = "progress"
	KindPlaylistCreated   EventKind = "playlist_created"
	KindPlaylistUpdated   EventKind = "playlist_updated"
	KindPlaylistDeleted   EventKind = "playlist_deleted"
	KindTracksReindexed   EventKind = "tracks_reindexed"
	KindVolume            EventKind = "volume"
	KindDeviceState       EventKind = "device_state"
)

// Known reports whether k is one of the event kinds this client consumes.
func (k EventKind) Known() bool {
	switch k {
	case KindPlaylistsSnapshot, KindPlaylistSnapshot, KindStatus, KindProgress,
		KindPlaylistCreated, KindPlaylistUpdated, KindPlaylistDeleted,
		KindTracksReindexed, KindVolume, KindDeviceState:
		return true
	}
	return false
}

// PlaylistScoped reports whether events of this kind are sequenced against
// a single playlist's counter. All other kinds gate on the global counter.
func (k EventKind) PlaylistScoped() bool {
	switch k {
	case KindPlaylistSnapshot, KindPlaylistCreated, KindPlaylistUpdated,
		KindPlaylistDeleted, KindTracksReindexed:
		return true
	}
	return false
}

// Event is the canonical envelope every raw push is normalized into.
// ResourceID is empty for globally sequenced kinds.
type Event struct {
	Kind       EventKind       `json:"kind"`
	ResourceID string          `json:"resource_id,omitempty"`
	Seq        uint64          `json:"seq"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// PlaylistsSnapshotPayload is the body of a full-collection snapshot,
// normally the answer to a resync request.
type PlaylistsSnapshotPayload struct {
	Playlists []Playlist `json:"playlists"`
}

// ProgressPayload is the body of a position tick.
type ProgressPayload struct {
	PositionSec float64 `json:"position_sec"`
	DurationSec float64 `json:"duration_sec,omitempty"`
}

// VolumePayload is the body of a volume change.
type VolumePayload struct {
	Volume int `json:"volume"`
}

// ReindexEntry maps one track to its new position within a playlist.
type ReindexEntry struct {
	TrackID  int64 `json:"track_id"`
	Position int   `json:"position"`
}

// TracksReindexedPayload is the body of a batched index update: the server
// moved tracks around without resending the whole playlist.
type TracksReindexedPayload struct {
	Entries []ReindexEntry `json:"entries"`
}
