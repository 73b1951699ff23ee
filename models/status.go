package models

// PlayerStatus mirrors the server's current playback state. It is a
// singleton on the client and is replaced wholesale on every accepted push
// or pull snapshot: fields absent from the snapshot revert to their zero
// values. Partial updates go through StatusPatch instead.
type PlayerStatus struct {
	PlaylistID  string  `json:"playlist_id,omitempty"`
	TrackID     int64   `json:"track_id,omitempty"`
	PositionSec float64 `json:"position_sec"`
	DurationSec float64 `json:"duration_sec"`
	IsPlaying   bool    `json:"is_playing"`
	Volume      int     `json:"volume"`
	Seq         uint64  `json:"seq,omitempty"`
}

// StatusPatch is a best-effort partial update carried by an operation
// acknowledgment. Pointer fields distinguish "absent" from "zero", so an
// ack that says nothing about is_playing leaves the current value alone.
type StatusPatch struct {
	PlaylistID  *string  `json:"playlist_id,omitempty"`
	TrackID     *int64   `json:"track_id,omitempty"`
	PositionSec *float64 `json:"position_sec,omitempty"`
	DurationSec *float64 `json:"duration_sec,omitempty"`
	IsPlaying   *bool    `json:"is_playing,omitempty"`
	Volume      *int     `json:"volume,omitempty"`
}

// Apply merges the present fields of the patch into st. Unknown or absent
// fields are never clobbered to defaults.
func (p StatusPatch) Apply(st *PlayerStatus) {
	if p.PlaylistID != nil {
		st.PlaylistID = *p.PlaylistID
	}
	if p.TrackID != nil {
		st.TrackID = *p.TrackID
	}
	if p.PositionSec != nil {
		st.PositionSec = *p.PositionSec
	}
	if p.DurationSec != nil {
		st.DurationSec = *p.DurationSec
	}
	if p.IsPlaying != nil {
		st.IsPlaying = *p.IsPlaying
	}
	if p.Volume != nil {
		st.Volume = *p.Volume
	}
}

// DeviceState describes an auxiliary output device reported by the server
// (secondary speaker, cast target, etc.).
type DeviceState struct {
	DeviceID string `json:"device_id"`
	Name     string `json:"name,omitempty"`
	Active   bool   `json:"active"`
	Volume   int    `json:"volume,omitempty"`
}
