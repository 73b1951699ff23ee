// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maksim Melnik

package models

import "sort"

// Track is a single entry of a playlist. Tracks are ordered by Position,
// a positive integer unique within the playlist.
//
// LegacyNumber is an alias field that older server builds used for the same
// position concept. It is accepted on decode but never written back:
// Normalize moves its value into Position and zeroes it out.
type Track struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Artist       string `json:"artist,omitempty"`
	DurationSec  int    `json:"duration_sec,omitempty"`
	Position     int    `json:"position,omitempty"`
	LegacyNumber int    `json:"track_number,omitempty"`
}

// CanonicalPosition returns Position when set, falling back to the legacy
// track_number field. Position always wins when both are present.
func (t Track) CanonicalPosition() int {
	if t.Position > 0 {
		return t.Position
	}
	return t.LegacyNumber
}

// Playlist is a named ordered collection of tracks. Identity is ID.
// A playlist is always replaced wholesale, never merged field by field.
type Playlist struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Tracks      []Track `json:"tracks"`
	TrackCount  int     `json:"track_count"`
	Seq         uint64  `json:"seq,omitempty"`
}

// Normalize canonicalizes the playlist in place: every track's position is
// resolved through CanonicalPosition with the legacy alias dropped, tracks
// are sorted into position order and TrackCount is recomputed.
func (p *Playlist) Normalize() {
	for i := range p.Tracks {
		p.Tracks[i].Position = p.Tracks[i].CanonicalPosition()
		p.Tracks[i].LegacyNumber = 0
	}
	sort.SliceStable(p.Tracks, func(i, j int) bool {
		return p.Tracks[i].Position < p.Tracks[j].Position
	})
	p.TrackCount = len(p.Tracks)
}

// Clone returns a deep copy, so callers can hand playlists to observers
// without sharing the track slice.
func (p Playlist) Clone() Playlist {
	cp := p
	cp.Tracks = make([]Track, len(p.Tracks))
	copy(cp.Tracks, p.Tracks)
	return cp
}

// TrackIDs returns the track identifiers in current visual order.
func (p Playlist) TrackIDs() []int64 {
	ids := make([]int64, 0, len(p.Tracks))
	for _, t := range p.Tracks {
		ids = append(ids, t.ID)
	}
	return ids
}
