package models

// SequenceVector carries the last-seen sequence numbers for the whole
// update stream and for each independently sequenced playlist. Values only
// ever grow within a session; the vector is reset on a hard reload and is
// never persisted.
type SequenceVector struct {
	Global    uint64            `json:"global"`
	Playlists map[string]uint64 `json:"playlists,omitempty"`
}

// Clone returns an independent copy of the vector.
func (v SequenceVector) Clone() SequenceVector {
	cp := SequenceVector{Global: v.Global}
	if len(v.Playlists) > 0 {
		cp.Playlists = make(map[string]uint64, len(v.Playlists))
		for id, seq := range v.Playlists {
			cp.Playlists[id] = seq
		}
	}
	return cp
}
