package service

import "errors"

var (
	// ErrUnknownPlaylist indicates a local mutation referenced a playlist
	// the collection does not hold.
	ErrUnknownPlaylist = errors.New("unknown playlist")
	// ErrTrackMismatch indicates a reorder request did not name exactly
	// the tracks of the playlist.
	ErrTrackMismatch = errors.New("reorder tracks do not match playlist")
)
