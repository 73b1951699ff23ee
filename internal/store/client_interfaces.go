package store

import (
	"context"

	"github.com/mmelnik/playsync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/snapshot_cache_mock.go -package=mock

// SnapshotCache persists accepted playlist snapshots so a restarted client
// can render the library before its first resync completes. It never stores
// sequence state or pending operation tokens; those are session-scoped.
type SnapshotCache interface {
	// SavePlaylist writes one playlist wholesale.
	SavePlaylist(ctx context.Context, p models.Playlist) error

	// DeletePlaylist removes one playlist by id.
	DeletePlaylist(ctx context.Context, id string) error

	// ReplaceAll swaps the cached set for the given snapshot.
	ReplaceAll(ctx context.Context, playlists []models.Playlist) error

	// LoadAll returns every cached playlist.
	LoadAll(ctx context.Context) ([]models.Playlist, error)

	// Close releases the underlying database handle.
	Close() error
}
