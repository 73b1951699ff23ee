package adapter

import (
	"context"

	"github.com/mmelnik/playsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/pull_client_mock.go -package=mock

// PullClient is the stateless request/response side of the server API. The
// resync coordinator uses it to prime status on connect, the fallback
// poller to mask missed pushes, and the shield to reload a playlist after a
// failed mutation.
type PullClient interface {
	// PlayerStatus fetches the full current playback status.
	PlayerStatus(ctx context.Context) (models.PlayerStatus, error)

	// Playlist fetches one playlist wholesale. Returns ErrNotFound when
	// the server no longer knows the id.
	Playlist(ctx context.Context, id string) (models.Playlist, error)

	// Playlists fetches the full playlist collection.
	Playlists(ctx context.Context) ([]models.Playlist, error)
}
