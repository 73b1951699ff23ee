// Package client wires the playsync components into a runnable application:
// configuration, logging, the snapshot cache, the state containers, the
// reconciliation engine, the websocket transport and the fallback poller.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/mmelnik/playsync/internal/adapter"
	"github.com/mmelnik/playsync/internal/config"
	"github.com/mmelnik/playsync/internal/logger"
	"github.com/mmelnik/playsync/internal/service"
	"github.com/mmelnik/playsync/internal/state"
	"github.com/mmelnik/playsync/internal/store"
	"github.com/mmelnik/playsync/internal/transport"
	"github.com/mmelnik/playsync/models"
)

type App struct {
	cfg *config.ClientConfig
	log *logger.Logger

	playlists *state.PlaylistCollection
	player    *state.PlayerState
	cache     store.SnapshotCache
	engine    *service.Engine
	poller    *service.Poller
	ws        *transport.WSTransport

	// runCtx is the session context Run was started with; connection
	// transitions use it as the parent for poller restarts.
	runCtx context.Context
}

func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	pull := adapter.NewHTTPPullClient(adapter.HTTPClientConfig{
		BaseURL: cfg.Server.BaseURL,
		Timeout: cfg.Server.RequestTimeout,
	})

	// The cache is an optimization; a broken cache file must not keep the
	// client from starting.
	var cache store.SnapshotCache
	if cfg.Cache.Path != "" {
		var err error
		cache, err = store.NewSnapshotCache(cfg.Cache.Path, log)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Cache.Path).Msg("open snapshot cache, continuing without")
			cache = nil
		}
	}

	app := &App{
		cfg:       cfg,
		log:       log,
		playlists: state.NewPlaylistCollection(),
		player:    state.NewPlayerState(),
		cache:     cache,
	}

	app.hydrateFromCache()

	app.playlists.Observe(func(kind state.ChangeKind, id string) {
		log.Debug().Str("change", string(kind)).Str("playlist_id", id).Msg("playlist collection changed")
	})
	app.player.Observe(func(st models.PlayerStatus) {
		log.Debug().
			Int64("track_id", st.TrackID).
			Bool("is_playing", st.IsPlaying).
			Float64("position_sec", st.PositionSec).
			Msg("player status changed")
	})

	// The transport and the engine reference each other; the closures defer
	// the engine lookup until frames actually arrive.
	app.ws = transport.New(
		transport.Config{URL: cfg.Server.SocketURL},
		log,
		func(data []byte) { app.engine.HandleRaw(data) },
		app.onConnectionStatus,
	)
	app.engine = service.NewEngine(cfg.Sync, app.ws, pull, cache, app.playlists, app.player, log)
	app.poller = service.NewPoller(app.engine, pull, app.ws, cfg.Sync.PollInterval, log)

	return app, nil
}

// hydrateFromCache seeds the collection with the last server-accepted
// snapshots so the client has something to show before the first resync.
func (a *App) hydrateFromCache() {
	if a.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cached, err := a.cache.LoadAll(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("hydrate from snapshot cache")
		return
	}
	if len(cached) == 0 {
		return
	}

	a.playlists.ReplaceAll(cached, nil)
	a.log.Info().Int("playlists", len(cached)).Msg("hydrated playlists from cache")
}

// onConnectionStatus reacts to transport transitions: a fresh session runs
// the reconnect protocol and restarts the staleness poller; a disconnect
// stops the poller so no pull is issued against an unreachable server.
func (a *App) onConnectionStatus(connected bool) {
	if connected {
		a.log.Info().Msg("event stream connected")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.engine.HandleConnect(ctx)

		a.poller.Start(a.sessionContext())
		return
	}

	a.log.Warn().Msg("event stream disconnected, poller stopped")
	a.poller.Stop()
}

func (a *App) sessionContext() context.Context {
	if a.runCtx != nil {
		return a.runCtx
	}
	return context.Background()
}

// Playlists exposes the playlist collection for UI consumers.
func (a *App) Playlists() *state.PlaylistCollection { return a.playlists }

// Player exposes the player state for UI consumers.
func (a *App) Player() *state.PlayerState { return a.player }

// Subscribe registers interest in a playlist's push events.
func (a *App) Subscribe(ctx context.Context, playlistID string) error {
	return a.engine.Subscribe(ctx, playlistID)
}

// Unsubscribe drops interest in a playlist's push events.
func (a *App) Unsubscribe(ctx context.Context, playlistID string) error {
	return a.engine.Unsubscribe(ctx, playlistID)
}

// Reorder submits an optimistic track reorder and returns its operation
// token.
func (a *App) Reorder(ctx context.Context, playlistID string, trackIDs []int64) (string, error) {
	return a.engine.Reorder(ctx, playlistID, trackIDs)
}

// Status returns the current player status.
func (a *App) Status() models.PlayerStatus {
	return a.player.Status()
}

// Run starts the transport loop and blocks until ctx is cancelled. The
// staleness poller is started by the first connect transition and tracks
// the session from there.
func (a *App) Run(ctx context.Context) error {
	a.runCtx = ctx
	defer a.poller.Stop()

	if a.cache != nil {
		defer func() {
			if err := a.cache.Close(); err != nil {
				a.log.Warn().Err(err).Msg("close snapshot cache")
			}
		}()
	}

	if err := a.ws.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("event stream: %w", err)
	}
	return nil
}
