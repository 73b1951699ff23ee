// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maksim Melnik

// Package store provides the local snapshot cache backing the playlist
// collection across restarts.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mmelnik/playsync/internal/logger"
	"github.com/mmelnik/playsync/migrations"
	"github.com/mmelnik/playsync/models"
)

// sqliteSnapshotCache is the sqlite-backed implementation of
// [SnapshotCache]. Track lists are stored as a JSON column; the cache is a
// hydration source, not a queryable library index.
type sqliteSnapshotCache struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewSnapshotCache opens (or creates) the sqlite file at path and runs the
// embedded migrations.
func NewSnapshotCache(path string, log *logger.Logger) (SnapshotCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot cache: %w", err)
	}

	if err = migrations.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate snapshot cache: %w", err)
	}

	return &sqliteSnapshotCache{db: db, logger: log}, nil
}

// newSnapshotCacheWithDB wires an existing handle; used by tests with a
// mocked database.
func newSnapshotCacheWithDB(db *sql.DB, log *logger.Logger) *sqliteSnapshotCache {
	return &sqliteSnapshotCache{db: db, logger: log}
}

func (c *sqliteSnapshotCache) SavePlaylist(ctx context.Context, p models.Playlist) error {
	tracks, err := json.Marshal(p.Tracks)
	if err != nil {
		return fmt.Errorf("encode cached tracks: %w", err)
	}

	query, args, err := sq.Insert("playlists").
		Columns("id", "title", "description", "track_count", "tracks").
		Values(p.ID, p.Title, p.Description, p.TrackCount, string(tracks)).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			track_count = excluded.track_count,
			tracks = excluded.tracks,
			updated_at = CURRENT_TIMESTAMP`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build cache upsert query: %w", err)
	}

	if _, err = c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("cache playlist %s: %w", p.ID, err)
	}
	return nil
}

func (c *sqliteSnapshotCache) DeletePlaylist(ctx context.Context, id string) error {
	query, args, err := sq.Delete("playlists").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build cache delete query: %w", err)
	}

	if _, err = c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete cached playlist %s: %w", id, err)
	}
	return nil
}

func (c *sqliteSnapshotCache) ReplaceAll(ctx context.Context, playlists []models.Playlist) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache replace: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sq.Delete("playlists").ToSql()
	if err != nil {
		return fmt.Errorf("build cache clear query: %w", err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	for _, p := range playlists {
		tracks, encErr := json.Marshal(p.Tracks)
		if encErr != nil {
			return fmt.Errorf("encode cached tracks: %w", encErr)
		}

		query, args, err = sq.Insert("playlists").
			Columns("id", "title", "description", "track_count", "tracks").
			Values(p.ID, p.Title, p.Description, p.TrackCount, string(tracks)).
			ToSql()
		if err != nil {
			return fmt.Errorf("build cache insert query: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("cache playlist %s: %w", p.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit cache replace: %w", err)
	}
	return nil
}

func (c *sqliteSnapshotCache) LoadAll(ctx context.Context) ([]models.Playlist, error) {
	query, args, err := sq.Select("id", "title", "description", "track_count", "tracks").
		From("playlists").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build cache select query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load cached playlists: %w", err)
	}
	defer rows.Close()

	out := make([]models.Playlist, 0, 16)
	for rows.Next() {
		var p models.Playlist
		var tracks string

		if err = rows.Scan(&p.ID, &p.Title, &p.Description, &p.TrackCount, &tracks); err != nil {
			return nil, fmt.Errorf("scan cached playlist: %w", err)
		}
		if err = json.Unmarshal([]byte(tracks), &p.Tracks); err != nil {
			// A corrupt row should not poison startup hydration.
			c.logger.Warn().Err(err).Str("playlist_id", p.ID).Msg("drop corrupt cached track list")
			p.Tracks = nil
		}
		p.Normalize()
		out = append(out, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cached playlists: %w", err)
	}

	return out, nil
}

func (c *sqliteSnapshotCache) Close() error {
	return c.db.Close()
}
