// Package state holds the two client-visible state containers: the
// playlist collection and the player-status singleton. Both are owned by
// the composition root and mutated only through the reconciliation and
// optimistic-mutation paths; UI layers are read-only observers.
package state

import (
	"sort"
	"sync"

	"github.com/mmelnik/playsync/models"
)

// ChangeKind labels a collection change delivered to observers.
type ChangeKind string

const (
	ChangeReplacedAll ChangeKind = "replaced_all"
	ChangeUpserted    ChangeKind = "upserted"
	ChangeRemoved     ChangeKind = "removed"
)

// CollectionObserver receives change notifications. resourceID is empty for
// ChangeReplacedAll. Observers must not mutate state; they run outside the
// container lock.
type CollectionObserver func(kind ChangeKind, resourceID string)

// PlaylistCollection is the local replica of the server's playlist set.
// Playlists are replaced wholesale, never merged.
type PlaylistCollection struct {
	mu        sync.RWMutex
	items     map[string]models.Playlist
	observers []CollectionObserver
}

func NewPlaylistCollection() *PlaylistCollection {
	return &PlaylistCollection{
		items: make(map[string]models.Playlist),
	}
}

// Observe registers an observer. Not safe to call concurrently with itself;
// the composition root registers all observers before the engine starts.
func (c *PlaylistCollection) Observe(fn CollectionObserver) {
	c.observers = append(c.observers, fn)
}

// Get returns a deep copy of the playlist with the given id.
func (c *PlaylistCollection) Get(id string) (models.Playlist, bool) {
	c.mu.RLock()
	p, ok := c.items[id]
	c.mu.RUnlock()
	if !ok {
		return models.Playlist{}, false
	}
	return p.Clone(), true
}

// All returns deep copies of every playlist, ordered by title then id for a
// stable presentation order.
func (c *PlaylistCollection) All() []models.Playlist {
	c.mu.RLock()
	out := make([]models.Playlist, 0, len(c.items))
	for _, p := range c.items {
		out = append(out, p.Clone())
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of playlists currently held.
func (c *PlaylistCollection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Upsert replaces the stored playlist wholesale.
func (c *PlaylistCollection) Upsert(p models.Playlist) {
	c.mu.Lock()
	c.items[p.ID] = p.Clone()
	c.mu.Unlock()

	c.notify(ChangeUpserted, p.ID)
}

// Remove deletes the playlist with the given id, reporting whether it was
// present.
func (c *PlaylistCollection) Remove(id string) bool {
	c.mu.Lock()
	_, ok := c.items[id]
	delete(c.items, id)
	c.mu.Unlock()

	if ok {
		c.notify(ChangeRemoved, id)
	}
	return ok
}

// ReplaceAll swaps the entire collection for the given snapshot. Entries in
// keepTracks override the snapshot's track list for that playlist; the
// engine uses this to keep a shielded playlist's optimistic order visible
// across a full-collection snapshot.
func (c *PlaylistCollection) ReplaceAll(playlists []models.Playlist, keepTracks map[string][]models.Track) {
	next := make(map[string]models.Playlist, len(playlists))
	for _, p := range playlists {
		cp := p.Clone()
		if kept, ok := keepTracks[cp.ID]; ok {
			cp.Tracks = make([]models.Track, len(kept))
			copy(cp.Tracks, kept)
			cp.TrackCount = len(cp.Tracks)
		}
		next[cp.ID] = cp
	}

	c.mu.Lock()
	c.items = next
	c.mu.Unlock()

	c.notify(ChangeReplacedAll, "")
}

func (c *PlaylistCollection) notify(kind ChangeKind, id string) {
	for _, fn := range c.observers {
		fn(kind, id)
	}
}
