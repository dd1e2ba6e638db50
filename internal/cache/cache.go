// Package cache holds the shared collection of upcoming launches. A poller
// replaces the whole collection; readers take point-in-time snapshots.
package cache

import (
	"errors"
	"sync"

	"github.com/Baev1/okto/internal/domain"
)

// ErrNotPrimed is returned by Snapshot before the first successful Replace.
var ErrNotPrimed = errors.New("launch cache not primed")

// LaunchCache is the concurrently-read, occasionally-replaced launch store.
// Replace is atomic with respect to Snapshot: a reader never observes a mix
// of records from two refreshes.
type LaunchCache struct {
	mu       sync.RWMutex
	launches []domain.LaunchRecord
	ids      map[string]int64 // ll_id -> internal id, for ids surviving a refresh
	nextID   int64
	gen      uint64
	primed   bool
}

func New() *LaunchCache {
	return &LaunchCache{ids: make(map[string]int64), nextID: 1}
}

// Replace swaps in a freshly transformed collection. Internal sequence ids
// are carried forward for ll_ids already present; ll_ids that rolled off
// lose their id, so a launch that later reappears counts as a new launch.
func (c *LaunchCache) Replace(launches []domain.LaunchRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make(map[string]int64, len(launches))
	stored := make([]domain.LaunchRecord, len(launches))
	for i, l := range launches {
		id, ok := c.ids[l.LLID]
		if !ok {
			id = c.nextID
			c.nextID++
		}
		l.ID = id
		ids[l.LLID] = id
		stored[i] = l
	}

	c.launches = stored
	c.ids = ids
	c.gen++
	c.primed = true
}

// Snapshot returns a copy of the current collection and its generation
// number. It fails only before the cache has been primed.
func (c *LaunchCache) Snapshot() ([]domain.LaunchRecord, uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.primed {
		return nil, 0, ErrNotPrimed
	}
	out := make([]domain.LaunchRecord, len(c.launches))
	copy(out, c.launches)
	return out, c.gen, nil
}

// Len reports the number of cached launches (0 before priming).
func (c *LaunchCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.launches)
}
