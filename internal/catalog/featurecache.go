// Melodex - Similarity and Playlist Curation for Remote Music Catalogs
// Copyright 2026 Melodex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/melodex-dev/melodex

package catalog

import (
	"sync"
	"time"

	"github.com/melodex-dev/melodex/internal/metrics"
	"github.com/melodex-dev/melodex/internal/similarity"
)

// featureEntry is a node of the feature cache's doubly-linked list.
type featureEntry struct {
	trackID   string
	vector    similarity.FeatureVector
	prev      *featureEntry
	next      *featureEntry
	expiresAt time.Time
}

// featureCache is a thread-safe LRU cache with TTL for audio feature
// vectors. Feature vectors are immutable catalog data, so the TTL exists
// only to bound staleness against catalog re-analysis, not correctness.
//
// A doubly-linked list keeps access order and a map gives O(1) lookup;
// eviction pops the tail when capacity is exceeded. Expiry is lazy.
type featureCache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration

	items map[string]*featureEntry

	// head.next is most recently used, tail.prev least recently used.
	head *featureEntry
	tail *featureEntry
}

// newFeatureCache creates a feature cache. Non-positive capacity or TTL
// fall back to defaults.
func newFeatureCache(capacity int, ttl time.Duration) *featureCache {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	c := &featureCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*featureEntry, capacity),
		head:     &featureEntry{},
		tail:     &featureEntry{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get retrieves a cached vector, promoting it to most recently used.
func (c *featureCache) Get(trackID string) (similarity.FeatureVector, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.items[trackID]
	if !exists {
		metrics.FeatureCacheMisses.Inc()
		return similarity.FeatureVector{}, false
	}
	if time.Now().After(entry.expiresAt) {
		c.removeEntry(entry)
		metrics.FeatureCacheMisses.Inc()
		return similarity.FeatureVector{}, false
	}

	c.moveToFront(entry)
	metrics.FeatureCacheHits.Inc()
	return entry.vector, true
}

// Add inserts or refreshes a vector, evicting the least recently used
// entry when over capacity.
func (c *featureCache) Add(trackID string, vector similarity.FeatureVector) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(c.ttl)

	if entry, exists := c.items[trackID]; exists {
		entry.vector = vector
		entry.expiresAt = expiresAt
		c.moveToFront(entry)
		return
	}

	entry := &featureEntry{
		trackID:   trackID,
		vector:    vector,
		expiresAt: expiresAt,
	}
	c.addToFront(entry)
	c.items[trackID] = entry

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
	metrics.FeatureCacheEntries.Set(float64(len(c.items)))
}

// Len returns the current number of entries.
func (c *featureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// addToFront inserts entry right after the head sentinel.
func (c *featureCache) addToFront(entry *featureEntry) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

// moveToFront promotes entry to most recently used.
func (c *featureCache) moveToFront(entry *featureEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}

// removeEntry unlinks entry and drops it from the map.
func (c *featureCache) removeEntry(entry *featureEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(c.items, entry.trackID)
}

// evictOldest removes the least recently used entry.
func (c *featureCache) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.removeEntry(oldest)
}
