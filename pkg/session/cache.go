package session

import (
	"sync"
	"time"
)

// cacheEntry is one cached typed object under a single operation-context
// key. Entries are replaced, never mutated in place.
type cacheEntry struct {
	object  CmisObject
	fetched time.Time
}

// objectCache maps repository object identity to cached typed objects,
// partitioned by operation-context cache key, with a path secondary index.
//
// The cache is advisory: it may return stale data and never revalidates on
// its own. Staleness is surfaced through Age; entries older than the TTL are
// treated as misses. Lookups never trigger I/O.
//
// Reads proceed concurrently under the read lock; writes take the write lock
// so a reader sees either the pre- or post-write entry, never a torn one.
type objectCache struct {
	mu  sync.RWMutex
	ttl time.Duration // 0 disables expiry

	// byID: objectID -> contextKey -> entry
	byID map[string]map[string]cacheEntry

	// pathIndex: absolute path -> objectID; idPaths is its reverse, so
	// Remove can purge path entries without scanning.
	pathIndex map[string]string
	idPaths   map[string]map[string]struct{}

	// now is replaceable in tests
	now func() time.Time
}

func newObjectCache(ttl time.Duration) *objectCache {
	return &objectCache{
		ttl:       ttl,
		byID:      make(map[string]map[string]cacheEntry),
		pathIndex: make(map[string]string),
		idPaths:   make(map[string]map[string]struct{}),
		now:       time.Now,
	}
}

// Get returns the cached object for (id, contextKey), or a miss. Expired
// entries miss. No side effects on miss.
func (c *objectCache) Get(id, contextKey string) (CmisObject, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.byID[id][contextKey]
	if !ok || c.expired(entry) {
		return nil, false
	}
	return entry.object, true
}

// GetByPath resolves the path secondary index and returns the cached object
// for (resolved id, contextKey), or a miss.
func (c *objectCache) GetByPath(path, contextKey string) (CmisObject, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	id, ok := c.pathIndex[path]
	if !ok {
		return nil, false
	}
	entry, ok := c.byID[id][contextKey]
	if !ok || c.expired(entry) {
		return nil, false
	}
	return entry.object, true
}

// Age returns the time since the entry for (id, contextKey) was fetched.
// The second return is false when there is no entry, expired or not.
func (c *objectCache) Age(id, contextKey string) (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.byID[id][contextKey]
	if !ok {
		return 0, false
	}
	return c.now().Sub(entry.fetched), true
}

// Put stores an object under (its id, contextKey), overwriting any existing
// entry for that pair and leaving other context keys untouched. When the
// object's resolved path is known it also populates the path index.
func (c *objectCache) Put(obj CmisObject, contextKey string) {
	id := obj.ID()
	if id == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.putLocked(id, contextKey, obj)
	if path := objectPath(obj); path != "" {
		c.indexPathLocked(path, id)
	}
}

// PutPath stores an object like Put and additionally binds the given path to
// it, for objects fetched by path whose wire data does not carry cmis:path.
func (c *objectCache) PutPath(path string, obj CmisObject, contextKey string) {
	id := obj.ID()
	if id == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.putLocked(id, contextKey, obj)
	if path != "" {
		c.indexPathLocked(path, id)
	}
}

func (c *objectCache) putLocked(id, contextKey string, obj CmisObject) {
	entries, ok := c.byID[id]
	if !ok {
		entries = make(map[string]cacheEntry)
		c.byID[id] = entries
	}
	entries[contextKey] = cacheEntry{object: obj, fetched: c.now()}
}

func (c *objectCache) indexPathLocked(path, id string) {
	// A path can only name one object; rebinding drops the old reverse
	// entry.
	if prev, ok := c.pathIndex[path]; ok && prev != id {
		delete(c.idPaths[prev], path)
	}
	c.pathIndex[path] = id
	paths, ok := c.idPaths[id]
	if !ok {
		paths = make(map[string]struct{})
		c.idPaths[id] = paths
	}
	paths[path] = struct{}{}
}

// Remove purges every entry for the identity, under all context keys, along
// with its path index entries, as one atomic unit under the write lock.
func (c *objectCache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.byID, id)
	for path := range c.idPaths[id] {
		delete(c.pathIndex, path)
	}
	delete(c.idPaths, id)
}

// RemovePath unbinds a single path without touching entries reachable by ID.
func (c *objectCache) RemovePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.pathIndex[path]; ok {
		delete(c.idPaths[id], path)
	}
	delete(c.pathIndex, path)
}

// Clear resets the cache completely.
func (c *objectCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byID = make(map[string]map[string]cacheEntry)
	c.pathIndex = make(map[string]string)
	c.idPaths = make(map[string]map[string]struct{})
}

// Len returns the number of cached (identity, contextKey) entries.
func (c *objectCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, entries := range c.byID {
		n += len(entries)
	}
	return n
}

func (c *objectCache) expired(entry cacheEntry) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(entry.fetched) > c.ttl
}
