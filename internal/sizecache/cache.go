package sizecache

// Cache is the in-process mapping from normalized absolute directory path to
// CacheEntry. Per spec.md §5, a Cache is not thread-safe: the engine assumes
// exclusive access for the duration of a single Measure invocation.
type Cache struct {
	entries map[string]*cacheRecord

	// currentRoot is the normalized root path of the active scan. It is
	// used only by the pruning step in Save.
	currentRoot string

	// dirty is set whenever any measurement decision altered an entry. If
	// false when the invocation completes, Save is skipped entirely.
	dirty bool
}

// cacheRecord pairs a CacheEntry with the original (non-normalized) path it
// was stored under, so that Save can write back human-readable paths rather
// than folded keys.
type cacheRecord struct {
	path  string
	entry *CacheEntry
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[string]*cacheRecord)}
}

// SetCurrentRoot records the normalized root path of the scan that is about
// to run. Pruning in Save only ever considers entries at or beneath this
// root.
func (c *Cache) SetCurrentRoot(path string) {
	c.currentRoot = normalizeKey(path)
}

// Get looks up the entry for path, if any. The returned entry's Visited
// flag reflects whatever was loaded from disk or set earlier this
// invocation; callers that reach an entry during a scan are responsible for
// calling MarkVisited themselves.
func (c *Cache) Get(path string) (*CacheEntry, bool) {
	record, ok := c.entries[normalizeKey(path)]
	if !ok {
		return nil, false
	}
	return record.entry, true
}

// MarkVisited sets the Visited flag on the entry for path, if one exists.
// It is a no-op if no entry is present (a directory visited for the first
// time has nothing to mark until it's written back).
func (c *Cache) MarkVisited(path string) {
	if record, ok := c.entries[normalizeKey(path)]; ok {
		record.entry.Visited = true
	}
}

// InsertOrReplace stores entry under path, overwriting any existing record,
// and marks the entry visited (a directory is only ever inserted by the
// engine that just reached it). It does not by itself mark the Cache dirty;
// callers decide dirtiness based on whether the write actually changed
// anything (see measurement's writeback logic).
func (c *Cache) InsertOrReplace(path string, entry *CacheEntry) {
	entry.Visited = true
	c.entries[normalizeKey(path)] = &cacheRecord{path: path, entry: entry}
}

// MarkDirty flags the Cache as having been altered, forcing Save to persist
// it at the end of the invocation.
func (c *Cache) MarkDirty() {
	c.dirty = true
}

// Dirty reports whether any measurement decision altered the Cache during
// the current invocation.
func (c *Cache) Dirty() bool {
	return c.dirty
}

// Len returns the number of entries currently in the Cache.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Iterate calls fn once for every (path, entry) pair in the Cache, in
// unspecified order. fn must not mutate the Cache.
func (c *Cache) Iterate(fn func(path string, entry *CacheEntry)) {
	for _, record := range c.entries {
		fn(record.path, record.entry)
	}
}
