package sizecache

import "testing"

func TestCacheGetMissingReturnsNotOK(t *testing.T) {
	c := New()
	if _, ok := c.Get("/does/not/exist"); ok {
		t.Error("expected Get to report ok=false for a key never inserted")
	}
}

func TestCacheInsertOrReplaceMarksVisited(t *testing.T) {
	c := New()
	c.InsertOrReplace("/t/a", &CacheEntry{OwnSizeBytes: 1})

	entry, ok := c.Get("/t/a")
	if !ok {
		t.Fatal("expected entry to be present after insert")
	}
	if !entry.Visited {
		t.Error("InsertOrReplace must mark the entry visited")
	}
}

func TestCacheGetIsCaseInsensitiveForASCII(t *testing.T) {
	c := New()
	c.InsertOrReplace("/T/A", &CacheEntry{OwnSizeBytes: 1})

	if _, ok := c.Get("/t/a"); !ok {
		t.Error("expected a case-differing lookup to hit the same entry")
	}
}

func TestCacheMarkVisitedIsNoOpForMissingEntry(t *testing.T) {
	c := New()
	c.MarkVisited("/does/not/exist") // must not panic
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCacheDirtyDefaultsFalse(t *testing.T) {
	c := New()
	if c.Dirty() {
		t.Error("a freshly constructed Cache must not be dirty")
	}
	c.MarkDirty()
	if !c.Dirty() {
		t.Error("MarkDirty must flip Dirty() to true")
	}
}

func TestCacheIterateVisitsEveryEntry(t *testing.T) {
	c := New()
	c.InsertOrReplace("/t/a", &CacheEntry{OwnSizeBytes: 1})
	c.InsertOrReplace("/t/a/b", &CacheEntry{OwnSizeBytes: 2})

	seen := map[string]bool{}
	c.Iterate(func(path string, entry *CacheEntry) {
		seen[path] = true
	})

	if len(seen) != 2 || !seen["/t/a"] || !seen["/t/a/b"] {
		t.Errorf("Iterate visited %v, want both /t/a and /t/a/b", seen)
	}
}
