package sizecache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sizew/sizew/pkg/logging"
)

func TestLoadMissingFileYieldsEmptyCache(t *testing.T) {
	cache := Load(filepath.Join(t.TempDir(), "cache.bin"), logging.RootLogger)
	if cache.Len() != 0 {
		t.Fatalf("cache.Len() = %d, want 0 for a missing file", cache.Len())
	}
}

func TestSaveSkipsWhenNotDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")
	cache := New()
	Save(cache, path, true, logging.RootLogger)

	if _, err := os.Stat(path); err == nil {
		t.Fatal("expected no cache file to have been written for a non-dirty cache")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")

	cache := New()
	cache.SetCurrentRoot("/t/a")
	now := time.Now().UTC().Truncate(time.Second)
	cache.InsertOrReplace("/t/a", &CacheEntry{
		Version:         CacheFormatVersion,
		OwnSizeBytes:    150,
		TotalSizeBytes:  350,
		DirectoryLWTUTC: now,
		UpdatedUTC:      now,
		CheckRate:       0.2,
	})
	cache.InsertOrReplace("/t/a/b", &CacheEntry{
		Version:         CacheFormatVersion,
		OwnSizeBytes:    200,
		TotalSizeBytes:  200,
		DirectoryLWTUTC: now,
		UpdatedUTC:      now,
		CheckRate:       0.2,
	})
	cache.MarkDirty()

	Save(cache, path, true, logging.RootLogger)

	loaded := Load(path, logging.RootLogger)
	if loaded.Len() != 2 {
		t.Fatalf("loaded.Len() = %d, want 2", loaded.Len())
	}

	entry, ok := loaded.Get("/t/a")
	if !ok {
		t.Fatal("missing entry for /t/a after round trip")
	}
	if entry.Visited {
		t.Error("a freshly loaded entry must have Visited == false")
	}
	if entry.OwnSizeBytes != 150 || entry.TotalSizeBytes != 350 {
		t.Errorf("entry = %+v, want own=150 total=350", entry)
	}
	if !entry.DirectoryLWTUTC.Equal(now) {
		t.Errorf("DirectoryLWTUTC = %v, want %v", entry.DirectoryLWTUTC, now)
	}
	if entry.CheckRate != 0.2 {
		t.Errorf("CheckRate = %v, want 0.2", entry.CheckRate)
	}
}

func TestSavePrunesUnvisitedDescendantsOnRecursiveScan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")

	// A deep-skip at /t/a never revisits /t/a/b, so it enters this save
	// with Visited still false while /t/a itself was freshly written back.
	cache := New()
	cache.SetCurrentRoot("/t/a")
	cache.InsertOrReplace("/t/a", &CacheEntry{Version: CacheFormatVersion, TotalSizeBytes: 350})
	cache.entries[normalizeKey("/t/a/b")] = &cacheRecord{
		path:  "/t/a/b",
		entry: &CacheEntry{Version: CacheFormatVersion, TotalSizeBytes: 200, Visited: false},
	}
	cache.MarkDirty()

	Save(cache, path, true, logging.RootLogger)

	loaded := Load(path, logging.RootLogger)
	if loaded.Len() != 1 {
		t.Fatalf("loaded.Len() = %d, want 1 (only /t/a should survive)", loaded.Len())
	}
	if _, ok := loaded.Get("/t/a"); !ok {
		t.Error("expected /t/a to survive pruning")
	}
	if _, ok := loaded.Get("/t/a/b"); ok {
		t.Error("expected /t/a/b to be pruned as an unvisited descendant of the current root")
	}
}

func TestSavePreservesUnvisitedEntriesOnNonRecursiveScan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")

	cache := New()
	cache.SetCurrentRoot("/t/a")
	cache.InsertOrReplace("/t/a", &CacheEntry{Version: CacheFormatVersion, OwnSizeBytes: 10})
	cache.entries[normalizeKey("/t/a/b")] = &cacheRecord{
		path:  "/t/a/b",
		entry: &CacheEntry{Version: CacheFormatVersion, TotalSizeBytes: 200, Visited: false},
	}
	cache.MarkDirty()

	Save(cache, path, false, logging.RootLogger)

	loaded := Load(path, logging.RootLogger)
	if loaded.Len() != 2 {
		t.Fatalf("loaded.Len() = %d, want 2 (non-recursive save must not prune)", loaded.Len())
	}
}

func TestLoadRejectsUnrecognizedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bin")

	cache := New()
	cache.InsertOrReplace("/t/a", &CacheEntry{Version: CacheFormatVersion, OwnSizeBytes: 1})
	cache.MarkDirty()
	Save(cache, path, false, logging.RootLogger)

	// Corrupt the version field (offset 4..8) to simulate an old writer.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[4] = 99
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	loaded := Load(path, logging.RootLogger)
	if loaded.Len() != 0 {
		t.Fatalf("loaded.Len() = %d, want 0 for a version-mismatched file", loaded.Len())
	}
}

func TestTicksRoundTripThroughZeroTime(t *testing.T) {
	if got := timeFromTicks(ticksOf(time.Time{})); !got.IsZero() {
		t.Errorf("round-tripping the zero time produced %v, want zero", got)
	}
}

func TestTicksRoundTripThroughKnownTime(t *testing.T) {
	now := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	if got := timeFromTicks(ticksOf(now)); !got.Equal(now) {
		t.Errorf("round-tripping %v produced %v", now, got)
	}
}
