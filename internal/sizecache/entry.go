// Package sizecache implements the Cache Store and the Persistence &
// Pruning component: the in-memory index of per-directory totals, its
// binary on-disk representation, and the descendant-aware pruning rule that
// keeps the store from accumulating entries for directories a recursive
// scan no longer reaches.
package sizecache

import "time"

// CacheFormatVersion is the cache-format version tag written into both
// CacheEntry.Version and the file header. A mismatch on load causes the
// store to be treated as empty (see Load).
const CacheFormatVersion = 2

// MinCheckRate and MaxCheckRate bound CacheEntry.CheckRate. A rate of
// MaxCheckRate forces a recompute on every visit; a rate of MinCheckRate is
// the most trust the engine will ever place in an entry's stability.
const (
	MinCheckRate = 0.01
	MaxCheckRate = 1.0
)

// DefaultCheckRate is the check rate assumed for a directory with no prior
// entry.
const DefaultCheckRate = 0.2

// CacheEntry records everything the measurement engine knows about a single
// directory as of its last scan. One entry exists per known directory; the
// spec never models per-file entries.
type CacheEntry struct {
	// Version is the cache-format version this entry was written under.
	Version int32
	// OwnSizeBytes is the sum of the lengths of the regular files directly
	// inside this directory (no recursion).
	OwnSizeBytes uint64
	// TotalSizeBytes is OwnSizeBytes plus the TotalSizeBytes of every
	// transitive subdirectory, as of the last scan that computed it.
	TotalSizeBytes uint64
	// DirectoryLWTUTC is the directory's own last-write time, in UTC, as
	// observed by the scan that produced this entry. A zero value means no
	// LWT was known at write time (see probe.DirectoryLastWriteTime).
	DirectoryLWTUTC time.Time
	// UpdatedUTC is the wall-clock time this entry was last written.
	UpdatedUTC time.Time
	// CheckRate is the probability, in [MinCheckRate, MaxCheckRate], that the
	// engine will re-verify this directory instead of trusting it on the
	// next opportunity.
	CheckRate float64

	// Visited is set during the current invocation when the engine reaches
	// this entry. It is runtime-only state and is never serialized; it
	// exists purely to drive pruning at save time.
	Visited bool
}

// ClampedCheckRate returns e.CheckRate clamped into [MinCheckRate,
// MaxCheckRate], or DefaultCheckRate if e is nil (no prior entry).
func (e *CacheEntry) ClampedCheckRate() float64 {
	if e == nil {
		return DefaultCheckRate
	}
	rate := e.CheckRate
	if rate < MinCheckRate {
		rate = MinCheckRate
	}
	if rate > MaxCheckRate {
		rate = MaxCheckRate
	}
	return rate
}

// hasKnownLWT reports whether e carries a usable last-write time. A zero
// time is the sentinel for "no LWT known", matching probe.
// DirectoryLastWriteTime's ok=false case once persisted to disk.
func (e *CacheEntry) hasKnownLWT() bool {
	return e != nil && !e.DirectoryLWTUTC.IsZero()
}
