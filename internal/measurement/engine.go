// Package measurement implements the Measurement Engine: the recursive
// decision procedure that turns a directory tree and a Cache Store into a
// total byte count, deciding at every node whether to trust the cache, probe
// shallowly, or recompute in full.
package measurement

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sizew/sizew/internal/probe"
	"github.com/sizew/sizew/internal/sizecache"
	"github.com/sizew/sizew/pkg/encoding"
	"github.com/sizew/sizew/pkg/logging"
)

// checkRateDelta is the minimum change in CheckRate considered significant
// enough to mark a Cache entry dirty on its own.
const checkRateDelta = 1e-6

// Options bundles the engine's tunable constants. The zero value matches
// spec.md's literals exactly (see withDefaults); callers that only need
// spec-compliant behavior can pass Options{} rather than hand-assembling
// every field.
type Options struct {
	// LWTTolerance is the slack allowed between a cache entry's recorded
	// directory LWT and a freshly probed one before the mismatch forces a
	// recompute. Clock quantization and filesystem timestamp granularity
	// (FAT32, some network filesystems) can both introduce drift well
	// under the spec default of 5 seconds.
	LWTTolerance time.Duration
	// CheckRateGrowthFactor and CheckRateShrinkFactor are the multipliers
	// applied to a directory's check rate when a change is, respectively
	// is not, observed at that node.
	CheckRateGrowthFactor float64
	CheckRateShrinkFactor float64
	// MinCheckRate and MaxCheckRate bound every directory's check rate.
	MinCheckRate float64
	MaxCheckRate float64
	// DefaultCheckRate is the check rate assumed for a directory with no
	// prior cache entry, before any growth/shrink adjustment is applied.
	DefaultCheckRate float64
}

// defaultOptions returns the spec-literal defaults (5s tolerance, 1.5/0.2
// growth/shrink factors, [0.01, 1.0] bounds).
func defaultOptions() Options {
	return Options{
		LWTTolerance:          5 * time.Second,
		CheckRateGrowthFactor: 1.5,
		CheckRateShrinkFactor: 0.2,
		MinCheckRate:          sizecache.MinCheckRate,
		MaxCheckRate:          sizecache.MaxCheckRate,
		DefaultCheckRate:      sizecache.DefaultCheckRate,
	}
}

// withDefaults fills any zero-valued field of o with its spec-literal
// default.
func (o Options) withDefaults() Options {
	d := defaultOptions()
	if o.LWTTolerance == 0 {
		o.LWTTolerance = d.LWTTolerance
	}
	if o.CheckRateGrowthFactor == 0 {
		o.CheckRateGrowthFactor = d.CheckRateGrowthFactor
	}
	if o.CheckRateShrinkFactor == 0 {
		o.CheckRateShrinkFactor = d.CheckRateShrinkFactor
	}
	if o.MinCheckRate == 0 {
		o.MinCheckRate = d.MinCheckRate
	}
	if o.MaxCheckRate == 0 {
		o.MaxCheckRate = d.MaxCheckRate
	}
	if o.DefaultCheckRate == 0 {
		o.DefaultCheckRate = d.DefaultCheckRate
	}
	return o
}

// Engine runs Measure invocations against a single Cache, adapting each
// directory's CheckRate as it goes. It is not safe for concurrent use; the
// spec models a single-threaded synchronous engine (see the concurrency
// model), and an Engine's Cache is exclusively owned for the duration of one
// top-level Measure call.
type Engine struct {
	cache   *sizecache.Cache
	source  Source
	logger  *logging.Logger
	options Options
}

// NewEngine constructs an Engine over the given Cache. A nil source selects
// DefaultSource; a nil logger behaves like logging.RootLogger's usual
// nil-safe discard; a zero-valued Options selects spec-literal defaults.
func NewEngine(cache *sizecache.Cache, source Source, logger *logging.Logger, options Options) *Engine {
	if source == nil {
		source = DefaultSource
	}
	return &Engine{cache: cache, source: source, logger: logger, options: options.withDefaults()}
}

// Measure computes the byte total for path, applying the engine's decision
// table at every directory it visits. bypassCache disables all cache
// reads/writes for the invocation; recalculate forces a full recompute at
// every node while still writing results back. The returned error is
// reserved for invalid inputs (path does not exist or is not a directory);
// filesystem enumeration failures during recursion are absorbed and
// contribute zero, matching probe's own no-fatal-errors contract.
func (e *Engine) Measure(ctx context.Context, path string, recursive, bypassCache, recalculate bool) (uint64, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	path = absolute

	if err := probe.Validate(path); err != nil {
		return 0, err
	}

	correlation := encoding.EncodeBase62(mustUUIDBytes())
	logger := e.logger.Sublogger(correlation)

	if !bypassCache {
		e.cache.SetCurrentRoot(path)
	}

	logger.Debugf("measuring %s (recursive=%t bypassCache=%t recalculate=%t)", path, recursive, bypassCache, recalculate)
	return e.measure(ctx, path, recursive, bypassCache, recalculate, logger), nil
}

// measure is the recursive worker behind Measure. It never returns an error:
// by the time recursion starts, the root has already been validated, and
// every deeper probe failure is absorbed per spec.md §7 class 1.
func (e *Engine) measure(ctx context.Context, path string, recursive, bypassCache, recalculate bool, logger *logging.Logger) uint64 {
	select {
	case <-ctx.Done():
		return 0
	default:
	}

	if bypassCache {
		return e.fullRecomputeUncached(ctx, path, recursive, logger)
	}

	entry, hasEntry := e.cache.Get(path)
	lwtNow, lwtKnown := probe.DirectoryLastWriteTime(path)

	if !recalculate && hasEntry && lwtKnown && lwtDrift(lwtNow, entry.DirectoryLWTUTC) > e.options.LWTTolerance {
		logger.Tracef("%s: LWT drifted beyond tolerance, forcing recompute", path)
		total := e.recomputeAndWriteback(ctx, path, recursive, recalculate, entry, hasEntry, lwtNow, lwtKnown, logger)
		e.cache.MarkDirty()
		return total
	}

	if !recalculate && hasEntry {
		if e.stabilityTestPasses(entry) {
			if recursive && entry.TotalSizeBytes > 0 {
				e.cache.MarkVisited(path)
				logger.Tracef("%s: deep-skip, trusting total=%d", path, entry.TotalSizeBytes)
				return entry.TotalSizeBytes
			}
			if entry.TotalSizeBytes == 0 {
				e.cache.MarkVisited(path)
				logger.Tracef("%s: shallow-trust, reusing own=%d, recursing into children", path, entry.OwnSizeBytes)
				total := entry.OwnSizeBytes
				if recursive {
					for _, child := range probe.DirectoryChildren(path) {
						total += e.measure(ctx, child, recursive, bypassCache, recalculate, logger)
					}
				}
				e.writeback(path, entry, hasEntry, entry.OwnSizeBytes, total, lwtNow, lwtKnown, logger)
				return total
			}
		}
	}

	return e.recomputeAndWriteback(ctx, path, recursive, recalculate, entry, hasEntry, lwtNow, lwtKnown, logger)
}

// recomputeAndWriteback performs a full own-files recompute at path, recurses
// into children if requested, and writes the result back to the Cache.
func (e *Engine) recomputeAndWriteback(ctx context.Context, path string, recursive, recalculate bool, entry *sizecache.CacheEntry, hasEntry bool, lwtNow time.Time, lwtKnown bool, logger *logging.Logger) uint64 {
	own := probe.DirectoryOwnFilesSize(path)
	total := own

	if recursive {
		for _, child := range probe.DirectoryChildren(path) {
			total += e.measure(ctx, child, recursive, false, recalculate, logger)
		}
	}

	e.writeback(path, entry, hasEntry, own, total, lwtNow, lwtKnown, logger)
	return total
}

// fullRecomputeUncached implements the bypass_cache branch: neither reads
// nor writes the Store for any node it visits.
func (e *Engine) fullRecomputeUncached(ctx context.Context, path string, recursive bool, logger *logging.Logger) uint64 {
	select {
	case <-ctx.Done():
		return 0
	default:
	}

	total := probe.DirectoryOwnFilesSize(path)
	if recursive {
		for _, child := range probe.DirectoryChildren(path) {
			total += e.fullRecomputeUncached(ctx, child, recursive, logger)
		}
	}
	return total
}

// stabilityTestPasses draws the next uniform value from the engine's Source
// and compares it against entry's clamped check rate.
func (e *Engine) stabilityTestPasses(entry *sizecache.CacheEntry) bool {
	return e.source.Float64() >= entry.ClampedCheckRate()
}

// writeback records the freshly computed own/total sizes for path, adapts
// its CheckRate, and marks the Cache dirty if anything actually changed.
func (e *Engine) writeback(path string, prior *sizecache.CacheEntry, hadPrior bool, own, total uint64, lwtNow time.Time, lwtKnown bool, logger *logging.Logger) {
	rate := e.adaptCheckRate(prior, hadPrior, own, total)

	directoryLWT := lwtNow
	if !lwtKnown {
		directoryLWT = time.Now().UTC()
	}

	next := &sizecache.CacheEntry{
		Version:         sizecache.CacheFormatVersion,
		OwnSizeBytes:    own,
		TotalSizeBytes:  total,
		DirectoryLWTUTC: directoryLWT,
		UpdatedUTC:      time.Now().UTC(),
		CheckRate:       rate,
	}

	changed := !hadPrior ||
		prior.OwnSizeBytes != own ||
		prior.TotalSizeBytes != total ||
		checkRateChanged(prior.CheckRate, rate)

	e.cache.InsertOrReplace(path, next)
	if changed {
		e.cache.MarkDirty()
	}

	logger.Tracef("%s: wrote back own=%d total=%d checkRate=%.4f", path, own, total, rate)
}

// adaptCheckRate implements the CheckRate growth/shrink rule: grow on any
// observed change at this node (a new entry counts as a change), shrink
// otherwise.
func (e *Engine) adaptCheckRate(prior *sizecache.CacheEntry, hadPrior bool, newOwn, newTotal uint64) float64 {
	current := e.options.DefaultCheckRate
	if hadPrior {
		current = prior.ClampedCheckRate()
	}

	if !hadPrior || prior.OwnSizeBytes != newOwn {
		return e.clampCheckRate(current * e.options.CheckRateGrowthFactor)
	}
	if prior.TotalSizeBytes > 0 && prior.TotalSizeBytes != newTotal {
		return e.clampCheckRate(current * e.options.CheckRateGrowthFactor)
	}
	return e.clampCheckRate(current * e.options.CheckRateShrinkFactor)
}

// clampCheckRate bounds a check rate into [Options.MinCheckRate,
// Options.MaxCheckRate].
func (e *Engine) clampCheckRate(rate float64) float64 {
	if rate < e.options.MinCheckRate {
		return e.options.MinCheckRate
	}
	if rate > e.options.MaxCheckRate {
		return e.options.MaxCheckRate
	}
	return rate
}

// checkRateChanged reports whether two check rates differ by more than the
// dirty-marking threshold.
func checkRateChanged(a, b float64) bool {
	delta := a - b
	if delta < 0 {
		delta = -delta
	}
	return delta > checkRateDelta
}

// lwtDrift returns the absolute duration between two UTC timestamps.
func lwtDrift(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d
}

// mustUUIDBytes generates a fresh random UUID's raw bytes for correlation-ID
// derivation. uuid.NewRandom only fails if the runtime's entropy source is
// broken; in that case an all-zero ID is returned instead of failing the
// measurement, since the ID only labels log lines.
func mustUUIDBytes() []byte {
	id, err := uuid.NewRandom()
	if err != nil {
		return make([]byte, 16)
	}
	return id[:]
}
