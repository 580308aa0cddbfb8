package sizecache

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/sizew/sizew/pkg/filesystem"
	"github.com/sizew/sizew/pkg/logging"
)

// cacheFileMagic is the fixed four-byte magic value ('S','C','Z','1' packed
// little-endian) at the start of every cache file.
const cacheFileMagic uint32 = 0x315A4353

// epoch is the reference point for the tick-based timestamps the wire
// format uses (100ns units since 0001-01-01 00:00:00 UTC). Go's zero
// time.Time value already falls exactly on that instant, so epoch is just
// the zero value, kept as a named constant for clarity at call sites.
var epoch time.Time

// ticksPerSecond is the number of 100ns ticks in one second.
const ticksPerSecond = 10000000

// ticksOf converts a UTC time.Time to the spec's 100ns-tick representation.
// A zero time.Time (the "no LWT known" sentinel) converts to tick 0. The
// conversion counts whole seconds from epoch, because a time.Duration spans
// only about 292 years and t.Sub(epoch) would saturate for present-day times.
func ticksOf(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return (t.Unix()-epoch.Unix())*ticksPerSecond + int64(t.Nanosecond())/100
}

// timeFromTicks is the inverse of ticksOf. A tick value of 0 converts back
// to the zero time.Time sentinel.
func timeFromTicks(ticks int64) time.Time {
	if ticks == 0 {
		return time.Time{}
	}
	return time.Unix(epoch.Unix()+ticks/ticksPerSecond, (ticks%ticksPerSecond)*100).UTC()
}

// Load reads the cache file at path and returns a populated Cache. A
// missing file yields an empty Cache, not an error. An existing file whose
// magic or version doesn't match is treated identically to a missing file
// (see spec.md §4.4: "no migration is attempted"); the caller's next Save
// will simply rewrite it as a current-version file.
//
// Every entry loaded enters the Cache with Visited = false; it is the
// measurement engine's job to flip that flag as it revisits directories.
func Load(path string, logger *logging.Logger) *Cache {
	cache := New()

	file, err := os.Open(path)
	if err != nil {
		// A missing cache file (or one we can't read at all) is not an
		// error condition; we simply start from empty. Per spec.md §7
		// class 2, this is logged for diagnostics only.
		if !os.IsNotExist(err) {
			logger.Debugf("unable to open cache file %s: %v", path, err)
		}
		return cache
	}
	defer closeAndLog(file, logger)

	reader := bufio.NewReader(file)

	var header [12]byte
	if _, err := io.ReadFull(reader, header[:]); err != nil {
		logger.Debugf("cache file %s has no valid header, starting empty: %v", path, err)
		return New()
	}

	magic := binary.LittleEndian.Uint32(header[0:4])
	version := int32(binary.LittleEndian.Uint32(header[4:8]))
	count := int32(binary.LittleEndian.Uint32(header[8:12]))

	if magic != cacheFileMagic || version != CacheFormatVersion {
		logger.Debugf("cache file %s has unrecognized magic/version (%x/%d), starting empty", path, magic, version)
		return New()
	}

	if count < 0 {
		logger.Debugf("cache file %s has a negative record count, starting empty", path)
		return New()
	}

	for i := int32(0); i < count; i++ {
		entryPath, entry, err := readRecord(reader)
		if err != nil {
			logger.Debugf("cache file %s is truncated after %d of %d records: %v", path, i, count, err)
			break
		}
		cache.entries[normalizeKey(entryPath)] = &cacheRecord{path: entryPath, entry: entry}
	}

	return cache
}

// readRecord decodes a single record from reader.
func readRecord(reader *bufio.Reader) (string, *CacheEntry, error) {
	var pathLenBytes [4]byte
	if _, err := io.ReadFull(reader, pathLenBytes[:]); err != nil {
		return "", nil, err
	}
	pathLen := int32(binary.LittleEndian.Uint32(pathLenBytes[:]))
	if pathLen <= 0 {
		return "", nil, fmt.Errorf("invalid path length %d", pathLen)
	}

	pathBytes := make([]byte, pathLen)
	if _, err := io.ReadFull(reader, pathBytes); err != nil {
		return "", nil, err
	}

	var rest [40]byte
	if _, err := io.ReadFull(reader, rest[:]); err != nil {
		return "", nil, err
	}

	entry := &CacheEntry{
		Version:         CacheFormatVersion,
		OwnSizeBytes:    binary.LittleEndian.Uint64(rest[0:8]),
		TotalSizeBytes:  binary.LittleEndian.Uint64(rest[8:16]),
		DirectoryLWTUTC: timeFromTicks(int64(binary.LittleEndian.Uint64(rest[16:24]))),
		UpdatedUTC:      timeFromTicks(int64(binary.LittleEndian.Uint64(rest[24:32]))),
		CheckRate:       math.Float64frombits(binary.LittleEndian.Uint64(rest[32:40])),
	}

	return string(pathBytes), entry, nil
}

// Save persists cache to path if it is dirty, applying the pruning rule
// described in spec.md §4.4. A Save on a non-dirty Cache is a no-op. Write
// failures are absorbed and logged (spec.md §7 class 2): a failed save
// leaves the previous generation of the cache file untouched, since writing
// goes through a temporary file and atomic rename (see pkg/filesystem.
// WriteFileAtomic).
func Save(cache *Cache, path string, recursive bool, logger *logging.Logger) {
	if !cache.Dirty() {
		return
	}

	type survivor struct {
		path  string
		entry *CacheEntry
	}

	var survivors []survivor
	var pruned int
	cache.Iterate(func(p string, e *CacheEntry) {
		if recursive && isDescendantKey(cache.currentRoot, normalizeKey(p)) && !e.Visited {
			pruned++
			return
		}
		survivors = append(survivors, survivor{p, e})
	})

	buffer := make([]byte, 12, 12+len(survivors)*64)
	binary.LittleEndian.PutUint32(buffer[0:4], cacheFileMagic)
	binary.LittleEndian.PutUint32(buffer[4:8], uint32(CacheFormatVersion))
	binary.LittleEndian.PutUint32(buffer[8:12], uint32(len(survivors)))

	for _, s := range survivors {
		buffer = appendRecord(buffer, s.path, s.entry)
	}

	if err := filesystem.WriteFileAtomic(path, buffer, 0o600, logger); err != nil {
		logger.Warnf("unable to save cache file %s: %v", path, err)
		return
	}

	logger.Debugf("saved cache file %s: %d entries, %d pruned", path, len(survivors), pruned)
}

// appendRecord appends the wire encoding of (path, entry) to buffer and
// returns the extended slice.
func appendRecord(buffer []byte, path string, entry *CacheEntry) []byte {
	pathBytes := []byte(path)

	var lenBytes [4]byte
	binary.LittleEndian.PutUint32(lenBytes[:], uint32(len(pathBytes)))
	buffer = append(buffer, lenBytes[:]...)
	buffer = append(buffer, pathBytes...)

	var rest [40]byte
	binary.LittleEndian.PutUint64(rest[0:8], entry.OwnSizeBytes)
	binary.LittleEndian.PutUint64(rest[8:16], entry.TotalSizeBytes)
	binary.LittleEndian.PutUint64(rest[16:24], uint64(ticksOf(entry.DirectoryLWTUTC)))
	binary.LittleEndian.PutUint64(rest[24:32], uint64(ticksOf(entry.UpdatedUTC)))
	binary.LittleEndian.PutUint64(rest[32:40], math.Float64bits(entry.CheckRate))
	buffer = append(buffer, rest[:]...)

	return buffer
}

// closeAndLog closes c, logging (not propagating) any error. A close
// failure following a successful read has nothing actionable for the
// caller to do about it.
func closeAndLog(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Debugf("unable to close file: %v", err)
	}
}
