package filesystem

import (
	"os"
	"path/filepath"
)

const (
	// cacheDirectoryName is the subdirectory (under the user's home
	// directory) where the size cache file lives absent an explicit
	// configuration override.
	cacheDirectoryName = ".sizew"

	// CacheFileName is the name of the cache file within its directory.
	CacheFileName = "cache.bin"
)

// DefaultCacheFilePath returns the default path to the size cache file: a
// fixed subdirectory of the user's home directory, created on demand. If the
// home directory can't be determined or the subdirectory can't be created,
// it falls back to a path next to the running executable, matching the
// teacher's own preference for a writable location over a hard failure when
// resolving ancillary storage (see Mutagen's own data-directory resolution
// in mutagen.go, which this mirrors in spirit but without introducing a
// lock-coordinated shared data directory this single-threaded engine never
// needs).
func DefaultCacheFilePath() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dir := filepath.Join(home, cacheDirectoryName)
		if err := os.MkdirAll(dir, 0o700); err == nil {
			return filepath.Join(dir, CacheFileName)
		}
	}

	if executable, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(executable), CacheFileName)
	}

	return CacheFileName
}
