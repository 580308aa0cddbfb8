package sizecache

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeKey computes the Cache's lookup key for an OS-absolute directory
// path (measurement.Engine.Measure makes its root absolute, and every child
// path is joined onto it): the path with trailing separators stripped,
// Unicode-normalized to
// NFC (so that NFC- and NFD-composed names of the same path collapse to the
// same key, matching the teacher's own Unicode-decomposition awareness in
// filesystem/decomposition.go) and then ASCII-case-folded.
//
// Key comparison is case-insensitive for ASCII letters regardless of host
// platform, per spec.md §3: the reference deployment is Windows-first, and
// implementations on case-sensitive filesystems still fold ASCII case so
// that a cache file built on one platform remains usable on another.
func normalizeKey(path string) string {
	cleaned := filepath.Clean(path)
	cleaned = norm.NFC.String(cleaned)
	return foldASCII(cleaned)
}

// foldASCII lowercases only ASCII letters, leaving all other bytes
// (including multi-byte UTF-8 sequences) untouched. strings.ToLower would
// also fold non-ASCII case pairs that some filesystems treat as distinct
// names; the spec asks specifically for ASCII-letter folding.
func foldASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// isDescendantKey reports whether the normalized key "path" is equal to, or
// a path-component descendant of, the normalized key "root". This is a
// component-wise test, not a string-prefix test: "/foo/barbaz" is not a
// descendant of "/foo/bar" even though it shares that string prefix.
//
// Both arguments are assumed to already be normalized keys (see
// normalizeKey); this function only adds the component-boundary check on
// top of a prefix comparison.
func isDescendantKey(root, path string) bool {
	if len(path) < len(root) {
		return false
	}
	if !strings.HasPrefix(path, root) {
		return false
	}
	if len(path) == len(root) {
		return true
	}
	return isPathSeparatorByte(path[len(root)])
}

// isPathSeparatorByte reports whether c is a path separator on either POSIX
// or Windows; normalized keys may carry either depending on host platform.
func isPathSeparatorByte(c byte) bool {
	return c == '/' || c == '\\'
}
