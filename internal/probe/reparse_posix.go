//go:build !windows

package probe

import (
	"io/fs"
	"os"
)

// isReparsePoint reports whether info describes a reparse point. On POSIX
// systems the only reparse-like construct os.ReadDir exposes is a symbolic
// link; junctions and mount points are a Windows-only concept.
func isReparsePoint(info fs.FileInfo) bool {
	return info.Mode()&os.ModeSymlink != 0
}
