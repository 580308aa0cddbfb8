//go:build windows

package probe

import (
	"io/fs"
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// isReparsePoint reports whether info describes a reparse point: a symbolic
// link, junction, or mount point. These are all surfaced identically through
// the FILE_ATTRIBUTE_REPARSE_POINT bit, which os.ReadDir's default FileInfo
// doesn't expose directly, so we fall back to the raw Win32 find-data
// structure when available.
func isReparsePoint(info fs.FileInfo) bool {
	if info.Mode()&os.ModeSymlink != 0 {
		return true
	}

	if data, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return data.FileAttributes&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0
	}

	return false
}
