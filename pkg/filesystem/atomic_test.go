package filesystem

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sizew/sizew/pkg/logging"
)

func TestWriteFileAtomicNonExistentDirectory(t *testing.T) {
	if WriteFileAtomic("/does/not/exist/file", []byte{}, 0600, logging.RootLogger) == nil {
		t.Error("atomic file write did not fail for non-existent directory")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	directory := t.TempDir()
	target := filepath.Join(directory, "file")
	contents := []byte{0, 1, 2, 3, 4, 5, 6}

	if err := WriteFileAtomic(target, contents, 0600, logging.RootLogger); err != nil {
		t.Fatal("atomic file write failed:", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal("unable to read back file:", err)
	}
	if !bytes.Equal(data, contents) {
		t.Error("file contents did not match expected")
	}
}

func TestWriteFileAtomicOverwrite(t *testing.T) {
	directory := t.TempDir()
	target := filepath.Join(directory, "file")

	if err := os.WriteFile(target, []byte("old"), 0600); err != nil {
		t.Fatal("unable to seed existing file:", err)
	}
	if err := WriteFileAtomic(target, []byte("new"), 0600, logging.RootLogger); err != nil {
		t.Fatal("atomic file write failed:", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal("unable to read back file:", err)
	}
	if string(data) != "new" {
		t.Errorf("file contents = %q, want %q", data, "new")
	}
}
