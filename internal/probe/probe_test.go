package probe

import (
	"os"
	"path/filepath"
	"testing"
)

func mustWriteFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("unable to write fixture file %s: %v", path, err)
	}
}

func TestDirectoryOwnFilesSizeSumsImmediateFilesOnly(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "x"), 100)
	mustWriteFile(t, filepath.Join(root, "y"), 50)

	sub := filepath.Join(root, "b")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	mustWriteFile(t, filepath.Join(sub, "z"), 200)

	if got := DirectoryOwnFilesSize(root); got != 150 {
		t.Fatalf("own size = %d, want 150 (subdirectory contents must not count)", got)
	}
	if got := DirectoryOwnFilesSize(sub); got != 200 {
		t.Fatalf("own size of subdirectory = %d, want 200", got)
	}
}

func TestDirectoryOwnFilesSizeEmptyDirectory(t *testing.T) {
	root := t.TempDir()
	if got := DirectoryOwnFilesSize(root); got != 0 {
		t.Fatalf("own size of empty directory = %d, want 0", got)
	}
}

func TestDirectoryOwnFilesSizeMissingDirectory(t *testing.T) {
	if got := DirectoryOwnFilesSize(filepath.Join(t.TempDir(), "does-not-exist")); got != 0 {
		t.Fatalf("own size of missing directory = %d, want 0", got)
	}
}

func TestDirectoryChildrenListsImmediateSubdirectoriesOnly(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "file.txt"), 1)

	var want []string
	for _, name := range []string{"a", "b", "c"} {
		path := filepath.Join(root, name)
		if err := os.Mkdir(path, 0o755); err != nil {
			t.Fatal(err)
		}
		want = append(want, path)
	}

	got := DirectoryChildren(root)
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDirectoryChildrenOmitsSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(root, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	children := DirectoryChildren(root)
	for _, child := range children {
		if child == link {
			t.Fatalf("DirectoryChildren included a reparse point: %s", child)
		}
	}
	if len(children) != 1 || children[0] != target {
		t.Fatalf("children = %v, want only %s", children, target)
	}
}

func TestDirectoryLastWriteTimeMissingDirectory(t *testing.T) {
	if _, ok := DirectoryLastWriteTime(filepath.Join(t.TempDir(), "gone")); ok {
		t.Fatal("expected ok=false for a missing directory")
	}
}

func TestDirectoryLastWriteTimeKnown(t *testing.T) {
	root := t.TempDir()
	lwt, ok := DirectoryLastWriteTime(root)
	if !ok {
		t.Fatal("expected ok=true for an existing directory")
	}
	if lwt.IsZero() {
		t.Fatal("expected a non-zero last-write time")
	}
}

func TestValidateRejectsFiles(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "f")
	mustWriteFile(t, file, 1)

	if err := Validate(file); err == nil {
		t.Fatal("expected Validate to reject a regular file")
	}
}

func TestValidateRejectsMissingPath(t *testing.T) {
	if err := Validate(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected Validate to reject a missing path")
	}
}

func TestValidateAcceptsDirectory(t *testing.T) {
	if err := Validate(t.TempDir()); err != nil {
		t.Fatalf("expected Validate to accept a directory: %v", err)
	}
}
