package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/g5becks/togglemark/internal/fsutil"
)

func TestWriteFileAtomicCreatesParentsAndLeavesNoTemp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "page.html")

	if err := fsutil.WriteFileAtomic(path, []byte("first")); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if err := fsutil.WriteFileAtomic(path, []byte("second")); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(content) != "second" {
		t.Fatalf("content = %q, want %q", content, "second")
	}

	leftovers, err := filepath.Glob(filepath.Join(dir, "a", "b", ".page.html.*.tmp"))
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("temporary files left behind: %v", leftovers)
	}

	if !fsutil.Exists(path) {
		t.Fatalf("Exists(%q) = false, want true", path)
	}
	if fsutil.Exists(filepath.Join(dir, "missing")) {
		t.Fatalf("Exists(missing) = true, want false")
	}
}
