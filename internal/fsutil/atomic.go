// Package fsutil holds file helpers shared by the lock, manifest and build
// writers.
package fsutil

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

// WriteFileAtomic writes content to a temp file beside path and renames it
// into place, so readers never observe a partial file. The parent directory
// is created when missing.
func WriteFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", dir).
			Wrapf(err, "creating destination directory")
	}

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", path).
			Wrapf(err, "creating temporary file")
	}

	tempPath := tempFile.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, err := tempFile.Write(content); err != nil {
		_ = tempFile.Close()
		return oops.
			Code("WRITE_FAILED").
			With("path", path).
			Wrapf(err, "writing temporary file")
	}

	if err := tempFile.Close(); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", path).
			Wrapf(err, "closing temporary file")
	}

	if err := os.Chmod(tempPath, 0o644); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", tempPath).
			Wrapf(err, "setting file mode")
	}

	if err := os.Rename(tempPath, path); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("from", tempPath).
			With("to", path).
			Wrapf(err, "replacing destination file")
	}

	return nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
