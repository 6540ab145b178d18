package lockfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/g5becks/togglemark/internal/lockfile"
)

func TestLoadReturnsEmptyLockWhenFileMissing(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()

	lock, err := lockfile.Load(outputDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if lock.Version != 1 {
		t.Fatalf("Version = %d, want 1", lock.Version)
	}

	if len(lock.Sources) != 0 {
		t.Fatalf("Sources len = %d, want 0", len(lock.Sources))
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()
	now := time.Now().UTC().Truncate(time.Second)

	lock := lockfile.New()
	lock.SetEntry("notes", &lockfile.LockEntry{
		Type:     "files",
		Settings: "fingerprint",
		BuiltAt:  now,
		Files: map[string]string{
			"intro.tm":       "sha1",
			"guides/deep.tm": "sha2",
		},
	})
	lock.SetEntry("help", &lockfile.LockEntry{
		Type:    "url",
		ETag:    `"etag"`,
		LastMod: "Tue, 15 Jan 2024 10:30:00 GMT",
		BuiltAt: now,
		Files:   map[string]string{"help.tm": "sha3"},
	})

	if err := lock.Save(outputDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := lockfile.Load(outputDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	notes := loaded.GetEntry("notes")
	if notes == nil {
		t.Fatalf("GetEntry(notes) = nil, want non-nil")
	}

	if hash, ok := notes.FileHash("guides/deep.tm"); !ok || hash != "sha2" {
		t.Fatalf("FileHash(guides/deep.tm) = %q, %v, want sha2, true", hash, ok)
	}

	if notes.Settings != "fingerprint" {
		t.Fatalf("Settings = %q, want fingerprint", notes.Settings)
	}

	if !notes.BuiltAt.Equal(now) {
		t.Fatalf("BuiltAt = %v, want %v", notes.BuiltAt, now)
	}

	help := loaded.GetEntry("help")
	if help == nil {
		t.Fatalf("GetEntry(help) = nil, want non-nil")
	}

	if help.ETag != `"etag"` {
		t.Fatalf("ETag = %q, want %q", help.ETag, `"etag"`)
	}

	if help.LastMod != "Tue, 15 Jan 2024 10:30:00 GMT" {
		t.Fatalf("LastMod = %q", help.LastMod)
	}
}

func TestSaveWritesAtomicallyWithoutTempFilesLeft(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()
	lock := lockfile.New()
	lock.SetEntry("notes", &lockfile.LockEntry{Type: "files", BuiltAt: time.Now().UTC()})

	if err := lock.Save(outputDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(outputDir, lockfile.FileName)); err != nil {
		t.Fatalf("lock file missing after Save(): %v", err)
	}

	leftovers, err := filepath.Glob(filepath.Join(outputDir, ".togglemark.lock.*.tmp"))
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}

	if len(leftovers) != 0 {
		t.Fatalf("temporary files left behind: %v", leftovers)
	}
}

func TestSaveCreatesMissingOutputDir(t *testing.T) {
	t.Parallel()

	outputDir := filepath.Join(t.TempDir(), "site")

	if err := lockfile.New().Save(outputDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(outputDir, lockfile.FileName)); err != nil {
		t.Fatalf("lock file missing after Save(): %v", err)
	}
}

func TestLoadInvalidJSONReturnsError(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()
	lockPath := filepath.Join(outputDir, lockfile.FileName)
	if err := os.WriteFile(lockPath, []byte("{not-json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := lockfile.Load(outputDir)
	if err == nil {
		t.Fatalf("Load() error = nil, want non-nil")
	}

	if !strings.Contains(err.Error(), "parsing lock file") {
		t.Fatalf("Load() error = %q, want parsing error", err.Error())
	}
}

func TestEntryCRUD(t *testing.T) {
	t.Parallel()

	lock := lockfile.New()
	if entry := lock.GetEntry("missing"); entry != nil {
		t.Fatalf("GetEntry(missing) = %#v, want nil", entry)
	}

	lock.SetEntry("notes", &lockfile.LockEntry{Type: "files"})
	if entry := lock.GetEntry("notes"); entry == nil {
		t.Fatalf("GetEntry(notes) = nil, want non-nil")
	}

	lock.RemoveEntry("notes")
	if entry := lock.GetEntry("notes"); entry != nil {
		t.Fatalf("GetEntry(notes) after remove = %#v, want nil", entry)
	}
}

func TestFileHashOnNilEntry(t *testing.T) {
	t.Parallel()

	var entry *lockfile.LockEntry
	if _, ok := entry.FileHash("intro.tm"); ok {
		t.Fatalf("FileHash() on nil entry reported a hash")
	}
}

func TestSaveOnNilLockReturnsError(t *testing.T) {
	t.Parallel()

	var lock *lockfile.LockFile
	err := lock.Save(t.TempDir())
	if err == nil {
		t.Fatalf("Save() error = nil, want non-nil")
	}

	if !strings.Contains(err.Error(), "cannot save nil lock file") {
		t.Fatalf("Save() error = %q, want nil lock message", err.Error())
	}
}
