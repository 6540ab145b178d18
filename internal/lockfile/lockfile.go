package lockfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"

	"github.com/g5becks/togglemark/internal/fsutil"
)

const (
	FileName       = ".togglemark.lock"
	currentVersion = 1
)

// LockFile records what the last build saw for every source, so unchanged
// documents can be skipped.
type LockFile struct {
	Version int                   `json:"version"`
	Sources map[string]*LockEntry `json:"sources"`
}

// LockEntry is one source's state. Settings fingerprints the render settings
// the recorded pages were built with.
type LockEntry struct {
	Type     string            `json:"type"`
	ETag     string            `json:"etag,omitempty"`
	LastMod  string            `json:"last_modified,omitempty"`
	Settings string            `json:"settings,omitempty"`
	BuiltAt  time.Time         `json:"built_at"`
	Files    map[string]string `json:"files,omitempty"`
}

// FileHash returns the recorded content hash for a document path.
func (e *LockEntry) FileHash(path string) (string, bool) {
	if e == nil || e.Files == nil {
		return "", false
	}

	hash, ok := e.Files[path]
	return hash, ok
}

func Load(outputDir string) (*LockFile, error) {
	lockPath := filepath.Join(outputDir, FileName)
	data, err := os.ReadFile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}

		return nil, oops.
			Code("LOCK_ERROR").
			With("path", lockPath).
			Wrapf(err, "reading lock file")
	}

	lock := &LockFile{}
	if unmarshalErr := json.Unmarshal(data, lock); unmarshalErr != nil {
		return nil, oops.
			Code("LOCK_ERROR").
			With("path", lockPath).
			Hint("Delete the lock file and run 'togglemark build --force' to regenerate it").
			Wrapf(unmarshalErr, "parsing lock file")
	}

	if lock.Version == 0 {
		lock.Version = currentVersion
	}

	if lock.Sources == nil {
		lock.Sources = map[string]*LockEntry{}
	}

	return lock, nil
}

func New() *LockFile {
	return &LockFile{
		Version: currentVersion,
		Sources: map[string]*LockEntry{},
	}
}

func (l *LockFile) Save(outputDir string) error {
	if l == nil {
		return oops.
			Code("LOCK_ERROR").
			Hint("Initialize lock file state before saving").
			Errorf("cannot save nil lock file")
	}

	if l.Version == 0 {
		l.Version = currentVersion
	}

	if l.Sources == nil {
		l.Sources = map[string]*LockEntry{}
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return oops.
			Code("LOCK_ERROR").
			Wrapf(err, "encoding lock file")
	}

	data = append(data, '\n')
	lockPath := filepath.Join(outputDir, FileName)

	if err := fsutil.WriteFileAtomic(lockPath, data); err != nil {
		return oops.
			Code("LOCK_ERROR").
			With("path", lockPath).
			Wrapf(err, "saving lock file")
	}

	return nil
}

func (l *LockFile) GetEntry(name string) *LockEntry {
	if l == nil {
		return nil
	}

	return l.Sources[name]
}

func (l *LockFile) SetEntry(name string, entry *LockEntry) {
	if l == nil {
		return
	}

	if l.Sources == nil {
		l.Sources = map[string]*LockEntry{}
	}

	l.Sources[name] = entry
}

func (l *LockFile) RemoveEntry(name string) {
	if l == nil || l.Sources == nil {
		return
	}

	delete(l.Sources, name)
}
