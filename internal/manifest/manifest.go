package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/samber/oops"

	"github.com/g5becks/togglemark/internal/fsutil"
	"github.com/g5becks/togglemark/internal/markup"
)

const (
	CurrentVersion = "1.0.0"
	ManifestFile   = "manifest.json"
)

type Manifest struct {
	Version     string                 `json:"version"`
	Generated   time.Time              `json:"generated"`
	Collections map[string]*Collection `json:"collections"`
}

// Collection is the index of one built source.
type Collection struct {
	Name      string     `json:"name"`
	Dir       string     `json:"dir"`
	Type      string     `json:"type"`
	Location  string     `json:"location"`
	LastBuild time.Time  `json:"last_build"`
	FileCount int        `json:"file_count"`
	TotalSize int64      `json:"total_size"`
	Files     []FileInfo `json:"files"`
}

type FileInfo struct {
	Path        string           `json:"path"`
	Output      string           `json:"output"`
	Size        int64            `json:"size"`
	Lines       int              `json:"lines"`
	Description string           `json:"description"`
	Outline     []markup.Heading `json:"outline,omitempty"`
	Stats       markup.Stats     `json:"stats"`
}

func New() *Manifest {
	return &Manifest{
		Version:     CurrentVersion,
		Generated:   time.Now(),
		Collections: make(map[string]*Collection),
	}
}

// NewFileInfo indexes a parsed document. output is the rendered page path
// relative to the collection directory.
func NewFileInfo(path string, output string, content []byte, doc *markup.Document) FileInfo {
	stats := doc.Stats()

	return FileInfo{
		Path:        path,
		Output:      output,
		Size:        int64(len(content)),
		Lines:       stats.Lines,
		Description: doc.Description(),
		Outline:     doc.Outline(),
		Stats:       stats,
	}
}

// Finalize sorts files by path and refreshes the totals.
func (c *Collection) Finalize() {
	slices.SortFunc(c.Files, func(a, b FileInfo) int {
		switch {
		case a.Path < b.Path:
			return -1
		case a.Path > b.Path:
			return 1
		default:
			return 0
		}
	})

	c.FileCount = len(c.Files)
	c.TotalSize = 0
	for _, file := range c.Files {
		c.TotalSize += file.Size
	}
}

// File looks up a file entry by its source path.
func (c *Collection) File(path string) (FileInfo, bool) {
	if c == nil {
		return FileInfo{}, false
	}

	for _, file := range c.Files {
		if file.Path == path {
			return file, true
		}
	}

	return FileInfo{}, false
}

// Load reads the manifest from outputDir. A missing manifest is an error:
// callers that tolerate it should use LoadOrNew.
func Load(outputDir string) (*Manifest, error) {
	manifestPath := Path(outputDir)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oops.
				Code("MANIFEST_ERROR").
				With("path", manifestPath).
				Hint("Run 'togglemark build' to generate the manifest").
				Errorf("manifest not found at %q", manifestPath)
		}

		return nil, oops.
			Code("MANIFEST_ERROR").
			With("path", manifestPath).
			Wrapf(err, "reading manifest file")
	}

	m := &Manifest{}
	if unmarshalErr := json.Unmarshal(data, m); unmarshalErr != nil {
		return nil, oops.
			Code("MANIFEST_ERROR").
			With("path", manifestPath).
			Hint("Delete manifest.json and run 'togglemark build --force'").
			Wrapf(unmarshalErr, "parsing manifest file")
	}

	if m.Collections == nil {
		m.Collections = make(map[string]*Collection)
	}

	return m, nil
}

// LoadOrNew is Load, except a missing manifest yields an empty one.
func LoadOrNew(outputDir string) (*Manifest, error) {
	if !fsutil.Exists(Path(outputDir)) {
		return New(), nil
	}

	return Load(outputDir)
}

func (m *Manifest) Save(outputDir string) error {
	if m == nil {
		return oops.
			Code("MANIFEST_ERROR").
			Hint("Initialize manifest before saving").
			Errorf("cannot save nil manifest")
	}

	m.Generated = time.Now()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return oops.
			Code("MANIFEST_ERROR").
			Wrapf(err, "encoding manifest")
	}

	data = append(data, '\n')
	manifestPath := Path(outputDir)

	if err := fsutil.WriteFileAtomic(manifestPath, data); err != nil {
		return oops.
			Code("MANIFEST_ERROR").
			With("path", manifestPath).
			Wrapf(err, "saving manifest")
	}

	return nil
}

// CollectionNames returns the collection names in sorted order.
func (m *Manifest) CollectionNames() []string {
	names := make([]string, 0, len(m.Collections))
	for name := range m.Collections {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

func Path(outputDir string) string {
	return filepath.Join(outputDir, ManifestFile)
}
