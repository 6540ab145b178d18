// Package source fetches markup documents for a build, either from a local
// directory tree or from a single remote URL.
package source

import (
	"context"

	"github.com/samber/oops"

	"github.com/g5becks/togglemark/internal/config"
	"github.com/g5becks/togglemark/internal/lockfile"
)

// Document is one fetched markup file. Path is slash separated and relative
// to the source root.
type Document struct {
	Path    string
	Content []byte
}

// FetchResult reports what a source produced.
type FetchResult struct {
	Documents    []Document
	NotModified  bool
	ETag         string
	LastModified string
}

// FetchOptions controls behavior for source fetch operations.
type FetchOptions struct {
	Force bool
}

// Source defines a collection of markup documents that can be fetched.
type Source interface {
	Fetch(ctx context.Context, prev *lockfile.LockEntry, opts FetchOptions) (*FetchResult, error)
}

// New creates a Source from config. For files sources cfg.Path must already
// be resolved against the config directory.
func New(name string, cfg config.Source) (Source, error) {
	switch cfg.Type {
	case config.SourceTypeFiles:
		return NewFiles(name, cfg)
	case config.SourceTypeURL:
		return NewURL(name, cfg)
	default:
		return nil, oops.
			Code("UNKNOWN_SOURCE_TYPE").
			With("type", cfg.Type).
			Hint("Supported types: files, url").
			Errorf("unknown source type %q for source %q", cfg.Type, name)
	}
}
