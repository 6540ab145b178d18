package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/oops"

	"github.com/g5becks/togglemark/internal/config"
	"github.com/g5becks/togglemark/internal/lockfile"
)

type filesSource struct {
	name     string
	root     string
	patterns []string
	exclude  []string
	fsys     fs.FS
}

func NewFiles(name string, cfg config.Source) (Source, error) {
	info, err := os.Stat(cfg.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oops.
				Code("SOURCE_NOT_FOUND").
				With("source", name).
				With("path", cfg.Path).
				Hint("Create the directory or fix the source path in your config").
				Errorf("source directory %q does not exist", cfg.Path)
		}

		return nil, oops.
			Code("READ_FAILED").
			With("source", name).
			With("path", cfg.Path).
			Wrapf(err, "checking source directory")
	}

	if !info.IsDir() {
		return nil, oops.
			Code("SOURCE_NOT_FOUND").
			With("source", name).
			With("path", cfg.Path).
			Hint("A files source path must be a directory").
			Errorf("source path %q is not a directory", cfg.Path)
	}

	return newFilesFS(name, cfg, os.DirFS(cfg.Path)), nil
}

func newFilesFS(name string, cfg config.Source, fsys fs.FS) *filesSource {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = config.DefaultPatterns()
	}

	return &filesSource{
		name:     name,
		root:     cfg.Path,
		patterns: patterns,
		exclude:  cfg.Exclude,
		fsys:     fsys,
	}
}

// Fetch always reads every matched file. Skipping unchanged files is left to
// the caller, which compares content hashes against the lock entry.
func (s *filesSource) Fetch(ctx context.Context, _ *lockfile.LockEntry, _ FetchOptions) (*FetchResult, error) {
	paths, err := s.match()
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, oops.
				Code("FETCH_FAILED").
				With("source", s.name).
				Wrapf(err, "fetch cancelled")
		}

		content, readErr := fs.ReadFile(s.fsys, path)
		if readErr != nil {
			return nil, oops.
				Code("READ_FAILED").
				With("source", s.name).
				With("path", path).
				Wrapf(readErr, "reading %q", path)
		}

		if isBinary(content) {
			continue
		}

		docs = append(docs, Document{Path: path, Content: stripBOM(content)})
	}

	return &FetchResult{Documents: docs}, nil
}

func (s *filesSource) match() ([]string, error) {
	seen := make(map[string]struct{})

	for _, pattern := range s.patterns {
		matches, err := doublestar.Glob(s.fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, oops.
				Code("CONFIG_INVALID").
				With("source", s.name).
				With("pattern", pattern).
				Wrapf(err, "matching pattern %q", pattern)
		}

		for _, match := range matches {
			excluded, exErr := s.excluded(match)
			if exErr != nil {
				return nil, exErr
			}

			if !excluded {
				seen[match] = struct{}{}
			}
		}
	}

	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	return paths, nil
}

func (s *filesSource) excluded(path string) (bool, error) {
	for _, pattern := range s.exclude {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, oops.
				Code("CONFIG_INVALID").
				With("source", s.name).
				With("pattern", pattern).
				Wrapf(err, "matching exclude pattern %q", pattern)
		}

		if matched {
			return true, nil
		}
	}

	return false, nil
}
