package search

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/samber/oops"

	"github.com/g5becks/togglemark/internal/config"
	"github.com/g5becks/togglemark/internal/manifest"
	"github.com/g5becks/togglemark/internal/markup"
)

const maxContentSize = 10 * 1024 * 1024

// ContentResult represents a single match from content search.
type ContentResult struct {
	Collection string `json:"collection"`
	Path       string `json:"path"`
	Line       int    `json:"line"`
	Text       string `json:"text"`
}

// ContentOptions configures content search behavior.
type ContentOptions struct {
	Query      string
	Collection string
	UseRegex   bool
	Limit      int
}

type lineMatcher func(string) bool

// Content scans the source documents of files collections line by line.
// Lines are matched on their plain text, so styling delimiters never split a
// match. Collections built from a URL have no local copy and are skipped.
func Content(m *manifest.Manifest, opts ContentOptions) ([]ContentResult, error) {
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return nil, oops.
			Code("INVALID_ARGS").
			Hint("Provide a non-empty search query").
			Errorf("search query cannot be empty")
	}

	matcher, err := newLineMatcher(query, opts.UseRegex)
	if err != nil {
		return nil, err
	}

	names, err := collectionNames(m, opts.Collection)
	if err != nil {
		return nil, err
	}

	var results []ContentResult
	for _, name := range names {
		coll := m.Collections[name]
		if coll.Type != config.SourceTypeFiles {
			continue
		}

		for _, file := range coll.Files {
			found, scanErr := scanFile(name, filepath.Join(coll.Location, filepath.FromSlash(file.Path)), file.Path, matcher)
			if scanErr != nil {
				return nil, scanErr
			}

			for _, result := range found {
				results = append(results, result)
				if opts.Limit > 0 && len(results) >= opts.Limit {
					return results, nil
				}
			}
		}
	}

	return results, nil
}

func newLineMatcher(query string, useRegex bool) (lineMatcher, error) {
	if !useRegex {
		needle := strings.ToLower(query)
		return func(line string) bool {
			return strings.Contains(strings.ToLower(line), needle)
		}, nil
	}

	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		return nil, oops.
			Code("INVALID_ARGS").
			With("pattern", query).
			Hint("Check the regular expression syntax").
			Wrapf(err, "compiling search pattern")
	}

	return re.MatchString, nil
}

func scanFile(collection string, absPath string, relPath string, matcher lineMatcher) ([]ContentResult, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, oops.
			Code("READ_FAILED").
			With("path", absPath).
			Wrapf(err, "checking %q", absPath)
	}

	if info.Size() > maxContentSize {
		return nil, nil
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, oops.
			Code("READ_FAILED").
			With("path", absPath).
			Wrapf(err, "reading %q", absPath)
	}

	if bytes.IndexByte(content[:min(len(content), 512)], 0) != -1 {
		return nil, nil
	}

	doc, err := markup.Parse(string(content))
	if err != nil {
		return nil, oops.With("path", absPath).Wrapf(err, "parsing %q", relPath)
	}

	var results []ContentResult
	for _, block := range doc.Root().Children() {
		text := strings.TrimSpace(markup.PlainText(block))
		if text == "" || !matcher(text) {
			continue
		}

		results = append(results, ContentResult{
			Collection: collection,
			Path:       relPath,
			Line:       block.Line(),
			Text:       text,
		})
	}

	return results, nil
}
