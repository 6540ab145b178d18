// Package search finds documents in a built manifest, either by fuzzy
// matching their metadata or by scanning their text.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/oops"

	"github.com/g5becks/togglemark/internal/manifest"
)

// MetadataResult represents a single match from metadata search.
type MetadataResult struct {
	Collection  string `json:"collection"`
	Path        string `json:"path"`
	Output      string `json:"output"`
	Description string `json:"description,omitempty"`
	MatchField  string `json:"match_field"`
	MatchValue  string `json:"match_value"`
	Score       int    `json:"score"`
}

// MetadataOptions configures metadata search behavior.
type MetadataOptions struct {
	Query      string
	Collection string
	Limit      int
}

type indexEntry struct {
	Collection string
	File       *manifest.FileInfo
	MatchField string
	MatchValue string
}

type searchIndex struct {
	entries []indexEntry
}

func (s searchIndex) String(i int) string {
	return s.entries[i].MatchValue
}

func (s searchIndex) Len() int {
	return len(s.entries)
}

// Metadata performs fuzzy search across file paths, descriptions and heading
// texts, keeping the best match per file.
func Metadata(m *manifest.Manifest, opts MetadataOptions) ([]MetadataResult, error) {
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return nil, oops.
			Code("INVALID_ARGS").
			Hint("Provide a non-empty search query").
			Errorf("search query cannot be empty")
	}

	names, err := collectionNames(m, opts.Collection)
	if err != nil {
		return nil, err
	}

	index := searchIndex{entries: buildIndex(m, names)}
	matches := fuzzy.FindFrom(query, index)

	deduped := make(map[string]MetadataResult)
	for _, match := range matches {
		if match.Score < 0 {
			continue
		}

		entry := index.entries[match.Index]
		key := entry.Collection + "\x00" + entry.File.Path

		if existing, exists := deduped[key]; !exists || match.Score > existing.Score {
			deduped[key] = MetadataResult{
				Collection:  entry.Collection,
				Path:        entry.File.Path,
				Output:      entry.File.Output,
				Description: entry.File.Description,
				MatchField:  entry.MatchField,
				MatchValue:  entry.MatchValue,
				Score:       match.Score,
			}
		}
	}

	results := make([]MetadataResult, 0, len(deduped))
	for _, result := range deduped {
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Collection != results[j].Collection {
			return results[i].Collection < results[j].Collection
		}
		return results[i].Path < results[j].Path
	})

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, nil
}

func buildIndex(m *manifest.Manifest, names []string) []indexEntry {
	var entries []indexEntry
	for _, name := range names {
		coll := m.Collections[name]
		for i := range coll.Files {
			file := &coll.Files[i]
			entries = append(entries, indexEntry{
				Collection: name,
				File:       file,
				MatchField: "path",
				MatchValue: file.Path,
			})

			if file.Description != "" {
				entries = append(entries, indexEntry{
					Collection: name,
					File:       file,
					MatchField: "description",
					MatchValue: file.Description,
				})
			}

			for _, heading := range file.Outline {
				entries = append(entries, indexEntry{
					Collection: name,
					File:       file,
					MatchField: "heading",
					MatchValue: heading.Text,
				})
			}
		}
	}

	return entries
}

// collectionNames returns the sorted collections to search, or just the
// requested one after checking it exists.
func collectionNames(m *manifest.Manifest, only string) ([]string, error) {
	if only == "" {
		return m.CollectionNames(), nil
	}

	if _, exists := m.Collections[only]; !exists {
		return nil, oops.
			Code("DOCUMENT_NOT_FOUND").
			With("collection", only).
			Hint("Run 'togglemark build' or check the collection name").
			Errorf("collection %q not found", only)
	}

	return []string{only}, nil
}
