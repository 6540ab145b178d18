package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/oops"

	"github.com/g5becks/togglemark/internal/markup"
	"github.com/g5becks/togglemark/internal/search"
)

// SourceStatus is one row of the configured-sources listing.
type SourceStatus struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Path      string    `json:"path,omitempty"`
	URL       string    `json:"url,omitempty"`
	Patterns  []string  `json:"patterns,omitempty"`
	OutputDir string    `json:"output_dir"`
	Status    string    `json:"status"`
	FileCount int       `json:"file_count,omitempty"`
	BuiltAt   time.Time `json:"built_at,omitzero"`
}

type ListOptions struct {
	JSON    bool
	Verbose bool
}

func RenderSourceList(w io.Writer, sources []SourceStatus, opts ListOptions) error {
	if opts.JSON {
		return renderJSON(w, sources)
	}

	writer := newTable(w)

	if opts.Verbose {
		writer.AppendHeader(table.Row{"SOURCE", "TYPE", "LOCATION", "STATUS", "PATTERNS", "OUTPUT DIR"})
	} else {
		writer.AppendHeader(table.Row{"SOURCE", "TYPE", "LOCATION", "STATUS"})
	}

	for _, source := range sources {
		location := renderLocation(source)
		status := renderStatus(source)

		if opts.Verbose {
			writer.AppendRow(table.Row{
				source.Name,
				source.Type,
				location,
				status,
				strings.Join(source.Patterns, ", "),
				source.OutputDir,
			})
			continue
		}

		writer.AppendRow(table.Row{source.Name, source.Type, location, status})
	}

	writer.Render()
	return nil
}

func renderLocation(source SourceStatus) string {
	if source.Type == "url" {
		return source.URL
	}

	return source.Path
}

func renderStatus(source SourceStatus) string {
	if source.FileCount > 0 {
		return fmt.Sprintf("%s (%d files)", source.Status, source.FileCount)
	}

	return source.Status
}

// RenderOutline prints a document's headings, indented by level.
func RenderOutline(w io.Writer, headings []markup.Heading, jsonOut bool) error {
	if jsonOut {
		if headings == nil {
			headings = []markup.Heading{}
		}
		return renderJSON(w, headings)
	}

	writer := newTable(w)
	writer.AppendHeader(table.Row{"LINE", "LEVEL", "HEADING"})

	for _, heading := range headings {
		indent := strings.Repeat("  ", max(heading.Level-1, 0))
		writer.AppendRow(table.Row{heading.Line, "H" + strconv.Itoa(heading.Level), indent + heading.Text})
	}

	writer.Render()
	return nil
}

func RenderSearchResults(w io.Writer, results []search.MetadataResult, jsonOut bool) error {
	if jsonOut {
		if results == nil {
			results = []search.MetadataResult{}
		}
		return renderJSON(w, results)
	}

	writer := newTable(w)
	writer.AppendHeader(table.Row{"COLLECTION", "PATH", "MATCH", "DESCRIPTION"})

	for _, result := range results {
		writer.AppendRow(table.Row{
			result.Collection,
			result.Path,
			result.MatchField + ": " + result.MatchValue,
			truncate(result.Description, 60),
		})
	}

	writer.Render()
	return nil
}

func RenderContentResults(w io.Writer, results []search.ContentResult, jsonOut bool) error {
	if jsonOut {
		if results == nil {
			results = []search.ContentResult{}
		}
		return renderJSON(w, results)
	}

	writer := newTable(w)
	writer.AppendHeader(table.Row{"COLLECTION", "PATH", "LINE", "TEXT"})

	for _, result := range results {
		writer.AppendRow(table.Row{result.Collection, result.Path, result.Line, truncate(result.Text, 80)})
	}

	writer.Render()
	return nil
}

func newTable(w io.Writer) table.Writer {
	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(table.StyleRounded)
	return writer
}

func renderJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return oops.Code("JSON_ERROR").Wrapf(err, "encoding json output")
	}

	return nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit-3]) + "..."
}
