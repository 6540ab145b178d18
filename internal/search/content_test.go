package search_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samber/oops"

	"github.com/g5becks/togglemark/internal/manifest"
	"github.com/g5becks/togglemark/internal/search"
)

func setupContentTestFiles(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		"hello.tm":        "# Hello World\nThis is line two\n- a *bold* line",
		"guides/regex.tm": "func main is a test\nanother line here",
		"binary.tm":       "abc\x00def hello",
	}

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
}

func buildContentTestManifest(dir string) *manifest.Manifest {
	m := manifest.New()
	m.Collections["notes"] = &manifest.Collection{
		Name:     "notes",
		Type:     "files",
		Location: dir,
		Files: []manifest.FileInfo{
			{Path: "binary.tm"},
			{Path: "guides/regex.tm"},
			{Path: "hello.tm"},
			{Path: "missing.tm"},
		},
	}
	m.Collections["remote"] = &manifest.Collection{
		Name:     "remote",
		Type:     "url",
		Location: "https://example.test/help.tm",
		Files:    []manifest.FileInfo{{Path: "help.tm"}},
	}

	return m
}

func TestContent_LiteralCaseInsensitive(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	setupContentTestFiles(t, tmpDir)
	m := buildContentTestManifest(tmpDir)

	results, err := search.Content(m, search.ContentOptions{Query: "HELLO"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result (binary skipped), got %+v", results)
	}

	if results[0].Path != "hello.tm" || results[0].Line != 1 || results[0].Text != "Hello World" {
		t.Errorf("unexpected result %+v", results[0])
	}
}

func TestContent_MatchesPlainTextAcrossStyling(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	setupContentTestFiles(t, tmpDir)
	m := buildContentTestManifest(tmpDir)

	results, err := search.Content(m, search.ContentOptions{Query: "a bold line"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 1 || results[0].Line != 3 {
		t.Fatalf("expected styled bullet on line 3, got %+v", results)
	}
}

func TestContent_RegexCaseInsensitive(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	setupContentTestFiles(t, tmpDir)
	m := buildContentTestManifest(tmpDir)

	results, err := search.Content(m, search.ContentOptions{Query: "FUNC.*test", UseRegex: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 1 || results[0].Path != "guides/regex.tm" {
		t.Fatalf("expected one regex match in guides/regex.tm, got %+v", results)
	}
}

func TestContent_InvalidRegex(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	setupContentTestFiles(t, tmpDir)
	m := buildContentTestManifest(tmpDir)

	_, err := search.Content(m, search.ContentOptions{Query: "[invalid", UseRegex: true})
	if err == nil {
		t.Fatal("expected error for invalid regex")
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok || oopsErr.Code() != "INVALID_ARGS" {
		t.Errorf("expected INVALID_ARGS, got %v", err)
	}
}

func TestContent_LimitStopsEarly(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	setupContentTestFiles(t, tmpDir)
	m := buildContentTestManifest(tmpDir)

	results, err := search.Content(m, search.ContentOptions{Query: "line", Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Errorf("expected exactly 2 results, got %d", len(results))
	}
}

func TestContent_SkipsURLCollectionsAndMissingFiles(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	setupContentTestFiles(t, tmpDir)
	m := buildContentTestManifest(tmpDir)

	results, err := search.Content(m, search.ContentOptions{Query: "line"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range results {
		if r.Collection != "notes" {
			t.Errorf("unexpected collection %q", r.Collection)
		}
		if !strings.Contains(strings.ToLower(r.Text), "line") {
			t.Errorf("result text %q does not contain query", r.Text)
		}
	}

	if len(results) != 3 {
		t.Errorf("expected 3 line matches, got %+v", results)
	}
}

func TestContent_UnknownCollection(t *testing.T) {
	t.Parallel()

	_, err := search.Content(manifest.New(), search.ContentOptions{Query: "x", Collection: "nope"})
	if err == nil {
		t.Fatal("expected error for unknown collection")
	}
}

func TestContent_EmptyQuery(t *testing.T) {
	t.Parallel()

	_, err := search.Content(manifest.New(), search.ContentOptions{Query: ""})
	if err == nil {
		t.Fatal("expected error for empty query")
	}
}
