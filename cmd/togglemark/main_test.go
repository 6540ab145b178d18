package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samber/oops"

	"github.com/g5becks/togglemark/internal/markup"
	"github.com/g5becks/togglemark/internal/search"
)

func runCLI(t *testing.T, stdinText string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCommand()
	root.Writer = &out
	root.ErrWriter = &bytes.Buffer{}
	root.Reader = strings.NewReader(stdinText)

	err := root.Run(context.Background(), append([]string{"togglemark"}, args...))
	return out.String(), err
}

func TestRenderFromStdin(t *testing.T) {
	out, err := runCLI(t, "# Title\nHello *world*", "render")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}

	for _, want := range []string{`<span style="font-size:140%;font-weight:bold">Title</span>`, "<b>world</b>"} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q, got:\n%s", want, out)
		}
	}
}

func TestRenderStandaloneToFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.tm")
	dest := filepath.Join(dir, "out", "page.html")
	if err := os.WriteFile(src, []byte("plain"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := runCLI(t, "", "render", "--standalone", "--title", "A & B", "--out", dest, src); err != nil {
		t.Fatalf("render error = %v", err)
	}

	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if !strings.HasPrefix(string(content), "<!DOCTYPE html>") || !strings.Contains(string(content), "<title>A &amp; B</title>") {
		t.Errorf("page = %q", content)
	}
}

func TestRenderEnforcesLimits(t *testing.T) {
	_, err := runCLI(t, strings.Repeat("x", 100), "render", "--max-bytes", "10")
	if err == nil {
		t.Fatal("render error = nil, want INPUT_TOO_LARGE")
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok || oopsErr.Code() != "INPUT_TOO_LARGE" {
		t.Errorf("render error = %v, want INPUT_TOO_LARGE", err)
	}
}

func TestRenderMissingFile(t *testing.T) {
	_, err := runCLI(t, "", "render", filepath.Join(t.TempDir(), "missing.tm"))
	if err == nil {
		t.Fatal("render error = nil, want DOCUMENT_NOT_FOUND")
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok || oopsErr.Code() != "DOCUMENT_NOT_FOUND" {
		t.Errorf("render error = %v, want DOCUMENT_NOT_FOUND", err)
	}
}

func TestTreeJSON(t *testing.T) {
	out, err := runCLI(t, "- item", "tree", "--json")
	if err != nil {
		t.Fatalf("tree error = %v", err)
	}

	var decoded struct {
		Type     string `json:"type"`
		Children []struct {
			Type string `json:"type"`
		} `json:"children"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("tree JSON error = %v, output:\n%s", err, out)
	}

	if decoded.Type != "root" || len(decoded.Children) != 1 || decoded.Children[0].Type != "bulleted" {
		t.Errorf("tree JSON = %+v", decoded)
	}
}

func TestOutlineJSONFromStdin(t *testing.T) {
	out, err := runCLI(t, "# One\ntext\n## Two", "outline", "--json")
	if err != nil {
		t.Fatalf("outline error = %v", err)
	}

	var headings []markup.Heading
	if err := json.Unmarshal([]byte(out), &headings); err != nil {
		t.Fatalf("outline JSON error = %v", err)
	}

	if len(headings) != 2 || headings[1].Level != 2 || headings[1].Line != 3 {
		t.Errorf("headings = %+v", headings)
	}
}

func TestSyntaxSampleParses(t *testing.T) {
	out, err := runCLI(t, "", "syntax", "--html")
	if err != nil {
		t.Fatalf("syntax error = %v", err)
	}

	for _, want := range []string{"<ul>", "<ol>", "<i>italic</i>", "<u>underline</u>", "<br>"} {
		if !strings.Contains(out, want) {
			t.Errorf("syntax HTML missing %q", want)
		}
	}
}

func TestInitBuildSearchWorkflow(t *testing.T) {
	projectDir := t.TempDir()

	if _, err := runCLI(t, "", "init", projectDir); err != nil {
		t.Fatalf("init error = %v", err)
	}

	if _, err := runCLI(t, "", "init", projectDir); err == nil {
		t.Fatal("second init error = nil, want refusal")
	}

	notesDir := filepath.Join(projectDir, "notes")
	if err := os.MkdirAll(notesDir, 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(notesDir, "setup.tm"), []byte("# Setup Guide\nInstall the *tool*"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	configPath := filepath.Join(projectDir, "togglemark.toml")

	if _, err := runCLI(t, "", "build", "--config", configPath, "--quiet"); err != nil {
		t.Fatalf("build error = %v", err)
	}

	page, err := os.ReadFile(filepath.Join(projectDir, "site", "notes", "setup.html"))
	if err != nil {
		t.Fatalf("built page missing: %v", err)
	}

	if !strings.HasPrefix(string(page), "<!DOCTYPE html>") {
		t.Errorf("starter config is standalone, page = %q", page)
	}

	out, err := runCLI(t, "", "search", "--config", configPath, "--json", "Setup")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}

	var results []search.MetadataResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("search JSON error = %v, output:\n%s", err, out)
	}

	if len(results) == 0 || results[0].Path != "setup.tm" {
		t.Errorf("search results = %+v", results)
	}

	out, err = runCLI(t, "", "search", "--config", configPath, "--content", "install the tool")
	if err != nil {
		t.Fatalf("content search error = %v", err)
	}

	if !strings.Contains(out, "setup.tm") {
		t.Errorf("content search output = \n%s", out)
	}

	out, err = runCLI(t, "", "outline", "--config", configPath, "--collection", "notes", "--json", "setup.tm")
	if err != nil {
		t.Fatalf("outline --collection error = %v", err)
	}

	if !strings.Contains(out, "Setup Guide") {
		t.Errorf("built outline = %s", out)
	}

	out, err = runCLI(t, "", "list", "--config", configPath)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}

	if !strings.Contains(out, "built (1 files)") {
		t.Errorf("list output = \n%s", out)
	}

	out, err = runCLI(t, "", "collections", "--config", configPath, "--json")
	if err != nil {
		t.Fatalf("collections error = %v", err)
	}

	if !strings.Contains(out, `"files": 1`) {
		t.Errorf("collections output = %s", out)
	}
}

func TestSearchRegexRequiresContent(t *testing.T) {
	_, err := runCLI(t, "", "search", "--regex", "x")
	if err == nil {
		t.Fatal("search --regex without --content: error = nil")
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok || oopsErr.Code() != "INVALID_ARGS" {
		t.Errorf("error = %v, want INVALID_ARGS", err)
	}
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		10:      "10 B",
		2048:    "2.0 KB",
		5 << 20:     "5.0 MB",
	}

	for in, want := range tests {
		if got := formatSize(in); got != want {
			t.Errorf("formatSize(%d) = %q, want %q", in, got, want)
		}
	}
}
