package build

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"github.com/samber/oops"

	"github.com/g5becks/togglemark/internal/config"
	"github.com/g5becks/togglemark/internal/markup"
	"github.com/g5becks/togglemark/internal/render"
)

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// settingsFingerprint identifies the config values that change a rendered
// page. Pages built under a different fingerprint are rebuilt.
func settingsFingerprint(settings config.RenderSettings) string {
	key := fmt.Sprintf("standalone=%t max_bytes=%d max_lines=%d",
		settings.Standalone, settings.Limits.MaxBytes, settings.Limits.MaxLines)
	return contentHash([]byte(key))
}

// outputPath maps a document path to its page path: the extension is
// replaced with ".html". Both are slash separated.
func outputPath(docPath string) string {
	ext := path.Ext(docPath)
	return strings.TrimSuffix(docPath, ext) + ".html"
}

func parseOptions(limits config.Limits) []markup.Option {
	return []markup.Option{
		markup.WithMaxBytes(limits.MaxBytes),
		markup.WithMaxLines(limits.MaxLines),
	}
}

// renderDocument parses content and renders it as a fragment, or as a full
// page when the source is standalone.
func renderDocument(content []byte, settings config.RenderSettings) (*markup.Document, string, error) {
	doc, err := markup.Parse(string(content), parseOptions(settings.Limits)...)
	if err != nil {
		return nil, "", err
	}

	if settings.Standalone {
		return doc, render.Page(doc, ""), nil
	}

	return doc, render.Document(doc), nil
}

func checkCollisions(sourceName string, docPaths []string) error {
	owners := make(map[string]string, len(docPaths))
	for _, docPath := range docPaths {
		out := outputPath(docPath)
		if other, ok := owners[out]; ok {
			return oops.
				Code("BUILD_FAILED").
				With("source", sourceName).
				With("output", out).
				Hint("Rename one of the files or narrow the source patterns").
				Errorf("%q and %q both render to %q", other, docPath, out)
		}
		owners[out] = docPath
	}

	return nil
}
