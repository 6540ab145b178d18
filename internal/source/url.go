package source

import (
	"context"
	"io"
	"net/http"
	neturl "net/url"
	"path"

	"github.com/samber/oops"
	"resty.dev/v3"

	"github.com/g5becks/togglemark/internal/config"
	"github.com/g5becks/togglemark/internal/lockfile"
)

const userAgent = "togglemark"

type urlSource struct {
	name     string
	source   config.Source
	filename string
	client   *resty.Client
}

func NewURL(name string, cfg config.Source) (Source, error) {
	filename := cfg.Filename
	if filename == "" {
		filename = filenameFromURL(name, cfg.URL)
	}

	client := resty.New().SetHeader("User-Agent", userAgent)

	return &urlSource{
		name:     name,
		source:   cfg,
		filename: filename,
		client:   client,
	}, nil
}

func (s *urlSource) Fetch(ctx context.Context, prev *lockfile.LockEntry, opts FetchOptions) (*FetchResult, error) {
	request := s.client.R().SetContext(ctx)
	if !opts.Force && prev != nil {
		if prev.ETag != "" {
			request.SetHeader("If-None-Match", prev.ETag)
		}
		if prev.LastMod != "" {
			request.SetHeader("If-Modified-Since", prev.LastMod)
		}
	}

	response, err := request.Get(s.source.URL)
	if err != nil {
		return nil, oops.
			Code("FETCH_FAILED").
			With("source", s.name).
			With("url", s.source.URL).
			Hint("Check the URL and your network connection").
			Wrapf(err, "fetching url source")
	}

	if response.StatusCode() == http.StatusNotModified {
		result := &FetchResult{NotModified: true}
		if prev != nil {
			result.ETag = prev.ETag
			result.LastModified = prev.LastMod
		}

		return result, nil
	}

	if response.StatusCode() < http.StatusOK || response.StatusCode() >= http.StatusMultipleChoices {
		return nil, oops.
			Code("FETCH_FAILED").
			With("source", s.name).
			With("url", s.source.URL).
			With("status", response.StatusCode()).
			Errorf("url source returned non-success status %d", response.StatusCode())
	}

	content, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, oops.
			Code("FETCH_FAILED").
			With("source", s.name).
			With("url", s.source.URL).
			Wrapf(err, "reading response body")
	}

	if isBinary(content) {
		return nil, oops.
			Code("FETCH_FAILED").
			With("source", s.name).
			With("url", s.source.URL).
			Hint("url sources must serve plain text markup").
			Errorf("url source returned binary content")
	}

	return &FetchResult{
		Documents:    []Document{{Path: s.filename, Content: stripBOM(content)}},
		ETag:         response.Header().Get("ETag"),
		LastModified: response.Header().Get("Last-Modified"),
	}, nil
}

func filenameFromURL(sourceName string, rawURL string) string {
	parsed, err := neturl.Parse(rawURL)
	if err == nil {
		baseName := path.Base(parsed.Path)
		if baseName != "" && baseName != "." && baseName != "/" {
			return baseName
		}
	}

	return sourceName + ".tm"
}
