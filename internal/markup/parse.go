package markup

import (
	"strings"

	"github.com/samber/oops"
)

var lineTerminators = strings.NewReplacer("\r\n", "\n", "\r", "\n")

type options struct {
	maxBytes int
	maxLines int
}

// Option configures Parse.
type Option func(*options)

// WithMaxBytes rejects input longer than n bytes. Zero disables the check.
func WithMaxBytes(n int) Option {
	return func(o *options) {
		o.maxBytes = n
	}
}

// WithMaxLines rejects input with more than n lines. Zero disables the check.
func WithMaxLines(n int) Option {
	return func(o *options) {
		o.maxLines = n
	}
}

// Document is the result of parsing one piece of markup.
type Document struct {
	root *Node
}

// Root returns the document's single Root node. Its children are the
// document's blocks, one per source line.
func (d *Document) Root() *Node {
	return d.root
}

// Parse builds a document tree from raw markup. The only failures are an
// exceeded size limit and an internal tokenizer fault.
func Parse(raw string, opts ...Option) (*Document, error) {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.maxBytes > 0 && len(raw) > cfg.maxBytes {
		return nil, oops.
			Code("INPUT_TOO_LARGE").
			With("bytes", len(raw)).
			With("max_bytes", cfg.maxBytes).
			Hint("Split the document or raise limits.max_bytes").
			Errorf("document is %d bytes, limit is %d", len(raw), cfg.maxBytes)
	}

	lines := SplitLines(raw)
	if cfg.maxLines > 0 && len(lines) > cfg.maxLines {
		return nil, oops.
			Code("INPUT_TOO_LARGE").
			With("lines", len(lines)).
			With("max_lines", cfg.maxLines).
			Hint("Split the document or raise limits.max_lines").
			Errorf("document has %d lines, limit is %d", len(lines), cfg.maxLines)
	}

	root := newNode(Root, "")
	for i, line := range lines {
		block, err := Classify(line)
		if err != nil {
			return nil, oops.With("line_number", i+1).Wrapf(err, "parsing line %d", i+1)
		}

		block.line = i + 1
		root.appendChild(block)
	}

	return &Document{root: root}, nil
}

// SplitLines splits raw on "\r\n", "\r" and "\n", dropping the terminators.
// An empty input yields a single empty line.
func SplitLines(raw string) []string {
	return strings.Split(lineTerminators.Replace(raw), "\n")
}
