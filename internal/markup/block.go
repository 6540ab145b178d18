package markup

import (
	"strings"

	"github.com/samber/oops"
)

const (
	headingMarker  = '#'
	bulletMarker   = "-"
	numberedMarker = "#."
	maxHeadingLen  = 3
)

// Handler classifies one source line. It returns the block node it built and
// true, or false to let the next handler try.
type Handler func(line string) (*Node, bool, error)

// Handlers is the classification chain in priority order. The paragraph
// handler accepts every line, so it stays last.
func Handlers() []Handler {
	return []Handler{
		headingHandler,
		bulletsHandler,
		blankLineHandler,
		paragraphHandler,
	}
}

// Classify runs line through the handler chain and returns the first match.
func Classify(line string) (*Node, error) {
	for _, handle := range Handlers() {
		node, ok, err := handle(line)
		if err != nil {
			return nil, err
		}
		if ok {
			return node, nil
		}
	}

	return nil, oops.
		Code("INTERNAL_FAULT").
		With("line", line).
		Errorf("no handler accepted line")
}

func headingHandler(line string) (*Node, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] != headingMarker || strings.HasPrefix(line, numberedMarker) {
		return nil, false, nil
	}

	level := 0
	for level < len(line) && line[level] == headingMarker {
		level++
	}

	var typ Type
	switch level {
	case 1:
		typ = Heading1
	case 2:
		typ = Heading2
	case maxHeadingLen:
		typ = Heading3
	default:
		return nil, false, nil
	}

	return newNode(typ, strings.TrimSpace(line[level:])), true, nil
}

func bulletsHandler(line string) (*Node, bool, error) {
	line = strings.TrimSpace(line)

	var typ Type
	var body string
	switch {
	case strings.HasPrefix(line, bulletMarker):
		typ = Bulleted
		body = line[len(bulletMarker):]
	case strings.HasPrefix(line, numberedMarker):
		typ = Numbered
		body = line[len(numberedMarker):]
	default:
		return nil, false, nil
	}

	item := newNode(typ, "")
	if err := appendInline(item, strings.TrimSpace(body)); err != nil {
		return nil, false, err
	}

	return item, true, nil
}

func blankLineHandler(line string) (*Node, bool, error) {
	if strings.TrimSpace(line) != "" {
		return nil, false, nil
	}
	return newNode(BlankLine, ""), true, nil
}

func paragraphHandler(line string) (*Node, bool, error) {
	para := newNode(Paragraph, "")
	if err := appendInline(para, strings.TrimSpace(line)); err != nil {
		return nil, false, err
	}
	return para, true, nil
}
