package markup

import (
	"strings"

	"github.com/samber/oops"
)

const (
	boldToggle      = '*'
	italicToggle    = '^'
	underlineToggle = '_'

	delimiters = "*^_"
)

// style is the toggle state in effect for a run of text.
type style struct {
	bold      bool
	italic    bool
	underline bool
}

func (s style) flip(delim byte) style {
	switch delim {
	case boldToggle:
		s.bold = !s.bold
	case italicToggle:
		s.italic = !s.italic
	case underlineToggle:
		s.underline = !s.underline
	}
	return s
}

// span is a half-open byte range [begin, end) of a line sharing one style.
type span struct {
	begin int
	end   int
	style style
}

func (s span) empty() bool {
	return s.end <= s.begin
}

// scanSpans splits line into maximal runs of non-delimiter bytes. Each
// delimiter flips its toggle for everything after it and is dropped.
// Delimiters are ASCII, so byte offsets never split a UTF-8 sequence.
func scanSpans(line string) []span {
	var (
		spans  []span
		state  style
		cursor int
	)

	for cursor < len(line) {
		if c := line[cursor]; strings.IndexByte(delimiters, c) >= 0 {
			state = state.flip(c)
			cursor++
			continue
		}

		end := len(line)
		if next := strings.IndexAny(line[cursor:], delimiters); next >= 0 {
			end = cursor + next
		}

		spans = append(spans, span{begin: cursor, end: end, style: state})
		cursor = end
	}

	return spans
}

// appendInline tokenizes line and attaches the styled runs to parent.
func appendInline(parent *Node, line string) error {
	return attachSpans(parent, line, scanSpans(line))
}

// attachSpans builds one Bold > Italic > Underline > Text chain per span,
// omitting the wrappers whose toggle is off.
func attachSpans(parent *Node, line string, spans []span) error {
	for _, s := range spans {
		if s.empty() {
			return oops.
				Code("INTERNAL_FAULT").
				With("begin", s.begin).
				With("end", s.end).
				With("line", line).
				Errorf("unexpected empty inline range")
		}

		chain := newNode(Text, line[s.begin:s.end])
		if s.style.underline {
			chain = wrap(Underline, chain)
		}
		if s.style.italic {
			chain = wrap(Italic, chain)
		}
		if s.style.bold {
			chain = wrap(Bold, chain)
		}

		parent.appendChild(chain)
	}

	return nil
}

func wrap(typ Type, inner *Node) *Node {
	outer := newNode(typ, "")
	outer.appendChild(inner)
	return outer
}
