package render

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/g5becks/togglemark/internal/markup"
)

const (
	pageHead = "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>"
	pageBody = "</title>\n</head>\n<body>\n"
	pageTail = "</body>\n</html>\n"
)

// Page renders doc as a standalone HTML5 page. An empty title falls back to
// the document's first heading.
func Page(doc *markup.Document, title string) string {
	if title == "" {
		if outline := doc.Outline(); len(outline) > 0 {
			title = outline[0].Text
		}
	}

	var sb strings.Builder
	sb.WriteString(pageHead)
	sb.WriteString(html.EscapeString(title))
	sb.WriteString(pageBody)
	sb.WriteString(Document(doc))
	sb.WriteString(pageTail)
	return sb.String()
}
