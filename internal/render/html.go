// Package render turns a markup document tree into HTML.
package render

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/g5becks/togglemark/internal/markup"
)

type tagPair struct {
	open  string
	close string
}

func tagsFor(typ markup.Type) (tagPair, bool) {
	switch typ {
	case markup.Heading1:
		return tagPair{`<span style="font-size:140%;font-weight:bold">`, "</span>"}, true
	case markup.Heading2:
		return tagPair{`<span style="font-size:120%;font-weight:bold;font-style:italic">`, "</span>"}, true
	case markup.Heading3:
		return tagPair{`<span style="font-size:105%;font-weight:bold">`, "</span>"}, true
	case markup.Bold:
		return tagPair{"<b>", "</b>"}, true
	case markup.Italic:
		return tagPair{"<i>", "</i>"}, true
	case markup.Underline:
		return tagPair{"<u>", "</u>"}, true
	default:
		return tagPair{}, false
	}
}

// Document renders the whole document as an HTML fragment.
func Document(doc *markup.Document) string {
	return HTML(doc.Root())
}

// HTML renders n and its descendants. Runs of adjacent list items share one
// list element and adjacent paragraphs share one <p> separated by <br>.
func HTML(n *markup.Node) string {
	var sb strings.Builder
	renderNode(&sb, n)
	return sb.String()
}

func renderNode(sb *strings.Builder, n *markup.Node) {
	tags, tagged := tagsFor(n.Type())
	if tagged {
		sb.WriteString(tags.open)
	}

	if n.Text() != "" {
		sb.WriteString(html.EscapeString(n.Text()))
	}

	siblings := n.Children()
	for i, child := range siblings {
		switch child.Type() {
		case markup.Bulleted:
			renderListItem(sb, siblings, i, "ul")
		case markup.Numbered:
			renderListItem(sb, siblings, i, "ol")
		case markup.Paragraph:
			renderParagraph(sb, siblings, i)
		default:
			renderNode(sb, child)
		}
	}

	if tagged {
		sb.WriteString(tags.close)
		if !n.IsInline() {
			sb.WriteByte('\n')
		}
	}
}

func renderListItem(sb *strings.Builder, siblings []*markup.Node, i int, list string) {
	typ := siblings[i].Type()

	if !previousIs(siblings, i, typ) {
		sb.WriteString("\n<" + list + ">\n")
	}

	sb.WriteString("<li>")
	renderNode(sb, siblings[i])
	sb.WriteString("</li>\n")

	if !nextIs(siblings, i, typ) {
		sb.WriteString("\n</" + list + ">\n")
	}
}

func renderParagraph(sb *strings.Builder, siblings []*markup.Node, i int) {
	if previousIs(siblings, i, markup.Paragraph) {
		sb.WriteString("<br>\n")
	} else {
		sb.WriteString("\n<p>\n")
	}

	renderNode(sb, siblings[i])

	if !nextIs(siblings, i, markup.Paragraph) {
		sb.WriteString("\n</p>\n")
	}
}

func previousIs(siblings []*markup.Node, i int, typ markup.Type) bool {
	return i > 0 && siblings[i-1].Type() == typ
}

func nextIs(siblings []*markup.Node, i int, typ markup.Type) bool {
	return i+1 < len(siblings) && siblings[i+1].Type() == typ
}
