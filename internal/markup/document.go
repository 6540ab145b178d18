package markup

import "strings"

// Heading is one entry of a document outline.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Line  int    `json:"line"`
}

// Stats counts the blocks of a document by kind.
type Stats struct {
	Lines      int `json:"lines"`
	Headings   int `json:"headings"`
	Paragraphs int `json:"paragraphs"`
	Bullets    int `json:"bullets"`
	Numbered   int `json:"numbered"`
	Blank      int `json:"blank"`
}

// Outline lists the document's headings in order.
func (d *Document) Outline() []Heading {
	var headings []Heading
	for _, block := range d.root.children {
		if level := block.typ.HeadingLevel(); level > 0 {
			headings = append(headings, Heading{
				Level: level,
				Text:  block.text,
				Line:  block.line,
			})
		}
	}
	return headings
}

// Description summarizes the document from its first heading and first
// non-empty paragraph.
func (d *Document) Description() string {
	var heading, para string
	for _, block := range d.root.children {
		switch {
		case block.typ.IsHeading():
			if heading == "" {
				heading = block.text
			}
		case block.typ == Paragraph:
			if para == "" {
				para = strings.TrimSpace(PlainText(block))
			}
		}
		if heading != "" && para != "" {
			break
		}
	}

	switch {
	case heading != "" && para != "":
		return heading + " - " + para
	case heading != "":
		return heading
	default:
		return para
	}
}

// Stats returns the block counts of d.
func (d *Document) Stats() Stats {
	stats := Stats{Lines: len(d.root.children)}
	for _, block := range d.root.children {
		switch block.typ {
		case Heading1, Heading2, Heading3:
			stats.Headings++
		case Paragraph:
			stats.Paragraphs++
		case Bulleted:
			stats.Bullets++
		case Numbered:
			stats.Numbered++
		case BlankLine:
			stats.Blank++
		}
	}
	return stats
}

// PlainText concatenates the text of n and all its descendants, dropping
// styling.
func PlainText(n *Node) string {
	var sb strings.Builder
	n.Walk(func(node *Node) bool {
		sb.WriteString(node.text)
		return true
	})
	return sb.String()
}
