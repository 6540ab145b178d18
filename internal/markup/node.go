package markup

import "encoding/json"

// Type identifies the kind of a Node.
type Type int

const (
	Root Type = iota
	Heading1
	Heading2
	Heading3
	Bulleted
	Numbered
	BlankLine
	Paragraph
	Text
	Bold
	Italic
	Underline
)

var typeNames = [...]string{
	Root:      "root",
	Heading1:  "heading1",
	Heading2:  "heading2",
	Heading3:  "heading3",
	Bulleted:  "bulleted",
	Numbered:  "numbered",
	BlankLine: "blank",
	Paragraph: "paragraph",
	Text:      "text",
	Bold:      "bold",
	Italic:    "italic",
	Underline: "underline",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// MarshalText lets Type appear by name in JSON output.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// IsInline reports whether t is an inline modifier wrapper.
func (t Type) IsInline() bool {
	return t == Bold || t == Italic || t == Underline
}

// IsBlock reports whether t may appear as a direct child of Root.
func (t Type) IsBlock() bool {
	switch t {
	case Heading1, Heading2, Heading3, Bulleted, Numbered, BlankLine, Paragraph:
		return true
	default:
		return false
	}
}

// IsHeading reports whether t is one of the heading types.
func (t Type) IsHeading() bool {
	return t.HeadingLevel() > 0
}

// HeadingLevel returns 1, 2 or 3 for heading types and 0 otherwise.
func (t Type) HeadingLevel() int {
	switch t {
	case Heading1:
		return 1
	case Heading2:
		return 2
	case Heading3:
		return 3
	default:
		return 0
	}
}

// Node is one element of a parsed document. A Node owns its children;
// parent is a back-reference used for traversal and re-parenting only.
type Node struct {
	typ      Type
	text     string
	line     int
	parent   *Node
	children []*Node
}

func newNode(typ Type, text string) *Node {
	return &Node{typ: typ, text: text}
}

func (n *Node) Type() Type {
	return n.typ
}

// Text is the heading body for Heading1..3, the literal run for Text,
// and empty for every other type.
func (n *Node) Text() string {
	return n.text
}

// Line is the 1-based source line of a block node, 0 for Root and inline nodes.
func (n *Node) Line() int {
	return n.line
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the child nodes in document order. Callers must not modify
// the returned slice.
func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

func (n *Node) IsInline() bool {
	return n.typ.IsInline()
}

// Walk visits n and its descendants depth-first in document order. If fn
// returns false the node's children are skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(fn)
	}
}

// appendChild attaches child as the last child of n, detaching it from any
// previous parent first.
func (n *Node) appendChild(child *Node) {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) removeChild(child *Node) {
	if child.parent != n {
		return
	}
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	child.parent = nil
	if len(n.children) == 0 {
		n.children = nil
	}
}

type nodeJSON struct {
	Type     Type    `json:"type"`
	Text     string  `json:"text,omitempty"`
	Line     int     `json:"line,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// MarshalJSON encodes the subtree rooted at n. The parent link is omitted.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{
		Type:     n.typ,
		Text:     n.text,
		Line:     n.line,
		Children: n.children,
	})
}
