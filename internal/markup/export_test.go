package markup

// Test-only exports for tree construction and tokenizer internals.

func NewNode(typ Type, text string) *Node {
	return newNode(typ, text)
}

func (n *Node) AppendChild(child *Node) {
	n.appendChild(child)
}

func (n *Node) RemoveChild(child *Node) {
	n.removeChild(child)
}

// AttachEmptyRange feeds the attach step a zero-length range at offset,
// which the scanner itself never produces.
func AttachEmptyRange(parent *Node, line string, offset int) error {
	return attachSpans(parent, line, []span{{begin: offset, end: offset}})
}

// SpanCount reports how many styled runs the scanner finds in line.
func SpanCount(line string) int {
	return len(scanSpans(line))
}
