package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/list"

	"github.com/g5becks/togglemark/internal/markup"
)

// RenderTree draws the node tree rooted at root, one item per node.
func RenderTree(w io.Writer, root *markup.Node) {
	writer := list.NewWriter()
	writer.SetStyle(list.StyleConnectedRounded)

	appendNode(writer, root)

	fmt.Fprintln(w, writer.Render())
}

func appendNode(writer list.Writer, n *markup.Node) {
	writer.AppendItem(nodeLabel(n))

	if !n.HasChildren() {
		return
	}

	writer.Indent()
	for _, child := range n.Children() {
		appendNode(writer, child)
	}
	writer.UnIndent()
}

func nodeLabel(n *markup.Node) string {
	label := n.Type().String()
	if n.Text() != "" {
		label += " " + strconv.Quote(n.Text())
	}
	if n.Line() > 0 {
		label += fmt.Sprintf(" (line %d)", n.Line())
	}

	return label
}
