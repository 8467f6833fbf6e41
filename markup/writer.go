// ==============================================================================================
// FILE: markup/writer.go
// ==============================================================================================
// PACKAGE: markup
// PURPOSE: node.Node tree -> text. A small recursive serializer;
//          comments and processing instructions are omitted from output,
//          empty elements self-close with no space before "/>", and
//          attribute order follows the node's own attribute order (reader
//          output is already lexicographically sorted; constructor output
//          preserves declaration order, which is intentionally asymmetric with the reader).
// ==============================================================================================

package markup

import (
	"strings"

	"xform/node"
	"xform/object"
)

// Write serializes n (and its subtree) to markup text.
func Write(n *node.Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

// WriteSequence serializes an evaluator result sequence: each
// Node item is written as markup, each non-Node item is rendered via its
// own Inspect text, and items are concatenated with no added separator.
func WriteSequence(seq object.Sequence) string {
	var b strings.Builder
	for _, item := range seq {
		if ni, ok := item.(*object.NodeItem); ok {
			writeNode(&b, ni.Node)
			continue
		}
		b.WriteString(item.Inspect())
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *node.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case node.Document:
		for _, c := range n.Children {
			writeNode(b, c)
		}
	case node.Text:
		b.WriteString(EscapeText(n.Value))
	case node.Comment, node.PI:
		// omitted from output
	case node.Attribute:
		b.WriteString(EscapeAttr(n.Value))
	case node.Element:
		b.WriteByte('<')
		b.WriteString(n.Name)
		for _, a := range n.Attrs {
			b.WriteByte(' ')
			b.WriteString(a.Name)
			b.WriteString(`="`)
			b.WriteString(EscapeAttr(a.Value))
			b.WriteByte('"')
		}
		if len(n.Children) == 0 {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		for _, c := range n.Children {
			writeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Name)
		b.WriteByte('>')
	}
}

// EscapeText escapes the three characters significant in XML character
// content: & < >.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// EscapeAttr escapes text content plus the double quote, for use inside a
// "..."-quoted attribute value.
func EscapeAttr(s string) string {
	return strings.ReplaceAll(EscapeText(s), `"`, "&quot;")
}
