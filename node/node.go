// ==============================================================================================
// FILE: node/node.go
// ==============================================================================================
// PACKAGE: node
// PURPOSE: The immutable markup tree the XForm engine reads from and
//          constructs into during evaluation (the reader
//          and writer contracts). Nodes are child-only: there are no parent
//          pointers: the parent axis always yields an empty sequence.
// ==============================================================================================

package node

// Kind tags what a Node represents.
type Kind int

const (
	Document Kind = iota
	Element
	Attribute
	Text
	Comment
	PI
)

func (k Kind) String() string {
	switch k {
	case Document:
		return "document"
	case Element:
		return "element"
	case Attribute:
		return "attribute"
	case Text:
		return "text"
	case Comment:
		return "comment"
	case PI:
		return "pi"
	}
	return "unknown"
}

// Attr is one ordered (name, value) attribute pair on an Element.
type Attr struct {
	Name  string
	Value string
}

// Node is an immutable tagged tree node. Once built it is never mutated;
// duplication happens only through DeepCopy. Nodes are shared by reference
// (sequences and bindings point at tree nodes without copying them; an
// element constructor deep-copies every node it takes in, so a constructed
// element never shares children with its source).
type Node struct {
	Kind     Kind
	Name     string // Element, PI (target name); "" otherwise
	Value    string // Text, Attribute, PI (data); "" otherwise
	Attrs    []Attr // Element only, in declared/sorted order
	Children []*Node
}

// NewDocument builds a Document node with the given children.
func NewDocument(children ...*Node) *Node {
	return &Node{Kind: Document, Children: children}
}

// NewElement builds an Element node.
func NewElement(name string, attrs []Attr, children []*Node) *Node {
	return &Node{Kind: Element, Name: name, Attrs: attrs, Children: children}
}

// NewText builds a Text node.
func NewText(value string) *Node { return &Node{Kind: Text, Value: value} }

// NewAttr builds a standalone Attribute node (used transiently by the path
// engine's attribute axis; never a tree child since attributes live in
// Node.Attrs).
func NewAttr(name, value string) *Node { return &Node{Kind: Attribute, Name: name, Value: value} }

// NewComment builds a Comment node.
func NewComment(value string) *Node { return &Node{Kind: Comment, Value: value} }

// NewPI builds a processing-instruction node.
func NewPI(target, data string) *Node { return &Node{Kind: PI, Name: target, Value: data} }

// StringValue computes the node's string value: own value for
// Text/Attribute, concatenation of descendant Text values in document order
// for Element/Document, empty for Comment/PI.
func (n *Node) StringValue() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case Text, Attribute:
		return n.Value
	case Element, Document:
		var b []byte
		for _, c := range n.Children {
			b = append(b, c.stringValueBytes()...)
		}
		return string(b)
	default:
		return ""
	}
}

func (n *Node) stringValueBytes() []byte {
	switch n.Kind {
	case Text:
		return []byte(n.Value)
	case Element:
		var b []byte
		for _, c := range n.Children {
			b = append(b, c.stringValueBytes()...)
		}
		return b
	default:
		return nil
	}
}

// Attr looks up an attribute by name; ok is false if absent.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// DeepCopy duplicates n and its entire subtree.
func DeepCopy(n *Node) *Node {
	if n == nil {
		return nil
	}
	cp := &Node{Kind: n.Kind, Name: n.Name, Value: n.Value}
	if n.Attrs != nil {
		cp.Attrs = make([]Attr, len(n.Attrs))
		copy(cp.Attrs, n.Attrs)
	}
	if n.Children != nil {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = DeepCopy(c)
		}
	}
	return cp
}

// Descendants returns every descendant of n in pre-order (parent before its
// children), matching the document-order requirement of the path engine.
func Descendants(n *Node) []*Node {
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c)
		out = append(out, Descendants(c)...)
	}
	return out
}
