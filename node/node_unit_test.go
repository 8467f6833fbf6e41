// ==============================================================================================
// FILE: node/node_unit_test.go
// ==============================================================================================
// PURPOSE: Unit tests for the node tree: construction, string-value computation, attribute
//          lookup, and deep-copy independence.
// ==============================================================================================

package node

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStringValueConcatenatesDescendantText(t *testing.T) {
	doc := NewDocument(
		NewElement("Item", nil, []*Node{
			NewText("hello "),
			NewElement("Bold", nil, []*Node{NewText("world")}),
			NewComment("ignored"),
		}),
	)
	got := doc.StringValue()
	if got != "hello world" {
		t.Errorf("StringValue() = %q, want %q", got, "hello world")
	}
}

func TestStringValueEmptyForCommentAndPI(t *testing.T) {
	if NewComment("x").StringValue() != "" {
		t.Errorf("comment should contribute no string value")
	}
	if NewPI("target", "data").StringValue() != "" {
		t.Errorf("PI should contribute no string value")
	}
}

func TestAttrLookup(t *testing.T) {
	n := NewElement("Item", []Attr{{Name: "price", Value: "12"}}, nil)

	v, ok := n.Attr("price")
	if !ok || v != "12" {
		t.Errorf("Attr(price) = %q, %v, want 12, true", v, ok)
	}

	if _, ok := n.Attr("missing"); ok {
		t.Errorf("expected missing attribute to report ok=false")
	}
}

func TestAttrOnNilNodeIsSafe(t *testing.T) {
	var n *Node
	if _, ok := n.Attr("x"); ok {
		t.Errorf("nil node must never report an attribute present")
	}
	if n.StringValue() != "" {
		t.Errorf("nil node string value must be empty")
	}
}

// TestDeepCopyProducesIndependentTree verifies that mutating the copy's
// backing arrays never reaches back into the original — the copy must
// share no slice storage with its source.
func TestDeepCopyProducesIndependentTree(t *testing.T) {
	original := NewDocument(
		NewElement("Catalog", nil, []*Node{
			NewElement("Item", []Attr{{Name: "id", Value: "1"}}, []*Node{NewText("Widget")}),
		}),
	)

	cp := DeepCopy(original)

	if diff := cmp.Diff(original, cp); diff != "" {
		t.Fatalf("DeepCopy produced a structurally different tree (-original +copy):\n%s", diff)
	}

	// Mutate the copy's attribute slice and child slice in place; the
	// original must be unaffected since DeepCopy allocates fresh backing
	// arrays at every level.
	cp.Children[0].Attrs[0].Value = "mutated"
	cp.Children[0].Children[0].Value = "mutated"

	if original.Children[0].Attrs[0].Value != "1" {
		t.Errorf("mutating the copy's attrs leaked into the original")
	}
	if original.Children[0].Children[0].Value != "Widget" {
		t.Errorf("mutating the copy's children leaked into the original")
	}
}

func TestDeepCopyNilIsNil(t *testing.T) {
	if DeepCopy(nil) != nil {
		t.Errorf("DeepCopy(nil) must return nil")
	}
}

func TestDescendantsPreOrder(t *testing.T) {
	leaf := NewText("x")
	mid := NewElement("Mid", nil, []*Node{leaf})
	top := NewElement("Top", nil, []*Node{mid})

	got := Descendants(top)
	want := []*Node{mid, leaf}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Descendants() mismatch (-want +got):\n%s", diff)
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		Document:  "document",
		Element:   "element",
		Attribute: "attribute",
		Text:      "text",
		Comment:   "comment",
		PI:        "pi",
		Kind(99):  "unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
