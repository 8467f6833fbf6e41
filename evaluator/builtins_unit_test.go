// ==============================================================================================
// FILE: evaluator/builtins_unit_test.go
// ==============================================================================================
// PURPOSE: Exercises each named builtin in callBuiltin directly (string, boolean, typeOf, name,
//          children, elements, copy, distinct, sort, concat/seq, head, tail, index) rather than
//          only through apply(), which the rest of the suite already covers.
// ==============================================================================================

package evaluator

import (
	"testing"

	"xform/node"
)

func booksDoc() *node.Node {
	b1 := node.NewElement("book", []node.Attr{{Name: "year", Value: "2001"}}, []*node.Node{node.NewText("Foo")})
	b2 := node.NewElement("book", []node.Attr{{Name: "year", Value: "1999"}}, []*node.Node{node.NewText("Bar")})
	b3 := node.NewElement("magazine", nil, []*node.Node{node.NewText("Baz")})
	shelf := node.NewElement("shelf", nil, []*node.Node{b1, b2, b3})
	return node.NewDocument(shelf)
}

func mustRun(t *testing.T, src string, doc *node.Node) string {
	t.Helper()
	return parseAndEval(t, src, doc)
}

func TestBuiltinStringCoercesFirstItemToString(t *testing.T) {
	got := mustRun(t, `string(42)`, booksDoc())
	if got != "42" {
		t.Errorf("string(42) = %q, want 42", got)
	}
}

func TestBuiltinBooleanAppliesEffectiveValueRule(t *testing.T) {
	if got := mustRun(t, `boolean(0)`, booksDoc()); got != "false" {
		t.Errorf("boolean(0) = %q, want false", got)
	}
	if got := mustRun(t, `boolean("x")`, booksDoc()); got != "true" {
		t.Errorf("boolean(\"x\") = %q, want true", got)
	}
}

func TestBuiltinTypeOfNamesEachItemKind(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{`typeOf(1)`, "number"},
		{`typeOf("s")`, "string"},
		{`typeOf(1 = 1)`, "boolean"},
		{`typeOf(./shelf)`, "node"},
	}
	for _, tt := range tests {
		if got := mustRun(t, tt.expr, booksDoc()); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.expr, got, tt.want)
		}
	}
}

func TestBuiltinNameReturnsElementName(t *testing.T) {
	got := mustRun(t, `name(./shelf)`, booksDoc())
	if got != "shelf" {
		t.Errorf("name(./shelf) = %q, want shelf", got)
	}
}

func TestBuiltinChildrenReturnsAllChildNodes(t *testing.T) {
	got := mustRun(t, `count(children(./shelf))`, booksDoc())
	if got != "3" {
		t.Errorf("count(children(./shelf)) = %q, want 3", got)
	}
}

func TestBuiltinElementsFiltersByOptionalName(t *testing.T) {
	if got := mustRun(t, `count(elements(./shelf))`, booksDoc()); got != "3" {
		t.Errorf("count(elements(./shelf)) = %q, want 3", got)
	}
	if got := mustRun(t, `count(elements(./shelf, "book"))`, booksDoc()); got != "2" {
		t.Errorf("count(elements(./shelf, \"book\")) = %q, want 2", got)
	}
}

func TestBuiltinCopyProducesAnIndependentNode(t *testing.T) {
	got := mustRun(t, `name(copy(./shelf))`, booksDoc())
	if got != "shelf" {
		t.Errorf("name(copy(./shelf)) = %q, want shelf", got)
	}
}

func TestBuiltinDistinctDropsRepeatedKeys(t *testing.T) {
	got := mustRun(t, `count(distinct(for b in //book return name(b)))`, booksDoc())
	if got != "1" {
		t.Errorf("count(distinct(...)) = %q, want 1 (both books share the name 'book')", got)
	}
}

func TestBuiltinSortOrdersByKeyFunction(t *testing.T) {
	const prelude = `
def yearOf(b) := attr(b, "year");
`
	if got := mustRun(t, prelude+`head(for b in sort(//book, yearOf) return attr(b, "year"))`, booksDoc()); got != "1999" {
		t.Errorf("first sorted year = %q, want 1999 (1999 before 2001)", got)
	}
	if got := mustRun(t, prelude+`last(for b in sort(//book, yearOf) return attr(b, "year"))`, booksDoc()); got != "2001" {
		t.Errorf("last sorted year = %q, want 2001 (1999 before 2001)", got)
	}
}

func TestBuiltinConcatAndSeqFlattenArguments(t *testing.T) {
	if got := mustRun(t, `count(concat(1, 2, 3))`, booksDoc()); got != "3" {
		t.Errorf("count(concat(1,2,3)) = %q, want 3", got)
	}
	if got := mustRun(t, `count(seq(1, 2, 3))`, booksDoc()); got != "3" {
		t.Errorf("count(seq(1,2,3)) = %q, want 3", got)
	}
}

func TestBuiltinHeadAndTailSplitASequence(t *testing.T) {
	if got := mustRun(t, `head(concat(1, 2, 3))`, booksDoc()); got != "1" {
		t.Errorf("head(concat(1,2,3)) = %q, want 1", got)
	}
	if got := mustRun(t, `count(tail(concat(1, 2, 3)))`, booksDoc()); got != "2" {
		t.Errorf("count(tail(concat(1,2,3))) = %q, want 2", got)
	}
}

func TestBuiltinIndexBuildsAMapKeyedByFunction(t *testing.T) {
	got := mustRun(t, `
def yearOf(b) := attr(b, "year");
count(lookup(index(//book, yearOf), "1999"))
`, booksDoc())
	if got != "1" {
		t.Errorf("count(lookup(index(...), \"1999\")) = %q, want 1", got)
	}
}

// TestBuiltinGroupByGroupsByKeyFunction is the plain evaluator-level
// complement to the full groupBy/lookup/count scenario exercised end to end
// in package tests; object.TestIntegrationMapOfSequencesHoldsMultiItemGroups
// only checks the Map/Sequence shape groupBy returns, not the builtin.
func TestBuiltinGroupByGroupsByKeyFunction(t *testing.T) {
	got := mustRun(t, `
def shelfName(b) := name(b);
count(groupBy(concat(//book, //magazine), shelfName))
`, booksDoc())
	if got != "2" {
		t.Errorf("count(groupBy(...)) = %q, want 2 (one group for 'book', one for 'magazine')", got)
	}
}
