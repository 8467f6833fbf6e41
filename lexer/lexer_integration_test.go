// ----------------------------------------------------------------------------
// FILE: lexer/lexer_integration_test.go
// ----------------------------------------------------------------------------
package lexer

import (
	"testing"

	"xform/token"
)

// TestIntegrationLexerRawAccess verifies the raw-access primitives the parser
// relies on for element-constructor content scanning (SeekTo/RuneAt/
// HasPrefixAt/Slice) stay consistent with NextToken's own cursor.
func TestIntegrationLexerRawAccess(t *testing.T) {
	input := `<Item>text{x}</Item>`
	l := New(input)

	tok := l.NextToken() // OPERATOR "<"
	if tok.Kind != token.OPERATOR || tok.Literal != "<" {
		t.Fatalf("got %q %q, want OPERATOR \"<\"", tok.Kind, tok.Literal)
	}
	tok = l.NextToken() // IDENT "Item"
	if tok.Kind != token.IDENT || tok.Literal != "Item" {
		t.Fatalf("got %q %q, want IDENT \"Item\"", tok.Kind, tok.Literal)
	}
	tok = l.NextToken() // OPERATOR ">"
	if tok.Kind != token.OPERATOR || tok.Literal != ">" {
		t.Fatalf("got %q %q, want OPERATOR \">\"", tok.Kind, tok.Literal)
	}

	pos := tok.Pos + len(tok.Literal)
	if !l.HasPrefixAt(pos, "text{") {
		t.Fatalf("expected \"text{\" at pos %d", pos)
	}
	l.SeekTo(pos + len("text{"))

	tok = l.NextToken() // IDENT "x"
	if tok.Kind != token.IDENT || tok.Literal != "x" {
		t.Fatalf("got %q %q, want IDENT \"x\"", tok.Kind, tok.Literal)
	}

	r, ok := l.RuneAt(l.Pos())
	if !ok || r != '}' {
		t.Fatalf("expected '}' at cursor, got %q (ok=%v)", r, ok)
	}

	slice := l.Slice(0, 5)
	if slice != "<Item" {
		t.Fatalf("Slice(0,5) = %q, want %q", slice, "<Item")
	}
}
