// ==============================================================================================
// FILE: evaluator/evaluator_unit_test.go
// ==============================================================================================
// PURPOSE: Unit tests for individual expression forms — literals, operators, coercion, and
//          control flow — evaluated in isolation against a minimal environment.
// ==============================================================================================

package evaluator

import (
	"testing"

	"xform/ast"
	"xform/node"
	"xform/object"
)

func newTestEnv() *object.Environment {
	doc := node.NewDocument()
	return object.NewGlobal(doc, &ast.Module{Functions: map[string]*ast.FunctionDef{}}).
		WithContext(&object.NodeItem{Node: doc})
}

func evalString(t *testing.T, expr ast.Expr) string {
	t.Helper()
	seq, err := Eval(expr, newTestEnv())
	if err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	return ToString(seq)
}

func TestEvalLiterals(t *testing.T) {
	if got := evalString(t, &ast.NumberLiteral{Value: 42}); got != "42" {
		t.Errorf("NumberLiteral: got %q, want 42", got)
	}
	if got := evalString(t, &ast.StringLiteral{Value: "hi"}); got != "hi" {
		t.Errorf("StringLiteral: got %q, want hi", got)
	}
	if got := evalString(t, &ast.BoolLiteral{Value: true}); got != "true" {
		t.Errorf("BoolLiteral: got %q, want true", got)
	}
	if got := evalString(t, &ast.NullLiteral{}); got != "" {
		t.Errorf("NullLiteral: got %q, want empty string", got)
	}
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		op       string
		l, r     float64
		expected string
	}{
		{"+", 2, 3, "5"},
		{"-", 5, 2, "3"},
		{"*", 4, 3, "12"},
		{"div", 10, 4, "2.5"},
		{"mod", 7, 3, "1"},
	}
	for _, tt := range tests {
		expr := &ast.BinaryOp{Op: tt.op, Left: &ast.NumberLiteral{Value: tt.l}, Right: &ast.NumberLiteral{Value: tt.r}}
		if got := evalString(t, expr); got != tt.expected {
			t.Errorf("%v %s %v: got %q, want %q", tt.l, tt.op, tt.r, got, tt.expected)
		}
	}
}

func TestEvalComparisonOperators(t *testing.T) {
	tests := []struct {
		op       string
		expected bool
	}{
		{"<", true}, {"<=", true}, {">", false}, {">=", false}, {"=", false}, {"!=", true},
	}
	for _, tt := range tests {
		expr := &ast.BinaryOp{Op: tt.op, Left: &ast.NumberLiteral{Value: 1}, Right: &ast.NumberLiteral{Value: 2}}
		seq, err := Eval(expr, newTestEnv())
		if err != nil {
			t.Fatalf("op %s: unexpected error: %v", tt.op, err)
		}
		if got := ToBoolean(seq); got != tt.expected {
			t.Errorf("1 %s 2: got %v, want %v", tt.op, got, tt.expected)
		}
	}
}

func TestEvalAndOrShortCircuit(t *testing.T) {
	// A right side that would error must never be evaluated once the left side decides the result.
	poison := &ast.FuncCall{Name: "doesNotExist", Args: nil}

	andExpr := &ast.BinaryOp{Op: "and", Left: &ast.BoolLiteral{Value: false}, Right: poison}
	seq, err := Eval(andExpr, newTestEnv())
	if err != nil {
		t.Fatalf("unexpected error short-circuiting 'and': %v", err)
	}
	if ToBoolean(seq) {
		t.Errorf("false and X should be false")
	}

	orExpr := &ast.BinaryOp{Op: "or", Left: &ast.BoolLiteral{Value: true}, Right: poison}
	seq, err = Eval(orExpr, newTestEnv())
	if err != nil {
		t.Fatalf("unexpected error short-circuiting 'or': %v", err)
	}
	if !ToBoolean(seq) {
		t.Errorf("true or X should be true")
	}
}

func TestEvalUnaryOperators(t *testing.T) {
	neg := &ast.UnaryOp{Op: "-", Expr: &ast.NumberLiteral{Value: 5}}
	if got := evalString(t, neg); got != "-5" {
		t.Errorf("-5: got %q", got)
	}
	not := &ast.UnaryOp{Op: "not", Expr: &ast.BoolLiteral{Value: true}}
	if got := evalString(t, not); got != "false" {
		t.Errorf("not true: got %q, want false", got)
	}
}

func TestEvalIfExpr(t *testing.T) {
	ifExpr := &ast.IfExpr{
		Cond: &ast.BoolLiteral{Value: true},
		Then: &ast.StringLiteral{Value: "yes"},
		Else: &ast.StringLiteral{Value: "no"},
	}
	if got := evalString(t, ifExpr); got != "yes" {
		t.Errorf("if true: got %q, want yes", got)
	}
	ifExpr.Cond = &ast.BoolLiteral{Value: false}
	if got := evalString(t, ifExpr); got != "no" {
		t.Errorf("if false: got %q, want no", got)
	}
}

func TestEvalLetExpr(t *testing.T) {
	let := &ast.LetExpr{
		Name:  "x",
		Value: &ast.NumberLiteral{Value: 7},
		Body:  &ast.BinaryOp{Op: "+", Left: &ast.VarRef{Name: "x"}, Right: &ast.NumberLiteral{Value: 1}},
	}
	if got := evalString(t, let); got != "8" {
		t.Errorf("let x := 7 in x + 1: got %q, want 8", got)
	}
}

func TestToBooleanEffectiveValueRules(t *testing.T) {
	tests := []struct {
		name     string
		seq      object.Sequence
		expected bool
	}{
		{"empty sequence", object.Sequence{}, false},
		{"zero number", object.Single(&object.Number{Value: 0}), false},
		{"nonzero number", object.Single(&object.Number{Value: 1}), true},
		{"empty string", object.Single(&object.String{Value: ""}), false},
		{"nonempty string", object.Single(&object.String{Value: "x"}), true},
		{"null", object.Single(&object.Null{}), false},
		{"node always truthy", object.Single(&object.NodeItem{Node: node.NewText("")}), true},
	}
	for _, tt := range tests {
		if got := ToBoolean(tt.seq); got != tt.expected {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestToNumberConversionFailure(t *testing.T) {
	_, err := ToNumber(object.Single(&object.String{Value: "not a number"}))
	if err == nil {
		t.Fatal("expected a conversion error for a non-numeric string")
	}
}

func TestEvalConstructorProducesElementNode(t *testing.T) {
	c := &ast.Constructor{
		Name:  "Item",
		Attrs: []ast.Attr{{Name: "id", Value: &ast.NumberLiteral{Value: 3}}},
		Contents: []ast.Expr{
			&ast.TextConstructor{Value: &ast.StringLiteral{Value: "hello"}},
		},
	}
	seq, err := Eval(c, newTestEnv())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ni, ok := seq[0].(*object.NodeItem)
	if !ok {
		t.Fatalf("expected a NodeItem, got %T", seq[0])
	}
	if ni.Node.Kind != node.Element || ni.Node.Name != "Item" {
		t.Fatalf("expected an Item element, got %+v", ni.Node)
	}
	if len(ni.Node.Attrs) != 1 || ni.Node.Attrs[0].Value != "3" {
		t.Fatalf("expected attr id=3, got %+v", ni.Node.Attrs)
	}
	if ni.Node.StringValue() != "hello" {
		t.Errorf("expected string-value 'hello', got %q", ni.Node.StringValue())
	}
}
