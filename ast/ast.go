// ==============================================================================================
// FILE: ast/ast.go
// ==============================================================================================
// PACKAGE: ast
// PURPOSE: Typed syntax tree for the XForm transformation language: module-level
//          declarations (namespaces, imports, vars, functions, rules) and the
//          expression/path/pattern grammar produced by package parser.
// ==============================================================================================

package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is any XForm expression node.
type Expr interface {
	exprNode()
	String() string
}

// Module is the root of a parsed XForm program.
type Module struct {
	Namespaces map[string]string
	Imports    []Import
	Vars       []VarDecl
	Functions  map[string]*FunctionDef
	Rules      map[string][]*RuleDef
	Expr       Expr // nil if the module has no top-level body
}

// Import records a parsed `import "iri" as alias;` declaration. Namespaces
// and imports are parsed but never consulted by the evaluator; they're
// retained on Module purely so a -debug dump can show what was declared.
type Import struct {
	IRI   string
	Alias string // "" if no alias given
}

// VarDecl is one `var name := expr;` declaration. Vars are kept as an
// ordered slice (not a map) because they must be evaluated in
// declaration order.
type VarDecl struct {
	Name  string
	Value Expr
}

// FunctionDef is a `def name(params) := body;` declaration.
type FunctionDef struct {
	Params []Param
	Body   Expr
}

// Param is one function parameter; TypeRef and Default are optional.
type Param struct {
	Name     string
	TypeRef  string // "" if absent
	Default  Expr   // nil if absent
}

// RuleDef is one `rule name match Pattern := body;` declaration. Several
// RuleDefs may share a name (a rule-set), tried in declaration order.
type RuleDef struct {
	Pattern Pattern
	Body    Expr
}

// ---------------------------------------------------------------------------
// Literals
// ---------------------------------------------------------------------------

type NumberLiteral struct{ Value float64 }
type StringLiteral struct{ Value string }
type BoolLiteral struct{ Value bool }
type NullLiteral struct{}

func (*NumberLiteral) exprNode() {}
func (*StringLiteral) exprNode() {}
func (*BoolLiteral) exprNode()   {}
func (*NullLiteral) exprNode()   {}

func (n *NumberLiteral) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (s *StringLiteral) String() string { return strconv.Quote(s.Value) }
func (b *BoolLiteral) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (*NullLiteral) String() string { return "null" }

// ---------------------------------------------------------------------------
// Variable and function references
// ---------------------------------------------------------------------------

type VarRef struct{ Name string }

func (*VarRef) exprNode()      {}
func (v *VarRef) String() string { return v.Name }

type FuncCall struct {
	Name string
	Args []Expr
}

func (*FuncCall) exprNode() {}
func (f *FuncCall) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(parts, ", "))
}

// ---------------------------------------------------------------------------
// Control-flow expressions
// ---------------------------------------------------------------------------

type IfExpr struct{ Cond, Then, Else Expr }

func (*IfExpr) exprNode() {}
func (e *IfExpr) String() string {
	return fmt.Sprintf("if %s then %s else %s", e.Cond, e.Then, e.Else)
}

type LetExpr struct {
	Name  string
	Value Expr
	Body  Expr
}

func (*LetExpr) exprNode() {}
func (e *LetExpr) String() string {
	return fmt.Sprintf("let %s := %s in %s", e.Name, e.Value, e.Body)
}

type ForExpr struct {
	Name  string
	Seq   Expr
	Where Expr // nil if absent
	Body  Expr
}

func (*ForExpr) exprNode() {}
func (e *ForExpr) String() string {
	if e.Where != nil {
		return fmt.Sprintf("for %s in %s where %s return %s", e.Name, e.Seq, e.Where, e.Body)
	}
	return fmt.Sprintf("for %s in %s return %s", e.Name, e.Seq, e.Body)
}

type MatchCase struct {
	Pattern Pattern
	Body    Expr
}

type MatchExpr struct {
	Target  Expr
	Cases   []MatchCase
	Default Expr // nil if absent
}

func (*MatchExpr) exprNode() {}
func (e *MatchExpr) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "match %s:", e.Target)
	for _, c := range e.Cases {
		fmt.Fprintf(&b, " case %s => %s;", c.Pattern, c.Body)
	}
	if e.Default != nil {
		fmt.Fprintf(&b, " default => %s;", e.Default)
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

type UnaryOp struct {
	Op   string
	Expr Expr
}

func (*UnaryOp) exprNode()      {}
func (u *UnaryOp) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.Expr) }

type BinaryOp struct {
	Op          string
	Left, Right Expr
}

func (*BinaryOp) exprNode() {}
func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// ---------------------------------------------------------------------------
// Element constructors and raw content
// ---------------------------------------------------------------------------

// Attr is one `name={Expr}` attribute inside an element constructor.
type Attr struct {
	Name  string
	Value Expr
}

type Constructor struct {
	Name     string
	Attrs    []Attr
	Contents []Expr
}

func (*Constructor) exprNode() {}
func (c *Constructor) String() string {
	parts := make([]string, len(c.Attrs))
	for i, a := range c.Attrs {
		parts[i] = fmt.Sprintf("%s={%s}", a.Name, a.Value)
	}
	return fmt.Sprintf("<%s %s>...</%s>", c.Name, strings.Join(parts, " "), c.Name)
}

type TextConstructor struct{ Value Expr }

func (*TextConstructor) exprNode() {}
func (t *TextConstructor) String() string { return fmt.Sprintf("text{%s}", t.Value) }

// CharData is raw, non-whitespace-only character data captured inside an
// element constructor's content.
type CharData struct{ Value string }

func (*CharData) exprNode()      {}
func (c *CharData) String() string { return c.Value }

// Interp is a `{ Expr }` interpolation hole inside element content.
type Interp struct{ Value Expr }

func (*Interp) exprNode()      {}
func (i *Interp) String() string { return fmt.Sprintf("{%s}", i.Value) }

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

type PathStartKind int

const (
	PathContext PathStartKind = iota
	PathRoot
	PathDesc
	PathDescRoot
	PathVar
)

func (k PathStartKind) String() string {
	switch k {
	case PathContext:
		return "."
	case PathRoot:
		return "/"
	case PathDesc:
		return ".//"
	case PathDescRoot:
		return "//"
	case PathVar:
		return "var"
	}
	return "?"
}

type PathStart struct {
	Kind PathStartKind
	Name string // set when Kind == PathVar
}

type PathAxis int

const (
	AxisChild PathAxis = iota
	AxisDesc
	AxisDescOrSelf
	AxisSelf
	AxisParent
	AxisAttr
)

func (a PathAxis) String() string {
	switch a {
	case AxisChild:
		return "child"
	case AxisDesc:
		return "descendant"
	case AxisDescOrSelf:
		return "descendant-or-self"
	case AxisSelf:
		return "self"
	case AxisParent:
		return "parent"
	case AxisAttr:
		return "attribute"
	}
	return "?"
}

type StepTestKind int

const (
	TestName StepTestKind = iota
	TestWildcard
	TestText
	TestNode
	TestComment
	TestPI
)

type StepTest struct {
	Kind StepTestKind
	Name string // set when Kind == TestName
}

func NamedTest(n string) StepTest { return StepTest{Kind: TestName, Name: n} }
func WildcardTest() StepTest      { return StepTest{Kind: TestWildcard} }
func TextTest() StepTest          { return StepTest{Kind: TestText} }
func NodeTest() StepTest          { return StepTest{Kind: TestNode} }

type PathStep struct {
	Axis       PathAxis
	Test       StepTest
	Predicates []Expr
}

type PathExpr struct {
	Start PathStart
	Steps []PathStep
}

func (*PathExpr) exprNode() {}
func (p *PathExpr) String() string {
	var b strings.Builder
	b.WriteString(p.Start.Kind.String())
	for _, s := range p.Steps {
		fmt.Fprintf(&b, "/%s::%v%s", s.Axis, s.Test.Kind, predsString(s.Predicates))
	}
	return b.String()
}

func predsString(preds []Expr) string {
	var b strings.Builder
	for _, p := range preds {
		fmt.Fprintf(&b, "[%s]", p)
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Patterns
// ---------------------------------------------------------------------------

// Pattern is matched against an item during `match`/`apply` dispatch; a
// successful match may produce variable bindings (ElementPattern.Var).
type Pattern interface {
	patternNode()
	String() string
}

type WildcardPattern struct{}

func (WildcardPattern) patternNode()    {}
func (WildcardPattern) String() string { return "_" }

// TypedPattern matches node()/text()/comment() shapes.
type TypedPattern struct{ Kind string } // "node" | "text" | "comment"

func (TypedPattern) patternNode()      {}
func (t TypedPattern) String() string { return t.Kind + "()" }

type AttributePattern struct{ Name string }

func (AttributePattern) patternNode()      {}
func (a AttributePattern) String() string { return "@" + a.Name }

// ElementPattern matches `<Name>{var}</Name>` (binds children to Var) or
// `<Name><ChildPat/></Name>` (requires a matching child, no binding).
type ElementPattern struct {
	Name  string
	Var   string  // "" if unused
	Child Pattern // nil if unused
}

func (*ElementPattern) patternNode() {}
func (e *ElementPattern) String() string {
	if e.Var != "" {
		return fmt.Sprintf("<%s>{%s}</%s>", e.Name, e.Var, e.Name)
	}
	if e.Child != nil {
		return fmt.Sprintf("<%s>%s</%s>", e.Name, e.Child, e.Name)
	}
	return fmt.Sprintf("<%s/>", e.Name)
}
