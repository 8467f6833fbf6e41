// ==============================================================================================
// FILE: evaluator/evaluator.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: The environment-passing tree-walking evaluator:
//          module evaluation, the expression dispatch, operator semantics,
//          and the boolean/string/number coercion lattice shared by every
//          context that needs one. Grounded on the reference's eval_expr/
//          eval_binary/to_boolean/to_string/to_number.
// ==============================================================================================

package evaluator

import (
	"strconv"
	"strings"

	"xform/ast"
	"xform/node"
	"xform/object"
	"xform/path"
	"xform/xformerr"
)

// EvalModule evaluates a parsed module against an input document, returning
// the output sequence its body expression (if any) produces. Module-level
// vars are evaluated in declaration order, each one visible to the next.
func EvalModule(m *ast.Module, doc *node.Node) (object.Sequence, error) {
	env := object.NewGlobal(doc, m).WithContext(&object.NodeItem{Node: doc})

	for _, v := range m.Vars {
		val, err := Eval(v.Value, env)
		if err != nil {
			return nil, err
		}
		env = env.WithVar(v.Name, val)
	}

	if m.Expr == nil {
		return object.Sequence{}, nil
	}
	return Eval(m.Expr, env)
}

// Eval evaluates expr against env, returning the sequence it produces.
func Eval(expr ast.Expr, env *object.Environment) (object.Sequence, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return object.Single(&object.Number{Value: e.Value}), nil
	case *ast.StringLiteral:
		return object.Single(&object.String{Value: e.Value}), nil
	case *ast.BoolLiteral:
		return object.Single(&object.Boolean{Value: e.Value}), nil
	case *ast.NullLiteral:
		return object.Single(&object.Null{}), nil

	case *ast.VarRef:
		return evalVarRef(e, env)

	case *ast.IfExpr:
		cond, err := Eval(e.Cond, env)
		if err != nil {
			return nil, err
		}
		if ToBoolean(cond) {
			return Eval(e.Then, env)
		}
		return Eval(e.Else, env)

	case *ast.LetExpr:
		val, err := Eval(e.Value, env)
		if err != nil {
			return nil, err
		}
		return Eval(e.Body, env.WithVar(e.Name, val))

	case *ast.ForExpr:
		return evalFor(e, env)

	case *ast.MatchExpr:
		return evalMatch(e, env)

	case *ast.FuncCall:
		args := make([]object.Sequence, len(e.Args))
		for i, a := range e.Args {
			v, err := Eval(a, env)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return CallFunction(e.Name, args, env)

	case *ast.UnaryOp:
		return evalUnary(e, env)

	case *ast.BinaryOp:
		return evalBinary(e, env)

	case *ast.PathExpr:
		return path.Eval(e, env, Eval)

	case *ast.Constructor:
		n, err := evalConstructor(e, env)
		if err != nil {
			return nil, err
		}
		return object.Single(&object.NodeItem{Node: n}), nil

	case *ast.TextConstructor:
		val, err := Eval(e.Value, env)
		if err != nil {
			return nil, err
		}
		return object.Single(&object.NodeItem{Node: node.NewText(ToString(val))}), nil

	case *ast.CharData:
		return object.Single(&object.String{Value: e.Value}), nil

	case *ast.Interp:
		return Eval(e.Value, env)
	}

	return nil, xformerr.New(xformerr.Parse, "unhandled expression type %T", expr)
}

// evalVarRef resolves a name as: a bound variable, then a module function
// (producing a FuncRef for higher-order use), then — uniquely to XForm's
// unprefixed-path grammar — a child-element axis shorthand from the
// context item.
func evalVarRef(e *ast.VarRef, env *object.Environment) (object.Sequence, error) {
	if val, ok := env.Get(e.Name); ok {
		return val, nil
	}
	if _, ok := env.Function(e.Name); ok {
		return object.Single(&object.FuncRef{Name: e.Name}), nil
	}
	if item, ok := env.ContextItem(); ok {
		if ni, ok := item.(*object.NodeItem); ok {
			n := ni.Node
			if n.Kind == node.Element || n.Kind == node.Document {
				var out object.Sequence
				for _, c := range n.Children {
					if c.Kind == node.Element && c.Name == e.Name {
						out = append(out, &object.NodeItem{Node: c})
					}
				}
				return out, nil
			}
		}
	}
	return object.Sequence{}, nil
}

func evalFor(e *ast.ForExpr, env *object.Environment) (object.Sequence, error) {
	seq, err := Eval(e.Seq, env)
	if err != nil {
		return nil, err
	}
	total := float64(len(seq))
	var out object.Sequence
	for idx, item := range seq {
		loopEnv := env.WithVar(e.Name, object.Single(item)).WithPositional(item, float64(idx+1), total)
		if e.Where != nil {
			cond, err := Eval(e.Where, loopEnv)
			if err != nil {
				return nil, err
			}
			if !ToBoolean(cond) {
				continue
			}
		}
		res, err := Eval(e.Body, loopEnv)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

func evalMatch(e *ast.MatchExpr, env *object.Environment) (object.Sequence, error) {
	targets, err := Eval(e.Target, env)
	if err != nil {
		return nil, err
	}
	var out object.Sequence
	for _, target := range targets {
		matched := false
		for _, c := range e.Cases {
			bindings, ok := MatchPattern(c.Pattern, target)
			if !ok {
				continue
			}
			matched = true
			caseEnv := env.WithContext(target)
			for name, val := range bindings {
				caseEnv = caseEnv.WithVar(name, val)
			}
			res, err := Eval(c.Body, caseEnv)
			if err != nil {
				return nil, err
			}
			out = append(out, res...)
			break
		}
		if matched {
			continue
		}
		if e.Default == nil {
			return nil, xformerr.New(xformerr.NoMatchingCase, "no matching case")
		}
		res, err := Eval(e.Default, env.WithContext(target))
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

func evalUnary(e *ast.UnaryOp, env *object.Environment) (object.Sequence, error) {
	val, err := Eval(e.Expr, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "-":
		n, err := ToNumber(val)
		if err != nil {
			return nil, err
		}
		return object.Single(&object.Number{Value: -n}), nil
	case "not":
		return object.Single(&object.Boolean{Value: !ToBoolean(val)}), nil
	}
	return nil, xformerr.New(xformerr.BadOperator, "unknown unary operator %q", e.Op)
}

func evalBinary(e *ast.BinaryOp, env *object.Environment) (object.Sequence, error) {
	switch e.Op {
	case "and":
		l, err := Eval(e.Left, env)
		if err != nil {
			return nil, err
		}
		if !ToBoolean(l) {
			return object.Single(&object.Boolean{Value: false}), nil
		}
		r, err := Eval(e.Right, env)
		if err != nil {
			return nil, err
		}
		return object.Single(&object.Boolean{Value: ToBoolean(r)}), nil

	case "or":
		l, err := Eval(e.Left, env)
		if err != nil {
			return nil, err
		}
		if ToBoolean(l) {
			return object.Single(&object.Boolean{Value: true}), nil
		}
		r, err := Eval(e.Right, env)
		if err != nil {
			return nil, err
		}
		return object.Single(&object.Boolean{Value: ToBoolean(r)}), nil
	}

	l, err := Eval(e.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := Eval(e.Right, env)
	if err != nil {
		return nil, err
	}
	item, err := evalOperator(e.Op, l, r)
	if err != nil {
		return nil, err
	}
	return object.Single(item), nil
}

func evalOperator(op string, l, r object.Sequence) (object.Item, error) {
	switch op {
	case "=":
		return &object.Boolean{Value: ToString(l) == ToString(r)}, nil
	case "!=":
		return &object.Boolean{Value: ToString(l) != ToString(r)}, nil
	}

	if op == "<" || op == "<=" || op == ">" || op == ">=" {
		ln, err := ToNumber(l)
		if err != nil {
			return nil, err
		}
		rn, err := ToNumber(r)
		if err != nil {
			return nil, err
		}
		var b bool
		switch op {
		case "<":
			b = ln < rn
		case "<=":
			b = ln <= rn
		case ">":
			b = ln > rn
		case ">=":
			b = ln >= rn
		}
		return &object.Boolean{Value: b}, nil
	}

	ln, err := ToNumber(l)
	if err != nil {
		return nil, err
	}
	rn, err := ToNumber(r)
	if err != nil {
		return nil, err
	}
	switch op {
	case "+":
		return &object.Number{Value: ln + rn}, nil
	case "-":
		return &object.Number{Value: ln - rn}, nil
	case "*":
		return &object.Number{Value: ln * rn}, nil
	case "div":
		return &object.Number{Value: ln / rn}, nil
	case "mod":
		return &object.Number{Value: floatMod(ln, rn)}, nil
	}
	return nil, xformerr.New(xformerr.BadOperator, "unknown operator %q", op)
}

func floatMod(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	m := a - b*float64(int64(a/b))
	return m
}

func evalConstructor(c *ast.Constructor, env *object.Environment) (*node.Node, error) {
	attrs := make([]node.Attr, len(c.Attrs))
	for i, a := range c.Attrs {
		val, err := Eval(a.Value, env)
		if err != nil {
			return nil, err
		}
		attrs[i] = node.Attr{Name: a.Name, Value: ToString(val)}
	}

	var children []*node.Node
	for _, content := range c.Contents {
		if cd, ok := content.(*ast.CharData); ok {
			if strings.TrimSpace(cd.Value) != "" {
				children = append(children, node.NewText(cd.Value))
			}
			continue
		}
		seq, err := Eval(content, env)
		if err != nil {
			return nil, err
		}
		for _, item := range seq {
			if ni, ok := item.(*object.NodeItem); ok {
				children = append(children, node.DeepCopy(ni.Node))
			} else {
				children = append(children, node.NewText(ToString(object.Single(item))))
			}
		}
	}

	return node.NewElement(c.Name, attrs, children), nil
}

// ---------------------------------------------------------------------------
// Coercion lattice, shared by arithmetic, comparison, and
// boolean contexts.
// ---------------------------------------------------------------------------

// ToBoolean applies the effective-boolean-value rule: empty is false, any
// node present is true, else the first item's own truthiness decides.
func ToBoolean(seq object.Sequence) bool {
	if len(seq) == 0 {
		return false
	}
	for _, it := range seq {
		if _, ok := it.(*object.NodeItem); ok {
			return true
		}
	}
	switch v := seq[0].(type) {
	case *object.Boolean:
		return v.Value
	case *object.Number:
		return v.Value != 0
	case *object.String:
		return v.Value != ""
	case *object.Null:
		return false
	default:
		return true
	}
}

// ToString renders a sequence's first item as text; a Node's string is its
// computed string-value.
func ToString(seq object.Sequence) string {
	first, ok := seq.First()
	if !ok {
		return ""
	}
	switch v := first.(type) {
	case *object.NodeItem:
		return v.Node.StringValue()
	case *object.Null:
		return ""
	case *object.Boolean:
		if v.Value {
			return "true"
		}
		return "false"
	case *object.Number:
		return formatNumber(v.Value)
	case *object.String:
		return v.Value
	case *object.Map:
		return "[map]"
	case *object.FuncRef:
		return v.Name
	}
	return ""
}

// ToNumber converts a sequence's first item to a float64, failing with
// Conversion if a string or node's string-value isn't a valid number.
func ToNumber(seq object.Sequence) (float64, error) {
	first, ok := seq.First()
	if !ok {
		return 0, nil
	}
	switch v := first.(type) {
	case *object.Number:
		return v.Value, nil
	case *object.Boolean:
		if v.Value {
			return 1, nil
		}
		return 0, nil
	case *object.Null:
		return 0, nil
	case *object.String:
		return parseStrictFloat(v.Value)
	case *object.NodeItem:
		return parseStrictFloat(v.Node.StringValue())
	}
	return 0, xformerr.New(xformerr.Conversion, "cannot convert to number")
}

func parseStrictFloat(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, xformerr.New(xformerr.Conversion, "cannot convert %q to number", s)
	}
	return n, nil
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) && n < 1e15 && n > -1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
