// ==============================================================================================
// FILE: path/path.go
// ==============================================================================================
// PACKAGE: path
// PURPOSE: The path engine: axis expansion, node-test
//          filtering, and predicate evaluation with positional context.
//          Grounded on the reference's eval_path/apply_step/matches_test,
//          except for predicate positional semantics (see evalPredicates),
//          evaluated more precisely here than the reference
//          implements: position/last are computed fresh over the
//          node-test-filtered candidate list for the step being evaluated,
//          held fixed across that candidate's predicates, and a numeric
//          predicate result is a position-equality test rather than a
//          truthy/falsy one.
//
//          Evaluating a predicate requires evaluating an arbitrary XForm
//          expression, which is evaluator's job — and the evaluator needs
//          this package for PathExpr. To avoid an import cycle, the caller
//          injects an Evaluator callback rather than this package
//          importing evaluator.
// ==============================================================================================

package path

import (
	"xform/ast"
	"xform/node"
	"xform/object"
)

// Evaluator evaluates an arbitrary expression (a predicate body) in env.
// Supplied by package evaluator to break the path<->evaluator import cycle.
type Evaluator func(expr ast.Expr, env *object.Environment) (object.Sequence, error)

// Eval evaluates a path expression to a sequence of items (always NodeItems
// in practice, since only nodes carry axes to walk).
func Eval(pe *ast.PathExpr, env *object.Environment, evalExpr Evaluator) (object.Sequence, error) {
	var extraSteps []ast.PathStep

	var base object.Sequence
	switch pe.Start.Kind {
	case ast.PathContext, ast.PathDesc:
		if item, ok := env.ContextItem(); ok {
			base = object.Single(item)
		}
	case ast.PathRoot, ast.PathDescRoot:
		base = object.Single(&object.NodeItem{Node: env.Root()})
	case ast.PathVar:
		if val, ok := env.Get(pe.Start.Name); ok {
			base = val
		} else {
			extraSteps = append(extraSteps, ast.PathStep{
				Axis: ast.AxisChild,
				Test: ast.NamedTest(pe.Start.Name),
			})
			if item, ok := env.ContextItem(); ok {
				base = object.Single(item)
			}
		}
	}

	allSteps := append(append([]ast.PathStep{}, extraSteps...), pe.Steps...)

	current := base
	for _, step := range allSteps {
		next, err := applyStep(current, step, env, evalExpr)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

func applyStep(items object.Sequence, step ast.PathStep, env *object.Environment, evalExpr Evaluator) (object.Sequence, error) {
	var out object.Sequence
	for _, it := range items {
		ni, ok := it.(*object.NodeItem)
		if !ok {
			continue
		}

		candidates := axisCandidates(ni.Node, step.Axis)

		var matched []*node.Node
		for _, c := range candidates {
			if matchesTest(c, step.Test) {
				matched = append(matched, c)
			}
		}

		survivors, err := evalPredicates(matched, step.Predicates, env, evalExpr)
		if err != nil {
			return nil, err
		}
		for _, c := range survivors {
			out = append(out, &object.NodeItem{Node: c})
		}
	}
	return out, nil
}

// evalPredicates implements predicate semantics exactly:
// position/last are computed once over the full test-filtered candidate
// list and held fixed while a candidate's own predicates are tried in
// order, short-circuiting on the first predicate that fails.
func evalPredicates(candidates []*node.Node, preds []ast.Expr, env *object.Environment, evalExpr Evaluator) ([]*node.Node, error) {
	if len(preds) == 0 {
		return candidates, nil
	}
	last := float64(len(candidates))
	var out []*node.Node
	for idx, c := range candidates {
		position := float64(idx + 1)
		predEnv := env.WithPositional(&object.NodeItem{Node: c}, position, last)
		ok := true
		for _, pred := range preds {
			res, err := evalExpr(pred, predEnv)
			if err != nil {
				return nil, err
			}
			if !predicateSatisfied(res, position) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func predicateSatisfied(seq object.Sequence, position float64) bool {
	if first, ok := seq.First(); ok {
		if n, ok := first.(*object.Number); ok {
			return n.Value == position
		}
	}
	return toBoolean(seq)
}

// toBoolean is the predicate-time boolean coercion, kept here to avoid
// importing evaluator for one predicate. It differs from evaluator.ToBoolean
// for sequences of several non-node items: any truthy item makes it true,
// where evaluator.ToBoolean decides on the first item alone.
func toBoolean(seq object.Sequence) bool {
	if len(seq) == 0 {
		return false
	}
	for _, it := range seq {
		if _, ok := it.(*object.NodeItem); ok {
			return true
		}
	}
	for _, it := range seq {
		switch v := it.(type) {
		case *object.Boolean:
			if v.Value {
				return true
			}
		case *object.Number:
			if v.Value != 0 {
				return true
			}
		case *object.String:
			if v.Value != "" {
				return true
			}
		case *object.Null:
			// always false
		default:
			return true
		}
	}
	return false
}

func axisCandidates(n *node.Node, axis ast.PathAxis) []*node.Node {
	switch axis {
	case ast.AxisSelf:
		return []*node.Node{n}
	case ast.AxisParent:
		return nil // parents are never tracked; the axis always yields empty
	case ast.AxisDescOrSelf:
		out := []*node.Node{n}
		return append(out, node.Descendants(n)...)
	case ast.AxisDesc:
		return node.Descendants(n)
	case ast.AxisAttr:
		if n.Kind != node.Element {
			return nil
		}
		out := make([]*node.Node, len(n.Attrs))
		for i, a := range n.Attrs {
			out[i] = node.NewAttr(a.Name, a.Value)
		}
		return out
	case ast.AxisChild:
		if n.Kind == node.Element || n.Kind == node.Document {
			return n.Children
		}
		return nil
	}
	return nil
}

func matchesTest(n *node.Node, test ast.StepTest) bool {
	switch test.Kind {
	case ast.TestNode:
		return true
	case ast.TestWildcard:
		return n.Kind == node.Element
	case ast.TestText:
		return n.Kind == node.Text
	case ast.TestComment:
		return n.Kind == node.Comment
	case ast.TestPI:
		return n.Kind == node.PI
	case ast.TestName:
		return n.Name == test.Name
	}
	return false
}
