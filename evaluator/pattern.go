// ==============================================================================================
// FILE: evaluator/pattern.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: Pattern matching for match-case arms and rule dispatch, grounded
//          on the reference implementation's match_pattern.
// ==============================================================================================

package evaluator

import (
	"xform/ast"
	"xform/node"
	"xform/object"
)

// MatchPattern reports whether pat matches item, and if so, the variable
// bindings it introduces (an ElementPattern with a {var} binds the
// matched element's children).
func MatchPattern(pat ast.Pattern, item object.Item) (map[string]object.Sequence, bool) {
	switch p := pat.(type) {
	case ast.WildcardPattern:
		return map[string]object.Sequence{}, true

	case ast.AttributePattern:
		ni, ok := item.(*object.NodeItem)
		if !ok || ni.Node.Kind != node.Attribute || ni.Node.Name != p.Name {
			return nil, false
		}
		return map[string]object.Sequence{}, true

	case ast.TypedPattern:
		ni, ok := item.(*object.NodeItem)
		if !ok {
			return nil, false
		}
		var matches bool
		switch p.Kind {
		case "node":
			matches = true
		case "text":
			matches = ni.Node.Kind == node.Text
		case "comment":
			matches = ni.Node.Kind == node.Comment
		}
		if !matches {
			return nil, false
		}
		return map[string]object.Sequence{}, true

	case *ast.ElementPattern:
		ni, ok := item.(*object.NodeItem)
		if !ok || ni.Node.Kind != node.Element || ni.Node.Name != p.Name {
			return nil, false
		}
		bindings := map[string]object.Sequence{}
		if p.Var != "" {
			var seq object.Sequence
			for _, c := range ni.Node.Children {
				seq = append(seq, &object.NodeItem{Node: c})
			}
			bindings[p.Var] = seq
			return bindings, true
		}
		if p.Child != nil {
			for _, c := range ni.Node.Children {
				if b, ok := MatchPattern(p.Child, &object.NodeItem{Node: c}); ok {
					for k, v := range b {
						bindings[k] = v
					}
					return bindings, true
				}
			}
			return nil, false
		}
		return bindings, true
	}
	return nil, false
}
