// ==============================================================================================
// FILE: parser/path.go
// ==============================================================================================
// PACKAGE: parser
// PURPOSE: The path expression grammar: start (./ /  .// //
//          or a variable), then a chain of axis steps with node tests and
//          bracketed predicates. Ported directly from the reference
//          parser's parse_path/parse_step_test/parse_predicates.
// ==============================================================================================

package parser

import (
	"xform/ast"
	"xform/token"
)

// parsePath parses a path expression. If start is non-nil, the path-start
// token has already been consumed (a variable-rooted path, `$x/...` in
// spirit, spelled `x/...` here since XForm has no sigil).
func (p *Parser) parsePath(start *ast.PathStart) (ast.Expr, error) {
	var pstart ast.PathStart
	if start != nil {
		pstart = *start
	} else {
		t := p.advance()
		switch {
		case t.Kind == token.DOT && t.Literal == ".//":
			pstart = ast.PathStart{Kind: ast.PathDesc}
		case t.Kind == token.DOT:
			pstart = ast.PathStart{Kind: ast.PathContext}
		case t.Kind == token.SLASH && t.Literal == "//":
			pstart = ast.PathStart{Kind: ast.PathDescRoot}
		case t.Kind == token.SLASH:
			pstart = ast.PathStart{Kind: ast.PathRoot}
		default:
			return nil, parseErr(t, "invalid path start")
		}
	}

	var steps []ast.PathStep

	// A .// or // start folds its immediate name into a descendant-or-self
	// step (there is no separate '/' to introduce it).
	if pstart.Kind == ast.PathDesc || pstart.Kind == ast.PathDescRoot {
		if p.tok.Kind == token.IDENT || p.isOp("*") {
			test, err := p.parseStepTest()
			if err != nil {
				return nil, err
			}
			preds, err := p.parsePredicates()
			if err != nil {
				return nil, err
			}
			steps = append(steps, ast.PathStep{Axis: ast.AxisDescOrSelf, Test: test, Predicates: preds})
		}
	}

	// A / start folds its immediate name into a child step.
	if pstart.Kind == ast.PathRoot {
		switch {
		case p.tok.Kind == token.AT:
			p.advance()
			name, err := p.parseQName()
			if err != nil {
				return nil, err
			}
			steps = append(steps, ast.PathStep{Axis: ast.AxisAttr, Test: ast.NamedTest(name)})
		case p.tok.Kind == token.IDENT || p.isOp("*"):
			test, err := p.parseStepTest()
			if err != nil {
				return nil, err
			}
			preds, err := p.parsePredicates()
			if err != nil {
				return nil, err
			}
			steps = append(steps, ast.PathStep{Axis: ast.AxisChild, Test: test, Predicates: preds})
		}
	}

	for {
		switch {
		case p.tok.Kind == token.SLASH:
			axis := ast.AxisChild
			if p.tok.Literal == "//" {
				axis = ast.AxisDesc
			}
			p.advance()
			if p.tok.Kind == token.AT {
				p.advance()
				name, err := p.parseQName()
				if err != nil {
					return nil, err
				}
				steps = append(steps, ast.PathStep{Axis: ast.AxisAttr, Test: ast.NamedTest(name)})
				continue
			}
			test, err := p.parseStepTest()
			if err != nil {
				return nil, err
			}
			preds, err := p.parsePredicates()
			if err != nil {
				return nil, err
			}
			steps = append(steps, ast.PathStep{Axis: axis, Test: test, Predicates: preds})
			continue

		case p.tok.Kind == token.DOT && p.tok.Literal == ".":
			p.advance()
			if p.tok.Kind == token.AT {
				p.advance()
				name, err := p.parseQName()
				if err != nil {
					return nil, err
				}
				steps = append(steps, ast.PathStep{Axis: ast.AxisAttr, Test: ast.NamedTest(name)})
			} else {
				steps = append(steps, ast.PathStep{Axis: ast.AxisSelf, Test: ast.NodeTest()})
			}
			continue

		case p.tok.Kind == token.DOT && p.tok.Literal == "..":
			p.advance()
			steps = append(steps, ast.PathStep{Axis: ast.AxisParent, Test: ast.NodeTest()})
			continue

		case p.tok.Kind == token.AT:
			p.advance()
			name, err := p.parseQName()
			if err != nil {
				return nil, err
			}
			steps = append(steps, ast.PathStep{Axis: ast.AxisAttr, Test: ast.NamedTest(name)})
			continue
		}
		break
	}

	return &ast.PathExpr{Start: pstart, Steps: steps}, nil
}

func (p *Parser) parseStepTest() (ast.StepTest, error) {
	if p.isOp("*") {
		p.advance()
		return ast.WildcardTest(), nil
	}
	if p.tok.Kind == token.IDENT && isTestKeyword(p.tok.Literal) {
		name := p.advance().Literal
		if _, err := p.expectPunct("("); err != nil {
			return ast.StepTest{}, err
		}
		if _, err := p.expectPunct(")"); err != nil {
			return ast.StepTest{}, err
		}
		switch name {
		case "text":
			return ast.TextTest(), nil
		case "node":
			return ast.NodeTest(), nil
		case "comment":
			return ast.StepTest{Kind: ast.TestComment}, nil
		default: // "pi"
			return ast.StepTest{Kind: ast.TestPI}, nil
		}
	}
	if p.tok.Kind == token.IDENT {
		name, err := p.parseQName()
		if err != nil {
			return ast.StepTest{}, err
		}
		return ast.NamedTest(name), nil
	}
	return ast.StepTest{}, parseErr(p.tok, "invalid step test")
}

func isTestKeyword(s string) bool {
	return s == "text" || s == "node" || s == "comment" || s == "pi"
}

func (p *Parser) parsePredicates() ([]ast.Expr, error) {
	var preds []ast.Expr
	for p.isPunct("[") {
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct("]"); err != nil {
			return nil, err
		}
		preds = append(preds, e)
	}
	return preds, nil
}
