// ==============================================================================================
// FILE: parser/parser.go
// ==============================================================================================
// PACKAGE: parser
// PURPOSE: Recursive-descent parser for the XForm module and expression
//          grammar. Uses a single lookahead slot rather than a cur/peek
//          pair — XForm's grammar never needs more than one token of
//          lookahead, and a single slot is what makes the element-
//          constructor sub-grammar's raw-character rewind (see
//          constructor.go) tractable: resyncAt reloads that one slot from
//          an arbitrary lexer cursor position.
// ==============================================================================================

package parser

import (
	"strconv"

	"xform/ast"
	"xform/lexer"
	"xform/token"
	"xform/xformerr"
)

// Parser turns a token stream into an *ast.Module. Every parse method
// returns an error the moment it finds malformed input: exactly one AST
// or one Parse failure, never partial error accumulation.
type Parser struct {
	l   *lexer.Lexer
	tok token.Token // one token of lookahead, not yet consumed
}

// New builds a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.tok = p.l.NextToken()
	return p
}

func (p *Parser) peek() token.Token { return p.tok }

func (p *Parser) advance() token.Token {
	t := p.tok
	p.tok = p.l.NextToken()
	return t
}

// resyncAt moves the lexer's raw cursor and reloads the one-token lookahead
// from there — the equivalent of the reference parser's "invalidate the
// lexer buffer" step after leaving or re-entering character-mode scanning.
func (p *Parser) resyncAt(pos int) {
	p.l.SeekTo(pos)
	p.tok = p.l.NextToken()
}

func (p *Parser) isKeyword(kw string) bool {
	return p.tok.Kind == token.KEYWORD && p.tok.Literal == kw
}

func (p *Parser) isOp(op string) bool {
	return p.tok.Kind == token.OPERATOR && p.tok.Literal == op
}

func (p *Parser) isPunct(c string) bool {
	return p.tok.Kind == token.PUNCT && p.tok.Literal == c
}

func parseErr(t token.Token, format string, args ...interface{}) error {
	return xformerr.At(xformerr.Parse, t.Pos, format, args...)
}

func (p *Parser) expectKeyword(kw string) (token.Token, error) {
	if p.isKeyword(kw) {
		return p.advance(), nil
	}
	return p.tok, parseErr(p.tok, "expected keyword %q, got %s %q", kw, p.tok.Kind, p.tok.Literal)
}

func (p *Parser) expectOp(op string) (token.Token, error) {
	if p.isOp(op) {
		return p.advance(), nil
	}
	return p.tok, parseErr(p.tok, "expected operator %q, got %s %q", op, p.tok.Kind, p.tok.Literal)
}

func (p *Parser) expectPunct(c string) (token.Token, error) {
	if p.isPunct(c) {
		return p.advance(), nil
	}
	return p.tok, parseErr(p.tok, "expected %q, got %s %q", c, p.tok.Kind, p.tok.Literal)
}

func (p *Parser) expectIdent() (token.Token, error) {
	if p.tok.Kind == token.IDENT {
		return p.advance(), nil
	}
	return p.tok, parseErr(p.tok, "expected identifier, got %s %q", p.tok.Kind, p.tok.Literal)
}

func (p *Parser) expectSlash(s string) (token.Token, error) {
	if p.tok.Kind == token.SLASH && p.tok.Literal == s {
		return p.advance(), nil
	}
	return p.tok, parseErr(p.tok, "expected %q, got %s %q", s, p.tok.Kind, p.tok.Literal)
}

// ParseModule is the entry point: parses an optional version prolog,
// declarations in any order, and an optional trailing body expression.
func ParseModule(l *lexer.Lexer) (*ast.Module, error) {
	p := New(l)
	return p.parseModule()
}

func (p *Parser) parseModule() (*ast.Module, error) {
	m := &ast.Module{
		Namespaces: make(map[string]string),
		Functions:  make(map[string]*ast.FunctionDef),
		Rules:      make(map[string][]*ast.RuleDef),
	}

	if p.isKeyword("xform") {
		p.advance()
		if _, err := p.expectKeyword("version"); err != nil {
			return nil, err
		}
		verTok, err := p.expectToken(token.STRING)
		if err != nil {
			return nil, err
		}
		if verTok.Literal != "2.0" {
			return nil, xformerr.At(xformerr.UnsupportedVersion, verTok.Pos, "unsupported xform version %q", verTok.Literal)
		}
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
	}

	for {
		switch {
		case p.isKeyword("ns"):
			if err := p.parseNS(m); err != nil {
				return nil, err
			}
		case p.isKeyword("import"):
			if err := p.parseImport(m); err != nil {
				return nil, err
			}
		case p.isKeyword("var"):
			name, expr, err := p.parseVar()
			if err != nil {
				return nil, err
			}
			m.Vars = append(m.Vars, ast.VarDecl{Name: name, Value: expr})
		case p.isKeyword("def"):
			name, fn, err := p.parseDef()
			if err != nil {
				return nil, err
			}
			m.Functions[name] = fn
		case p.isKeyword("rule"):
			name, rd, err := p.parseRule()
			if err != nil {
				return nil, err
			}
			m.Rules[name] = append(m.Rules[name], rd)
		default:
			goto declsDone
		}
	}
declsDone:

	if p.tok.Kind != token.EOF {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		m.Expr = expr
	}

	return m, nil
}

func (p *Parser) expectToken(kind token.Kind) (token.Token, error) {
	if p.tok.Kind == kind {
		return p.advance(), nil
	}
	return p.tok, parseErr(p.tok, "expected %s, got %s %q", kind, p.tok.Kind, p.tok.Literal)
}

func (p *Parser) parseNS(m *ast.Module) error {
	if _, err := p.expectKeyword("ns"); err != nil {
		return err
	}
	prefix, err := p.expectIdent()
	if err != nil {
		return err
	}
	if _, err := p.expectOp("="); err != nil {
		return err
	}
	uri, err := p.expectToken(token.STRING)
	if err != nil {
		return err
	}
	if _, err := p.expectPunct(";"); err != nil {
		return err
	}
	m.Namespaces[prefix.Literal] = uri.Literal
	return nil
}

func (p *Parser) parseImport(m *ast.Module) error {
	if _, err := p.expectKeyword("import"); err != nil {
		return err
	}
	iri, err := p.expectToken(token.STRING)
	if err != nil {
		return err
	}
	alias := ""
	if p.isKeyword("as") {
		p.advance()
		aliasTok, err := p.expectIdent()
		if err != nil {
			return err
		}
		alias = aliasTok.Literal
	}
	if _, err := p.expectPunct(";"); err != nil {
		return err
	}
	m.Imports = append(m.Imports, ast.Import{IRI: iri.Literal, Alias: alias})
	return nil
}

func (p *Parser) parseVar() (string, ast.Expr, error) {
	if _, err := p.expectKeyword("var"); err != nil {
		return "", nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expectOp(":="); err != nil {
		return "", nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expectPunct(";"); err != nil {
		return "", nil, err
	}
	return name.Literal, expr, nil
}

func (p *Parser) parseDef() (string, *ast.FunctionDef, error) {
	if _, err := p.expectKeyword("def"); err != nil {
		return "", nil, err
	}
	name, err := p.parseQName()
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expectPunct("("); err != nil {
		return "", nil, err
	}
	var params []ast.Param
	if !p.isPunct(")") {
		param, err := p.parseParam()
		if err != nil {
			return "", nil, err
		}
		params = append(params, param)
		for p.isPunct(",") {
			p.advance()
			param, err := p.parseParam()
			if err != nil {
				return "", nil, err
			}
			params = append(params, param)
		}
	}
	if _, err := p.expectPunct(")"); err != nil {
		return "", nil, err
	}
	if _, err := p.expectOp(":="); err != nil {
		return "", nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expectPunct(";"); err != nil {
		return "", nil, err
	}
	return name, &ast.FunctionDef{Params: params, Body: body}, nil
}

func (p *Parser) parseParam() (ast.Param, error) {
	nameTok, err := p.expectIdent()
	if err != nil {
		return ast.Param{}, err
	}
	param := ast.Param{Name: nameTok.Literal}
	if p.isPunct(":") {
		p.advance()
		tr, err := p.parseTypeRef()
		if err != nil {
			return ast.Param{}, err
		}
		param.TypeRef = tr
	}
	if p.isOp(":=") {
		p.advance()
		def, err := p.parseExpr()
		if err != nil {
			return ast.Param{}, err
		}
		param.Default = def
	}
	return param, nil
}

var builtinTypeRefs = map[string]bool{
	"string": true, "number": true, "boolean": true, "null": true, "map": true,
}

func (p *Parser) parseTypeRef() (string, error) {
	if p.tok.Kind == token.IDENT && builtinTypeRefs[p.tok.Literal] {
		return p.advance().Literal, nil
	}
	return p.parseQName()
}

func (p *Parser) parseRule() (string, *ast.RuleDef, error) {
	if _, err := p.expectKeyword("rule"); err != nil {
		return "", nil, err
	}
	name, err := p.parseQName()
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expectKeyword("match"); err != nil {
		return "", nil, err
	}
	pattern, err := p.parsePattern()
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expectOp(":="); err != nil {
		return "", nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expectPunct(";"); err != nil {
		return "", nil, err
	}
	return name, &ast.RuleDef{Pattern: pattern, Body: body}, nil
}

func (p *Parser) parseQName() (string, error) {
	t, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	return t.Literal, nil
}

// parseNumber converts a NUMBER token's literal text to a float64.
func parseNumber(lit string, pos int) (float64, error) {
	n, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, xformerr.At(xformerr.Parse, pos, "bad number literal %q", lit)
	}
	return n, nil
}
