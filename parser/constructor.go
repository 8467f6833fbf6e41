// ==============================================================================================
// FILE: parser/constructor.go
// ==============================================================================================
// PACKAGE: parser
// PURPOSE: The element-constructor sub-grammar: once past
//          an open tag's '>', element content is scanned character-by-
//          character rather than token-by-token, so a literal '<' can only
//          mean "nested constructor or end tag" and a literal '{' can only
//          mean "interpolation hole" — ordinary XForm tokenization would
//          mis-scan stray markup characters. Every transition between
//          token-mode parsing (attributes, interpolated expressions) and
//          raw character-mode scanning resyncs the parser's one-token
//          lookahead via resyncAt, since (unlike the reference lexer's lazy
//          single-slot cache) this Lexer's NextToken always eagerly scans
//          one token ahead of where raw scanning needs to resume.
// ==============================================================================================

package parser

import (
	"strings"

	"xform/ast"
	"xform/token"
)

// tokEnd returns the raw rune position immediately after t.
func tokEnd(t token.Token) int { return t.Pos + len([]rune(t.Literal)) }

func (p *Parser) parseConstructor() (ast.Expr, error) {
	if _, err := p.expectOp("<"); err != nil {
		return nil, err
	}
	name, err := p.parseQName()
	if err != nil {
		return nil, err
	}

	var attrs []ast.Attr
	for {
		switch {
		case p.isOp(">"):
			gt := p.advance()
			p.resyncAt(tokEnd(gt))
			return p.parseConstructorContent(name, attrs)

		case p.tok.Kind == token.SLASH && p.tok.Literal == "/":
			p.advance()
			if _, err := p.expectOp(">"); err != nil {
				return nil, err
			}
			return &ast.Constructor{Name: name, Attrs: attrs}, nil

		default:
			aname, err := p.parseQName()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectOp("="); err != nil {
				return nil, err
			}
			if _, err := p.expectPunct("{"); err != nil {
				return nil, err
			}
			aexpr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct("}"); err != nil {
				return nil, err
			}
			attrs = append(attrs, ast.Attr{Name: aname, Value: aexpr})
		}
	}
}

// parseConstructorContent scans raw characters from the lexer's current
// cursor until it finds this element's matching end tag, building up the
// content list: nested constructors, text{...} constructors, {...}
// interpolations, and literal (non-whitespace-only) character data.
func (p *Parser) parseConstructorContent(name string, attrs []ast.Attr) (ast.Expr, error) {
	var contents []ast.Expr

	for {
		pos := p.l.Pos()
		if pos >= p.l.Len() {
			return nil, parseErr(token.Token{Pos: pos}, "unterminated constructor <%s>", name)
		}

		if r0, ok := p.l.RuneAt(pos); ok && r0 == '<' {
			if r1, ok := p.l.RuneAt(pos + 1); ok && r1 == '/' {
				endName, newPos, err := p.readEndTag(pos)
				if err != nil {
					return nil, err
				}
				if endName != name {
					return nil, parseErr(token.Token{Pos: pos}, "mismatched end tag: expected %s, got %s", name, endName)
				}
				p.resyncAt(newPos)
				return &ast.Constructor{Name: name, Attrs: attrs, Contents: contents}, nil
			}
		}

		if p.l.HasPrefixAt(pos, "text{") {
			p.resyncAt(pos + len("text"))
			if _, err := p.expectPunct("{"); err != nil {
				return nil, err
			}
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			closeBrace, err := p.expectPunct("}")
			if err != nil {
				return nil, err
			}
			p.resyncAt(tokEnd(closeBrace))
			contents = append(contents, &ast.TextConstructor{Value: e})
			continue
		}

		r, _ := p.l.RuneAt(pos)
		if r == '<' {
			p.resyncAt(pos)
			c, err := p.parseConstructor()
			if err != nil {
				return nil, err
			}
			contents = append(contents, c)
			continue
		}
		if r == '{' {
			p.resyncAt(pos + 1)
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			closeBrace, err := p.expectPunct("}")
			if err != nil {
				return nil, err
			}
			p.resyncAt(tokEnd(closeBrace))
			contents = append(contents, &ast.Interp{Value: e})
			continue
		}

		cd, newPos := p.readCharData(pos)
		p.l.SeekTo(newPos)
		if strings.TrimSpace(cd) != "" {
			contents = append(contents, &ast.CharData{Value: cd})
		}
	}
}

// readCharData consumes raw characters up to (not including) the next '<'
// or '{', returning the text and the position just past it.
func (p *Parser) readCharData(pos int) (string, int) {
	start := pos
	for {
		r, ok := p.l.RuneAt(pos)
		if !ok || r == '<' || r == '{' {
			break
		}
		pos++
	}
	return p.l.Slice(start, pos), pos
}

// readEndTag parses a `</Name>` starting at pos (which points at '<'),
// returning the name and the position just past the closing '>'.
func (p *Parser) readEndTag(pos int) (string, int, error) {
	if !p.l.HasPrefixAt(pos, "</") {
		return "", 0, parseErr(token.Token{Pos: pos}, "expected end tag")
	}
	pos += 2
	start := pos
	for {
		r, ok := p.l.RuneAt(pos)
		if !ok || !isNameRune(r) {
			break
		}
		pos++
	}
	name := p.l.Slice(start, pos)
	for {
		r, ok := p.l.RuneAt(pos)
		if !ok || !isSpaceRune(r) {
			break
		}
		pos++
	}
	r, ok := p.l.RuneAt(pos)
	if !ok || r != '>' {
		return "", 0, parseErr(token.Token{Pos: pos}, "unterminated end tag")
	}
	return name, pos + 1, nil
}

func isNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == ':' || r == '-'
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
