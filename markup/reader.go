// ==============================================================================================
// FILE: markup/reader.go
// ==============================================================================================
// PACKAGE: markup
// PURPOSE: Text -> node.Node tree. DOCTYPE blocks are excised and any
//          internal-subset <!ENTITY name "value"> declarations are
//          substituted into the remaining text before the well-formedness
//          parse; everything else (character references, CDATA, comments,
//          PIs) is handled by the underlying etree parser.
// ==============================================================================================

package markup

import (
	"sort"
	"strings"

	"github.com/beevik/etree"

	"xform/node"
	"xform/xformerr"
)

// Read parses raw markup text into a Document node.
func Read(text string) (*node.Node, error) {
	clean := preprocess(text)

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromString(clean); err != nil {
		return nil, xformerr.New(xformerr.MarkupParse, "%s", err)
	}

	return node.NewDocument(convertChildren(doc.Child)...), nil
}

func convertChildren(tokens []etree.Token) []*node.Node {
	var out []*node.Node
	for _, tok := range tokens {
		if n := convertToken(tok); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func convertToken(tok etree.Token) *node.Node {
	switch t := tok.(type) {
	case *etree.Element:
		return convertElement(t)
	case *etree.CharData:
		return node.NewText(t.Data)
	case *etree.Comment:
		return node.NewComment(string(*t))
	case *etree.ProcInst:
		return node.NewPI(t.Target, t.Inst)
	default:
		// Directive (DOCTYPE) and anything else: already stripped, or has
		// no node representation.
		return nil
	}
}

func convertElement(e *etree.Element) *node.Node {
	attrs := make([]node.Attr, len(e.Attr))
	for i, a := range e.Attr {
		attrs[i] = node.Attr{Name: a.Key, Value: a.Value}
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	return node.NewElement(e.Tag, attrs, convertChildren(e.Child))
}

// preprocess excises <!DOCTYPE ...> blocks (honoring bracket nesting for an
// internal subset) and substitutes any simple quoted <!ENTITY name "value">
// declarations it finds into the rest of the document. No other DTD feature
// (parameter entities, external entities, notations) is honored.
func preprocess(xml string) string {
	if !strings.Contains(xml, "<!DOCTYPE") {
		return xml
	}

	var entities [][2]string
	var out strings.Builder
	i := 0
	for i < len(xml) {
		if strings.HasPrefix(xml[i:], "<!DOCTYPE") {
			start := i
			i += len("<!DOCTYPE")
			depth := 0
			for i < len(xml) {
				switch xml[i] {
				case '[':
					depth++
					i++
				case ']':
					if depth > 0 {
						depth--
					}
					i++
				case '>':
					if depth == 0 {
						i++
						goto doneBlock
					}
					i++
				default:
					i++
				}
			}
		doneBlock:
			entities = append(entities, extractEntities(xml[start:i])...)
			continue
		}
		out.WriteByte(xml[i])
		i++
	}

	return replaceEntities(out.String(), entities)
}

func extractEntities(doctypeBlock string) [][2]string {
	var out [][2]string
	s := doctypeBlock
	for {
		idx := strings.Index(s, "<!ENTITY")
		if idx < 0 {
			break
		}
		s = s[idx+len("<!ENTITY"):]
		s2 := strings.TrimLeft(s, " \t\r\n")
		end := strings.IndexFunc(s2, isSpace)
		if end < 0 {
			end = len(s2)
		}
		name := s2[:end]
		rest := strings.TrimLeft(s2[end:], " \t\r\n")
		if len(rest) > 0 && (rest[0] == '"' || rest[0] == '\'') {
			quote := rest[0]
			inner := rest[1:]
			if close := strings.IndexByte(inner, quote); close >= 0 {
				out = append(out, [2]string{name, inner[:close]})
			}
		}
		s = s2
	}
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func replaceEntities(xml string, entities [][2]string) string {
	if len(entities) == 0 {
		return xml
	}
	out := xml
	for _, kv := range entities {
		out = strings.ReplaceAll(out, "&"+kv[0]+";", kv[1])
	}
	return out
}
