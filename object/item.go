// ==============================================================================================
// FILE: object/item.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: The runtime value system for the XForm evaluator.
//          An Item is a tagged union of Node/String/Number/Boolean/Null/Map/
//          FuncRef; a Sequence is a flat, ordered, duplicate-preserving list
//          of Items — the universal currency the evaluator passes around.
// ==============================================================================================

package object

import (
	"fmt"
	"strconv"

	"xform/node"
)

// Type identifies an Item's tag.
type Type string

const (
	NODE_ITEM    Type = "NODE"
	STRING_ITEM  Type = "STRING"
	NUMBER_ITEM  Type = "NUMBER"
	BOOLEAN_ITEM Type = "BOOLEAN"
	NULL_ITEM    Type = "NULL"
	MAP_ITEM     Type = "MAP"
	FUNCREF_ITEM Type = "FUNCREF"
)

// Item is any single runtime value.
type Item interface {
	Type() Type
	Inspect() string
}

// Sequence is an ordered, duplicate-preserving, never-nested list of Items.
type Sequence []Item

// NodeItem wraps a markup tree node as a runtime value.
type NodeItem struct{ Node *node.Node }

func (*NodeItem) Type() Type        { return NODE_ITEM }
func (n *NodeItem) Inspect() string { return "<" + n.Node.Kind.String() + ">" }

type String struct{ Value string }

func (*String) Type() Type        { return STRING_ITEM }
func (s *String) Inspect() string { return s.Value }

type Number struct{ Value float64 }

func (*Number) Type() Type { return NUMBER_ITEM }
func (n *Number) Inspect() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

type Boolean struct{ Value bool }

func (*Boolean) Type() Type { return BOOLEAN_ITEM }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}

type Null struct{}

func (*Null) Type() Type        { return NULL_ITEM }
func (*Null) Inspect() string   { return "null" }

// Map is an ordered string-keyed map of sequences (Map (string →
// sequence)). Keys are kept in insertion order, so Keys() lists them
// first-seen first (index() relies on this for the map it builds).
type Map struct {
	keys   []string
	values map[string]Sequence
}

func NewMap() *Map {
	return &Map{values: make(map[string]Sequence)}
}

func (m *Map) Set(key string, seq Sequence) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = seq
}

func (m *Map) Get(key string) (Sequence, bool) {
	seq, ok := m.values[key]
	return seq, ok
}

func (m *Map) Keys() []string { return m.keys }

func (*Map) Type() Type { return MAP_ITEM }
func (*Map) Inspect() string { return "[map]" }

type FuncRef struct{ Name string }

func (*FuncRef) Type() Type        { return FUNCREF_ITEM }
func (f *FuncRef) Inspect() string { return fmt.Sprintf("<function %s>", f.Name) }

// Single wraps one Item as a 1-element Sequence. Most expression evaluation
// results are single-item sequences; this is the common-case constructor.
func Single(it Item) Sequence { return Sequence{it} }

// First returns the first item of seq and whether seq was non-empty.
func (seq Sequence) First() (Item, bool) {
	if len(seq) == 0 {
		return nil, false
	}
	return seq[0], true
}
