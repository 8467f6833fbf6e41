// ==============================================================================================
// FILE: object/environment.go
// ==============================================================================================
// PACKAGE: object
// PURPOSE: The evaluation environment. Environments are values: every With*
//          call returns a new Environment sharing structure with its parent
//          via an outer-chain. The parent is never mutated, so a for-loop
//          iteration's bindings can never leak into a sibling iteration.
// ==============================================================================================

package object

import (
	"xform/ast"
	"xform/node"
)

// Environment carries a context item, the input-tree root, variable
// bindings, the module's functions/rule-sets, and the position/last
// positional values a `for` loop or path predicate may have established.
type Environment struct {
	vars  map[string]Sequence
	outer *Environment

	contextItem Item // nil if none
	position    *float64
	last        *float64

	root   *node.Node
	module *ast.Module
}

// NewGlobal creates the root environment for a module evaluation: no
// context item, no positional values, bound to root and module.
func NewGlobal(root *node.Node, module *ast.Module) *Environment {
	return &Environment{
		vars:   make(map[string]Sequence),
		root:   root,
		module: module,
	}
}

// extend returns a child environment that shares every field with e except
// vars, which starts empty and chains to e via outer.
func (e *Environment) extend() *Environment {
	return &Environment{
		vars:        make(map[string]Sequence),
		outer:       e,
		contextItem: e.contextItem,
		position:    e.position,
		last:        e.last,
		root:        e.root,
		module:      e.module,
	}
}

// WithVar returns a derived environment binding name to val.
func (e *Environment) WithVar(name string, val Sequence) *Environment {
	child := e.extend()
	child.vars[name] = val
	return child
}

// WithContext returns a derived environment whose context item is item,
// positional values cleared.
func (e *Environment) WithContext(item Item) *Environment {
	child := e.extend()
	child.contextItem = item
	child.position = nil
	child.last = nil
	return child
}

// WithPositional returns a derived environment with context item and
// position/last all set together, as a `for` loop iteration requires.
func (e *Environment) WithPositional(item Item, position, last float64) *Environment {
	child := e.extend()
	child.contextItem = item
	child.position = &position
	child.last = &last
	return child
}

// Get looks up a variable through the outer chain.
func (e *Environment) Get(name string) (Sequence, bool) {
	for env := e; env != nil; env = env.outer {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// ContextItem returns the current context item, if any.
func (e *Environment) ContextItem() (Item, bool) {
	if e.contextItem == nil {
		return nil, false
	}
	return e.contextItem, true
}

// Position returns the current `position()` value, if any.
func (e *Environment) Position() (float64, bool) {
	if e.position == nil {
		return 0, false
	}
	return *e.position, true
}

// Last returns the current `last()` value, if any.
func (e *Environment) Last() (float64, bool) {
	if e.last == nil {
		return 0, false
	}
	return *e.last, true
}

// Root returns the input tree's Document node.
func (e *Environment) Root() *node.Node { return e.root }

// Module returns the module being evaluated.
func (e *Environment) Module() *ast.Module { return e.module }

// Function looks up a user-defined function by name.
func (e *Environment) Function(name string) (*ast.FunctionDef, bool) {
	if e.module == nil {
		return nil, false
	}
	fn, ok := e.module.Functions[name]
	return fn, ok
}

// RuleSet looks up a named rule-set (defaulting callers pass "main").
func (e *Environment) RuleSet(name string) ([]*ast.RuleDef, bool) {
	if e.module == nil {
		return nil, false
	}
	rs, ok := e.module.Rules[name]
	return rs, ok
}
