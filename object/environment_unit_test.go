// ==============================================================================================
// FILE: object/environment_unit_test.go
// ==============================================================================================
// PURPOSE: Unit tests for Environment. Validates that With* calls return independent derived
//          environments — shadowing a variable or context item must never mutate the parent.
// ==============================================================================================

package object

import (
	"testing"

	"github.com/stretchr/testify/require"

	"xform/node"
)

func TestWithVarShadowsWithoutMutatingParent(t *testing.T) {
	root := NewGlobal(node.NewDocument(), nil)
	outer := root.WithVar("x", Single(&Number{Value: 10}))

	_, ok := root.Get("x")
	require.False(t, ok, "root should not see a variable bound on a derived environment")

	inner := outer.WithVar("x", Single(&Number{Value: 99}))

	innerVal, ok := inner.Get("x")
	require.True(t, ok)
	require.Equal(t, float64(99), innerVal[0].(*Number).Value, "inner scope did not shadow outer scope")

	outerVal, ok := outer.Get("x")
	require.True(t, ok)
	require.Equal(t, float64(10), outerVal[0].(*Number).Value, "outer scope was mutated by inner WithVar (shadowing failed)")
}

func TestGetTraversesOuterChain(t *testing.T) {
	root := NewGlobal(node.NewDocument(), nil)
	env := root.WithVar("y", Single(&String{Value: "hi"})).WithVar("z", Single(&Boolean{Value: true}))

	val, ok := env.Get("y")
	if !ok || val[0].(*String).Value != "hi" {
		t.Errorf("failed to traverse up to an earlier binding")
	}

	if _, ok := env.Get("absent"); ok {
		t.Errorf("expected 'absent' to not exist")
	}
}

func TestWithContextClearsPositional(t *testing.T) {
	root := NewGlobal(node.NewDocument(), nil)
	doc := &NodeItem{Node: node.NewDocument()}
	positioned := root.WithPositional(doc, 2, 5)

	if p, ok := positioned.Position(); !ok || p != 2 {
		t.Fatalf("expected position 2, got %v (ok=%v)", p, ok)
	}

	recontexted := positioned.WithContext(doc)
	if _, ok := recontexted.Position(); ok {
		t.Errorf("WithContext should clear position, but it survived")
	}
	if _, ok := recontexted.Last(); ok {
		t.Errorf("WithContext should clear last, but it survived")
	}
}
