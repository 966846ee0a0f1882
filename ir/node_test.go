package ir_test

import (
	"testing"

	"github.com/ccore-lang/ccore/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaInternsConstants(t *testing.T) {
	a := ir.NewArena()
	intTy := a.NewType(ir.OpIntegerType, "int")

	c1 := a.IntConst(42, intTy)
	c2 := a.IntConst(42, intTy)
	c3 := a.IntConst(43, intTy)

	assert.Same(t, c1, c2, "equal integer constants must share identity")
	assert.NotSame(t, c1, c3)
	assert.Equal(t, int64(42), c1.Payload())
}

func TestArenaInternsDeclsByScopeAndName(t *testing.T) {
	a := ir.NewArena()
	intTy := a.NewType(ir.OpIntegerType, "int")

	d1 := a.NewDecl(ir.OpVarDecl, "fn1", "x", intTy, ir.Location{File: "a.c", Line: 3})
	d2 := a.NewDecl(ir.OpVarDecl, "fn1", "x", intTy, ir.Location{File: "a.c", Line: 10})
	d3 := a.NewDecl(ir.OpVarDecl, "fn2", "x", intTy, ir.Location{File: "a.c", Line: 3})

	assert.Same(t, d1, d2, "same scope+name must resolve to the same declaration")
	assert.NotSame(t, d1, d3, "different scopes must not collide")
}

func TestArenaExpressionsAreDistinctPerOccurrence(t *testing.T) {
	a := ir.NewArena()
	intTy := a.NewType(ir.OpIntegerType, "int")
	x := a.NewDecl(ir.OpVarDecl, "fn", "x", intTy, ir.Location{})

	e1 := a.NewExpr(ir.OpVarRef, ir.Location{}, intTy, x)
	e2 := a.NewExpr(ir.OpVarRef, ir.Location{}, intTy, x)

	assert.NotSame(t, e1, e2, "composite nodes are distinct per occurrence even with identical children")
}

func TestSideEffectsAreConservativeUnion(t *testing.T) {
	a := ir.NewArena()
	intTy := a.NewType(ir.OpIntegerType, "int")
	x := a.NewDecl(ir.OpVarDecl, "fn", "x", intTy, ir.Location{})
	xref := a.NewExpr(ir.OpVarRef, ir.Location{}, intTy, x)
	one := a.IntConst(1, intTy)

	plain := a.NewExpr(ir.OpPlusExpr, ir.Location{}, intTy, xref, one)
	require.False(t, plain.SideEffects())

	assign := a.NewExpr(ir.OpModifyExpr, ir.Location{}, intTy, xref, one)
	require.True(t, assign.SideEffects(), "modify_expr is intrinsically side-effecting")

	wrapping := a.NewExpr(ir.OpPlusExpr, ir.Location{}, intTy, assign, one)
	require.True(t, wrapping.SideEffects(), "side effects propagate up through a wrapping expr")
}

func TestSetChildRecomputesSideEffects(t *testing.T) {
	a := ir.NewArena()
	intTy := a.NewType(ir.OpIntegerType, "int")
	x := a.NewDecl(ir.OpVarDecl, "fn", "x", intTy, ir.Location{})
	xref := a.NewExpr(ir.OpVarRef, ir.Location{}, intTy, x)
	one := a.IntConst(1, intTy)

	plain := a.NewExpr(ir.OpPlusExpr, ir.Location{}, intTy, xref, one)
	require.False(t, plain.SideEffects())

	assign := a.NewExpr(ir.OpModifyExpr, ir.Location{}, intTy, xref, one)
	plain.SetChild(1, assign)
	require.True(t, plain.SideEffects(), "mutating a child must restore the side-effects invariant")
}

func TestWalkVisitsEveryNode(t *testing.T) {
	a := ir.NewArena()
	intTy := a.NewType(ir.OpIntegerType, "int")
	x := a.NewDecl(ir.OpVarDecl, "fn", "x", intTy, ir.Location{})
	xref := a.NewExpr(ir.OpVarRef, ir.Location{}, intTy, x)
	one := a.IntConst(1, intTy)
	sum := a.NewExpr(ir.OpPlusExpr, ir.Location{}, intTy, xref, one)

	var seen []ir.Op
	ir.Walk(sum, ir.VisitorFunc(func(n *ir.Node) bool {
		seen = append(seen, n.Op)
		return true
	}))

	assert.Equal(t, []ir.Op{ir.OpPlusExpr, ir.OpVarRef, ir.OpIntCst}, seen)
}
