package scev_test

import (
	"testing"

	"github.com/ccore-lang/ccore/ir"
	"github.com/ccore-lang/ccore/scev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup() (*ir.Arena, *ir.Node) {
	arena := ir.NewArena()
	it := arena.NewType(ir.OpIntegerType, "int")
	return arena, it
}

func TestScevInvariantPhiIsConstant(t *testing.T) {
	arena, it := setup()
	loop := &scev.Loop{ID: 1, Depth: 1}
	decl := arena.NewDecl(ir.OpVarDecl, "f", "x", it, ir.Location{})
	entry := arena.IntConst(5, it)
	phi := &scev.PhiNode{Var: decl, Loop: loop, Entry: entry}

	e := scev.NewEngine(arena)
	c := e.Scev(loop, phi)
	cst, ok := c.(scev.Constant)
	require.True(t, ok)
	assert.Equal(t, entry, cst.Value)
}

func TestScevAdditiveInductionBecomesPoly(t *testing.T) {
	arena, it := setup()
	loop := &scev.Loop{ID: 1, Depth: 1}
	decl := arena.NewDecl(ir.OpVarDecl, "f", "i", it, ir.Location{})
	iRef := arena.NewExpr(ir.OpVarRef, ir.Location{}, it, decl)
	entry := arena.IntConst(0, it)
	step := arena.IntConst(1, it)
	back := arena.NewExpr(ir.OpPlusExpr, ir.Location{}, it, iRef, step)
	phi := &scev.PhiNode{Var: decl, Loop: loop, Entry: entry, Back: back}

	e := scev.NewEngine(arena)
	c := e.Scev(loop, phi)
	poly, ok := c.(scev.Poly)
	require.True(t, ok, "expected a Poly chrec, got %T", c)
	assert.Same(t, loop, poly.Loop)
	leftConst, ok := poly.Left.(scev.Constant)
	require.True(t, ok)
	assert.Equal(t, entry, leftConst.Value)
	rightConst, ok := poly.Right.(scev.Constant)
	require.True(t, ok)
	v, ok := intPayload(rightConst.Value)
	require.True(t, ok)
	assert.Equal(t, int64(1), v)
}

func TestScevMultiplicativeInductionBecomesExpo(t *testing.T) {
	arena, it := setup()
	loop := &scev.Loop{ID: 1, Depth: 1}
	decl := arena.NewDecl(ir.OpVarDecl, "f", "p", it, ir.Location{})
	pRef := arena.NewExpr(ir.OpVarRef, ir.Location{}, it, decl)
	entry := arena.IntConst(1, it)
	factor := arena.IntConst(2, it)
	back := arena.NewExpr(ir.OpMultExpr, ir.Location{}, it, pRef, factor)
	phi := &scev.PhiNode{Var: decl, Loop: loop, Entry: entry, Back: back}

	e := scev.NewEngine(arena)
	c := e.Scev(loop, phi)
	_, ok := c.(scev.Expo)
	assert.True(t, ok, "expected an Expo chrec, got %T", c)
}

func TestScevUnrecognizedBackEdgeBecomesPeeled(t *testing.T) {
	arena, it := setup()
	loop := &scev.Loop{ID: 1, Depth: 1}
	decl := arena.NewDecl(ir.OpVarDecl, "f", "y", it, ir.Location{})
	other := arena.NewDecl(ir.OpVarDecl, "f", "z", it, ir.Location{})
	otherRef := arena.NewExpr(ir.OpVarRef, ir.Location{}, it, other)
	entry := arena.IntConst(0, it)
	// y = z (no recognizable additive/multiplicative self-reference)
	phi := &scev.PhiNode{Var: decl, Loop: loop, Entry: entry, Back: otherRef}

	e := scev.NewEngine(arena)
	c := e.Scev(loop, phi)
	_, ok := c.(scev.Peeled)
	assert.True(t, ok, "expected a Peeled chrec, got %T", c)
}

func TestScevMemoizesResult(t *testing.T) {
	arena, it := setup()
	loop := &scev.Loop{ID: 1, Depth: 1}
	decl := arena.NewDecl(ir.OpVarDecl, "f", "i", it, ir.Location{})
	entry := arena.IntConst(0, it)
	phi := &scev.PhiNode{Var: decl, Loop: loop, Entry: entry}

	e := scev.NewEngine(arena)
	c1 := e.Scev(loop, phi)
	c2 := e.Scev(loop, phi)
	assert.Equal(t, c1, c2)
	assert.Equal(t, 1, e.Stats.Computed)
}

func TestNumberOfIterationsAffineLessThan(t *testing.T) {
	arena, it := setup()
	loop := &scev.Loop{ID: 1, Depth: 1}
	e := scev.NewEngine(arena)

	// i starts at 0, steps by 1, loop continues while i < 10: 10 iterations,
	// stored as count-1 = 9.
	a := scev.Poly{Loop: loop, Left: scev.Constant{Value: arena.IntConst(0, it)}, Right: scev.Constant{Value: arena.IntConst(1, it)}}
	b := scev.Constant{Value: arena.IntConst(10, it)}

	result := e.NumberOfIterations(loop, ir.OpLtExpr, a, b)
	cst, ok := result.(scev.Constant)
	require.True(t, ok, "expected a resolved Constant, got %T", result)
	v, ok := intPayload(cst.Value)
	require.True(t, ok)
	assert.Equal(t, int64(9), v)
}

func TestNumberOfIterationsIncompatibleSignsIsTop(t *testing.T) {
	arena, it := setup()
	loop := &scev.Loop{ID: 1, Depth: 1}
	e := scev.NewEngine(arena)

	// i increases but the exit test is `i > limit`: can never terminate via
	// this test, signs incompatible.
	a := scev.Poly{Loop: loop, Left: scev.Constant{Value: arena.IntConst(0, it)}, Right: scev.Constant{Value: arena.IntConst(1, it)}}
	b := scev.Constant{Value: arena.IntConst(10, it)}

	result := e.NumberOfIterations(loop, ir.OpGtExpr, a, b)
	_, ok := result.(scev.Top)
	assert.True(t, ok)
}

func TestNumberOfIterationsBothEvolveIsTop(t *testing.T) {
	arena, it := setup()
	loop := &scev.Loop{ID: 1, Depth: 1}
	e := scev.NewEngine(arena)

	a := scev.Poly{Loop: loop, Left: scev.Constant{Value: arena.IntConst(0, it)}, Right: scev.Constant{Value: arena.IntConst(1, it)}}
	b := scev.Poly{Loop: loop, Left: scev.Constant{Value: arena.IntConst(10, it)}, Right: scev.Constant{Value: arena.IntConst(2, it)}}

	result := e.NumberOfIterations(loop, ir.OpLtExpr, a, b)
	_, ok := result.(scev.Top)
	assert.True(t, ok)
}

func TestInstantiateResolvesSymbolicConstant(t *testing.T) {
	arena, it := setup()
	e := scev.NewEngine(arena)

	decl := arena.NewDecl(ir.OpVarDecl, "f", "n", it, ir.Location{})
	ref := arena.NewExpr(ir.OpVarRef, ir.Location{}, it, decl)
	symbolic := scev.Constant{Value: ref}
	resolved := scev.Constant{Value: arena.IntConst(42, it)}

	resolve := func(n *ir.Node) (scev.Chrec, bool) {
		if n == ref {
			return resolved, true
		}
		return nil, false
	}

	out := e.Instantiate(symbolic, resolve)
	cst, ok := out.(scev.Constant)
	require.True(t, ok)
	v, ok := intPayload(cst.Value)
	require.True(t, ok)
	assert.Equal(t, int64(42), v)
	assert.Equal(t, 1, e.Stats.Instantiated)
}

func TestInstantiateDetectsCycle(t *testing.T) {
	arena, it := setup()
	e := scev.NewEngine(arena)

	decl := arena.NewDecl(ir.OpVarDecl, "f", "n", it, ir.Location{})
	ref := arena.NewExpr(ir.OpVarRef, ir.Location{}, it, decl)
	symbolic := scev.Constant{Value: ref}

	var resolve scev.Resolver
	resolve = func(n *ir.Node) (scev.Chrec, bool) {
		// n always resolves back to a chrec mentioning the same symbolic
		// node, which must not recurse forever.
		return scev.Constant{Value: ref}, true
	}

	out := e.Instantiate(symbolic, resolve)
	cst, ok := out.(scev.Constant)
	require.True(t, ok)
	assert.Equal(t, ref, cst.Value)
}

func TestSignAtClassifiesPositiveInduction(t *testing.T) {
	arena, it := setup()
	loop := &scev.Loop{ID: 1, Depth: 1}
	c := scev.Poly{Loop: loop, Left: scev.Constant{Value: arena.IntConst(1, it)}, Right: scev.Constant{Value: arena.IntConst(1, it)}}
	assert.Equal(t, scev.SignPositive, scev.SignAt(c, loop))
}

func TestSignAtUnknownWhenStepOpposesInit(t *testing.T) {
	arena, it := setup()
	loop := &scev.Loop{ID: 1, Depth: 1}
	c := scev.Poly{Loop: loop, Left: scev.Constant{Value: arena.IntConst(5, it)}, Right: scev.Constant{Value: arena.IntConst(-1, it)}}
	assert.Equal(t, scev.SignUnknown, scev.SignAt(c, loop))
}

func intPayload(n *ir.Node) (int64, bool) {
	if n == nil || n.Op != ir.OpIntCst {
		return 0, false
	}
	v, ok := n.Payload().(int64)
	return v, ok
}
