package pointsto_test

import (
	"testing"

	"github.com/ccore-lang/ccore/ir"
	"github.com/ccore-lang/ccore/pointsto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstraintRewritesAddressOfOnLeft(t *testing.T) {
	c := pointsto.NewConstraint(pointsto.AddrTerm(pointsto.Anything), pointsto.ScalarTerm(5))
	assert.Equal(t, pointsto.Scalar, c.LHS.Kind)
	assert.Equal(t, pointsto.VarID(5), c.LHS.Var)
	assert.Equal(t, pointsto.AddressOf, c.RHS.Kind)
	assert.Equal(t, pointsto.Anything, c.RHS.Var)
}

func TestConstraintIsComplex(t *testing.T) {
	simple := pointsto.NewConstraint(pointsto.ScalarTerm(1), pointsto.ScalarTerm(2))
	assert.False(t, simple.IsComplex())

	deref := pointsto.NewConstraint(pointsto.ScalarTerm(1), pointsto.DerefTerm(2))
	assert.True(t, deref.IsComplex())
}

func TestFieldIndexLookupRoundsDownToNearestField(t *testing.T) {
	arena := ir.NewArena()
	structType := arena.NewType(ir.OpRecordType, "S")
	fi := pointsto.NewFieldIndex()
	fi.Insert(structType, 0, 0)
	fi.Insert(structType, 4, 1)
	fi.Insert(structType, 8, 2)

	assert.Equal(t, 0, fi.Lookup(structType, 0))
	assert.Equal(t, 0, fi.Lookup(structType, 2))
	assert.Equal(t, 1, fi.Lookup(structType, 4))
	assert.Equal(t, 1, fi.Lookup(structType, 7))
	assert.Equal(t, 2, fi.Lookup(structType, 100))

	other := arena.NewType(ir.OpRecordType, "T")
	assert.Equal(t, 0, fi.Lookup(other, 4), "unregistered type falls back to field 0")
}

func TestResolveFieldClampsToSiblingRange(t *testing.T) {
	vars := pointsto.NewVarTable()
	it := ir.NewArena().NewType(ir.OpIntegerType, "int")
	decl := ir.NewArena().NewDecl(ir.OpVarDecl, "f", "s", it, ir.Location{})
	head := vars.NewAggregate(decl, "s", 3) // fields at head, head+1, head+2

	assert.Equal(t, head.ID, vars.ResolveField(head.ID, 0))
	assert.Equal(t, head.ID+1, vars.ResolveField(head.ID, 1))
	assert.Equal(t, head.ID+2, vars.ResolveField(head.ID, 2))
	assert.Equal(t, head.ID+2, vars.ResolveField(head.ID, 50), "offset past last field clamps to last field")
}

func TestResolveFieldPassesThroughArtificialAndUnknownSize(t *testing.T) {
	vars := pointsto.NewVarTable()
	assert.Equal(t, pointsto.Anything, vars.ResolveField(pointsto.Anything, 7))

	decl := ir.NewArena().NewDecl(ir.OpVarDecl, "f", "u", ir.NewArena().NewType(ir.OpIntegerType, "int"), ir.Location{})
	u := vars.NewUnknownSize(decl, "u")
	assert.Equal(t, u.ID, vars.ResolveField(u.ID, 3))
}

// setupScalarAlias builds: int x; int *p = &x; int *q = p; and returns the
// var table plus the ids for x, p, q.
func setupScalarAlias(t *testing.T) (*pointsto.VarTable, *pointsto.Graph, *pointsto.Generator, pointsto.VarID, pointsto.VarID, pointsto.VarID, []pointsto.Constraint) {
	arena := ir.NewArena()
	it := arena.NewType(ir.OpIntegerType, "int")
	pt := arena.NewType(ir.OpPointerType, "int*", it)

	xDecl := arena.NewDecl(ir.OpVarDecl, "f", "x", it, ir.Location{})
	pDecl := arena.NewDecl(ir.OpVarDecl, "f", "p", pt, ir.Location{})
	qDecl := arena.NewDecl(ir.OpVarDecl, "f", "q", pt, ir.Location{})

	vars := pointsto.NewVarTable()
	xVi := vars.NewScalar(xDecl, "x")
	pVi := vars.NewScalar(pDecl, "p")
	qVi := vars.NewScalar(qDecl, "q")

	resolve := func(decl *ir.Node) (pointsto.VarID, bool) {
		switch decl {
		case xDecl:
			return xVi.ID, true
		case pDecl:
			return pVi.ID, true
		case qDecl:
			return qVi.ID, true
		}
		return 0, false
	}
	gen := pointsto.NewGenerator(resolve, pointsto.NewFieldIndex())

	xRef := arena.NewExpr(ir.OpVarRef, ir.Location{}, it, xDecl)
	addrX := arena.NewExpr(ir.OpAddrExpr, ir.Location{}, pt, xRef)
	pRefLHS := arena.NewExpr(ir.OpVarRef, ir.Location{}, pt, pDecl)
	c1 := gen.Assign(pRefLHS, addrX) // p = &x

	qRefLHS := arena.NewExpr(ir.OpVarRef, ir.Location{}, pt, qDecl)
	pRefRHS := arena.NewExpr(ir.OpVarRef, ir.Location{}, pt, pDecl)
	c2 := gen.Assign(qRefLHS, pRefRHS) // q = p

	require.Len(t, c1, 1)
	require.Len(t, c2, 1)

	g := pointsto.NewGraph(vars)
	g.AddConstraint(c1[0])
	g.AddConstraint(c2[0])

	return vars, g, gen, xVi.ID, pVi.ID, qVi.ID, append(c1, c2...)
}

func TestSolveScalarAliasPropagatesThroughCopy(t *testing.T) {
	vars, g, _, x, _, q, constraints := setupScalarAlias(t)

	_, err := pointsto.Solve(vars, g, constraints)
	require.NoError(t, err)

	qSol := vars.Representative(q).Solution
	require.NotNil(t, qSol)
	assert.True(t, qSol.Test(uint(x)))
	assert.Equal(t, uint(1), qSol.Len())
}

func TestSolveAddressOfStructFieldTargetsExactField(t *testing.T) {
	arena := ir.NewArena()
	it := arena.NewType(ir.OpIntegerType, "int")
	pt := arena.NewType(ir.OpPointerType, "int*", it)
	structType := arena.NewType(ir.OpRecordType, "S")

	sDecl := arena.NewDecl(ir.OpVarDecl, "f", "s", structType, ir.Location{})
	pDecl := arena.NewDecl(ir.OpVarDecl, "f", "p", pt, ir.Location{})

	vars := pointsto.NewVarTable()
	sHead := vars.NewAggregate(sDecl, "s", 2) // field a at sHead.ID, field b at sHead.ID+1
	pVi := vars.NewScalar(pDecl, "p")

	fields := pointsto.NewFieldIndex()
	fields.Insert(structType, 0, 0)
	fields.Insert(structType, 4, 1)

	resolve := func(decl *ir.Node) (pointsto.VarID, bool) {
		switch decl {
		case sDecl:
			return sHead.ID, true
		case pDecl:
			return pVi.ID, true
		}
		return 0, false
	}
	gen := pointsto.NewGenerator(resolve, fields)

	sRef := arena.NewExpr(ir.OpVarRef, ir.Location{}, structType, sDecl)
	fieldB := arena.NewExpr(ir.OpComponentRef, ir.Location{}, it, sRef)
	fieldB.SetPayload(4)
	addrB := arena.NewExpr(ir.OpAddrExpr, ir.Location{}, pt, fieldB)
	pRef := arena.NewExpr(ir.OpVarRef, ir.Location{}, pt, pDecl)

	constraints := gen.Assign(pRef, addrB)
	require.Len(t, constraints, 1)

	g := pointsto.NewGraph(vars)
	g.AddConstraint(constraints[0])

	_, err := pointsto.Solve(vars, g, constraints)
	require.NoError(t, err)

	pSol := vars.Representative(pVi.ID).Solution
	require.NotNil(t, pSol)
	assert.True(t, pSol.Test(uint(sHead.ID+1)), "p should point at field b specifically")
	assert.False(t, pSol.Test(uint(sHead.ID)), "p should not point at field a")

	assert.True(t, vars.Get(sHead.ID+1).AddressTaken, "field b had its address taken")
	assert.False(t, vars.Get(sHead.ID).AddressTaken, "field a's address was never taken")
}

// TestAddConstraintMarksIndirectTargetOnDereferencedPointer builds r = &x;
// p = &r; q = *p and checks that p (the pointer actually dereferenced) is
// marked indirect_target, while q (only ever assigned into, never
// dereferenced) is not.
func TestAddConstraintMarksIndirectTargetOnDereferencedPointer(t *testing.T) {
	arena := ir.NewArena()
	it := arena.NewType(ir.OpIntegerType, "int")
	pt := arena.NewType(ir.OpPointerType, "int*", it)
	ppt := arena.NewType(ir.OpPointerType, "int**", pt)

	xDecl := arena.NewDecl(ir.OpVarDecl, "f", "x", it, ir.Location{})
	rDecl := arena.NewDecl(ir.OpVarDecl, "f", "r", pt, ir.Location{})
	pDecl := arena.NewDecl(ir.OpVarDecl, "f", "p", ppt, ir.Location{})
	qDecl := arena.NewDecl(ir.OpVarDecl, "f", "q", pt, ir.Location{})

	vars := pointsto.NewVarTable()
	xVi := vars.NewScalar(xDecl, "x")
	rVi := vars.NewScalar(rDecl, "r")
	pVi := vars.NewScalar(pDecl, "p")
	qVi := vars.NewScalar(qDecl, "q")

	resolve := func(decl *ir.Node) (pointsto.VarID, bool) {
		switch decl {
		case xDecl:
			return xVi.ID, true
		case rDecl:
			return rVi.ID, true
		case pDecl:
			return pVi.ID, true
		case qDecl:
			return qVi.ID, true
		}
		return 0, false
	}
	gen := pointsto.NewGenerator(resolve, pointsto.NewFieldIndex())

	xRef := arena.NewExpr(ir.OpVarRef, ir.Location{}, it, xDecl)
	addrX := arena.NewExpr(ir.OpAddrExpr, ir.Location{}, pt, xRef)
	rLHS := arena.NewExpr(ir.OpVarRef, ir.Location{}, pt, rDecl)
	c1 := gen.Assign(rLHS, addrX) // r = &x

	rRef := arena.NewExpr(ir.OpVarRef, ir.Location{}, pt, rDecl)
	addrR := arena.NewExpr(ir.OpAddrExpr, ir.Location{}, ppt, rRef)
	pLHS := arena.NewExpr(ir.OpVarRef, ir.Location{}, ppt, pDecl)
	c2 := gen.Assign(pLHS, addrR) // p = &r

	pRef := arena.NewExpr(ir.OpVarRef, ir.Location{}, ppt, pDecl)
	derefP := arena.NewExpr(ir.OpIndirectRef, ir.Location{}, pt, pRef)
	qLHS := arena.NewExpr(ir.OpVarRef, ir.Location{}, pt, qDecl)
	c3 := gen.Assign(qLHS, derefP) // q = *p

	g := pointsto.NewGraph(vars)
	for _, c := range append(append(c1, c2...), c3...) {
		g.AddConstraint(c)
	}

	assert.True(t, vars.Get(pVi.ID).IndirectTarget, "p was dereferenced by q = *p")
	assert.False(t, vars.Get(qVi.ID).IndirectTarget, "q was never dereferenced")
	assert.True(t, vars.Get(rVi.ID).AddressTaken, "r's address was taken by p = &r")
}

// TestOfflineSubstituteSkipsAddressTakenVar is the Comment 2 regression
// case: y = z; x = &y. y has exactly one zero-weight predecessor (z), which
// would make it look like a substitution candidate, but its address was
// taken by x, so it must never be folded into z (doing so would corrupt
// which object x's solution designates).
func TestOfflineSubstituteSkipsAddressTakenVar(t *testing.T) {
	arena := ir.NewArena()
	it := arena.NewType(ir.OpIntegerType, "int")
	pt := arena.NewType(ir.OpPointerType, "int*", it)

	yDecl := arena.NewDecl(ir.OpVarDecl, "f", "y", it, ir.Location{})
	zDecl := arena.NewDecl(ir.OpVarDecl, "f", "z", it, ir.Location{})
	xDecl := arena.NewDecl(ir.OpVarDecl, "f", "x", pt, ir.Location{})

	vars := pointsto.NewVarTable()
	yVi := vars.NewScalar(yDecl, "y")
	zVi := vars.NewScalar(zDecl, "z")
	xVi := vars.NewScalar(xDecl, "x")

	resolve := func(decl *ir.Node) (pointsto.VarID, bool) {
		switch decl {
		case yDecl:
			return yVi.ID, true
		case zDecl:
			return zVi.ID, true
		case xDecl:
			return xVi.ID, true
		}
		return 0, false
	}
	gen := pointsto.NewGenerator(resolve, pointsto.NewFieldIndex())

	yLHS := arena.NewExpr(ir.OpVarRef, ir.Location{}, it, yDecl)
	zRHS := arena.NewExpr(ir.OpVarRef, ir.Location{}, it, zDecl)
	c1 := gen.Assign(yLHS, zRHS) // y = z
	require.Len(t, c1, 1)

	yRef := arena.NewExpr(ir.OpVarRef, ir.Location{}, it, yDecl)
	addrY := arena.NewExpr(ir.OpAddrExpr, ir.Location{}, pt, yRef)
	xLHS := arena.NewExpr(ir.OpVarRef, ir.Location{}, pt, xDecl)
	c2 := gen.Assign(xLHS, addrY) // x = &y
	require.Len(t, c2, 1)

	g := pointsto.NewGraph(vars)
	g.AddConstraint(c1[0])
	g.AddConstraint(c2[0])

	assert.True(t, vars.Get(yVi.ID).AddressTaken, "y's address was taken by x = &y")

	n := pointsto.OfflineSubstitute(vars, g)
	assert.Equal(t, 0, n, "address-taken var must never be substituted away")
	assert.Equal(t, yVi.ID, vars.Get(yVi.ID).Node, "y must remain its own representative")
}

func TestSolveDoubleDereferenceChainsThroughComplexConstraint(t *testing.T) {
	arena := ir.NewArena()
	it := arena.NewType(ir.OpIntegerType, "int")
	pt := arena.NewType(ir.OpPointerType, "int*", it)
	ppt := arena.NewType(ir.OpPointerType, "int**", pt)

	xDecl := arena.NewDecl(ir.OpVarDecl, "f", "x", it, ir.Location{})
	rDecl := arena.NewDecl(ir.OpVarDecl, "f", "r", pt, ir.Location{})
	pDecl := arena.NewDecl(ir.OpVarDecl, "f", "p", ppt, ir.Location{})
	qDecl := arena.NewDecl(ir.OpVarDecl, "f", "q", pt, ir.Location{})

	vars := pointsto.NewVarTable()
	xVi := vars.NewScalar(xDecl, "x")
	rVi := vars.NewScalar(rDecl, "r")
	pVi := vars.NewScalar(pDecl, "p")
	qVi := vars.NewScalar(qDecl, "q")

	resolve := func(decl *ir.Node) (pointsto.VarID, bool) {
		switch decl {
		case xDecl:
			return xVi.ID, true
		case rDecl:
			return rVi.ID, true
		case pDecl:
			return pVi.ID, true
		case qDecl:
			return qVi.ID, true
		}
		return 0, false
	}
	gen := pointsto.NewGenerator(resolve, pointsto.NewFieldIndex())

	xRef := arena.NewExpr(ir.OpVarRef, ir.Location{}, it, xDecl)
	addrX := arena.NewExpr(ir.OpAddrExpr, ir.Location{}, pt, xRef)
	rRefLHS := arena.NewExpr(ir.OpVarRef, ir.Location{}, pt, rDecl)
	c1 := gen.Assign(rRefLHS, addrX) // r = &x

	rRef := arena.NewExpr(ir.OpVarRef, ir.Location{}, pt, rDecl)
	addrR := arena.NewExpr(ir.OpAddrExpr, ir.Location{}, ppt, rRef)
	pRefLHS := arena.NewExpr(ir.OpVarRef, ir.Location{}, ppt, pDecl)
	c2 := gen.Assign(pRefLHS, addrR) // p = &r

	pRefRHS := arena.NewExpr(ir.OpVarRef, ir.Location{}, ppt, pDecl)
	derefP := arena.NewExpr(ir.OpIndirectRef, ir.Location{}, pt, pRefRHS)
	qRefLHS := arena.NewExpr(ir.OpVarRef, ir.Location{}, pt, qDecl)
	c3 := gen.Assign(qRefLHS, derefP) // q = *p

	require.Len(t, c1, 1)
	require.Len(t, c2, 1)
	require.Len(t, c3, 1)
	assert.True(t, c3[0].IsComplex())

	all := append(append(c1, c2...), c3...)
	g := pointsto.NewGraph(vars)
	for _, c := range all {
		g.AddConstraint(c)
	}

	_, err := pointsto.Solve(vars, g, all)
	require.NoError(t, err)

	qSol := vars.Representative(qVi.ID).Solution
	require.NotNil(t, qSol)
	assert.True(t, qSol.Test(uint(xVi.ID)), "q = *p should resolve through r to x")
}

func TestCollapseCyclesMergesZeroWeightCycle(t *testing.T) {
	vars := pointsto.NewVarTable()
	it := ir.NewArena().NewType(ir.OpIntegerType, "int")
	a := vars.NewScalar(ir.NewArena().NewDecl(ir.OpVarDecl, "f", "a", it, ir.Location{}), "a")
	b := vars.NewScalar(ir.NewArena().NewDecl(ir.OpVarDecl, "f", "b", it, ir.Location{}), "b")

	g := pointsto.NewGraph(vars)
	g.AddEdge(a.ID, b.ID, 0)
	g.AddEdge(b.ID, a.ID, 0)

	n := pointsto.CollapseCycles(vars, g)
	assert.Equal(t, 1, n)
	assert.Equal(t, vars.Representative(a.ID), vars.Representative(b.ID))
}

func TestOfflineSubstituteUnifiesSingleSourceVar(t *testing.T) {
	vars := pointsto.NewVarTable()
	it := ir.NewArena().NewType(ir.OpIntegerType, "int")
	src := vars.NewScalar(ir.NewArena().NewDecl(ir.OpVarDecl, "f", "src", it, ir.Location{}), "src")
	dst := vars.NewScalar(ir.NewArena().NewDecl(ir.OpVarDecl, "f", "dst", it, ir.Location{}), "dst")

	g := pointsto.NewGraph(vars)
	g.AddEdge(src.ID, dst.ID, 0)

	n := pointsto.OfflineSubstitute(vars, g)
	assert.Equal(t, 1, n)
	assert.Equal(t, src.ID, vars.Get(dst.ID).Node)
}

func TestOfflineSubstituteSkipsVarWithMultiplePredecessors(t *testing.T) {
	vars := pointsto.NewVarTable()
	it := ir.NewArena().NewType(ir.OpIntegerType, "int")
	a := vars.NewScalar(ir.NewArena().NewDecl(ir.OpVarDecl, "f", "a", it, ir.Location{}), "a")
	b := vars.NewScalar(ir.NewArena().NewDecl(ir.OpVarDecl, "f", "b", it, ir.Location{}), "b")
	dst := vars.NewScalar(ir.NewArena().NewDecl(ir.OpVarDecl, "f", "dst", it, ir.Location{}), "dst")

	g := pointsto.NewGraph(vars)
	g.AddEdge(a.ID, dst.ID, 0)
	g.AddEdge(b.ID, dst.ID, 0)

	n := pointsto.OfflineSubstitute(vars, g)
	assert.Equal(t, 0, n)
	assert.Equal(t, dst.ID, vars.Get(dst.ID).Node)
}
