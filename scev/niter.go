package scev

import "github.com/ccore-lang/ccore/ir"

// FloorDiv is floor(a/b): rounds toward negative infinity, unlike Go's
// native `/` which truncates toward zero. Implements the Euclidean-floor
// convention chosen for Open Question (a) (DESIGN.md worked table).
func FloorDiv(a, b int64) int64 {
	q := a / b
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		q--
	}
	return q
}

// FloorMod is a - FloorDiv(a,b)*b: the remainder always carries b's sign.
func FloorMod(a, b int64) int64 {
	return a - FloorDiv(a, b)*b
}

func ceilDiv(a, b int64) int64 {
	return FloorDiv(a+b-1, b)
}

// hasEvolution reports whether c is a Poly/Expo/Peeled chrec whose head
// loop is exactly loop — i.e. it actually varies across loop's iterations,
// as opposed to being invariant w.r.t. it (spec §4.3.3's
// "has evolution?" classification).
func hasEvolution(c Chrec, loop *Loop) bool {
	switch v := c.(type) {
	case Poly:
		return v.Loop == loop
	case Expo:
		return v.Loop == loop
	case Peeled:
		return v.Loop == loop
	default:
		return false
	}
}

// NumberOfIterations is number_of_iterations_in_loop: given a single exit
// condition `a cmp b` (cmp one of <, <=, >, >=), computed as scev(a)/scev(b)
// in loop, returns the iteration count as a chrec — Bot for a condition
// statically known always-true (infinite loop), a Constant(0) demoted to
// Top for a statically-false condition (spec's "a zero result then
// indicates an unreachable or unknowable loop"), or the solved affine count
// when exactly one side evolves (spec §4.3.3).
func (e *Engine) NumberOfIterations(loop *Loop, cmp ir.Op, a, b Chrec) Chrec {
	result := e.numberOfIterationsRaw(loop, cmp, a, b)
	loop.IterCount = result
	return result
}

func (e *Engine) numberOfIterationsRaw(loop *Loop, cmp ir.Op, a, b Chrec) Chrec {
	aEvolves := hasEvolution(a, loop)
	bEvolves := hasEvolution(b, loop)

	switch {
	case !aEvolves && !bEvolves:
		return e.constantCaseIterations(cmp, a, b)
	case aEvolves && !bEvolves:
		return e.affineCaseIterations(cmp, a.(Poly), b)
	case !aEvolves && bEvolves:
		return e.affineCaseIterations(invertCmp(cmp), b.(Poly), a)
	default:
		return Top{}
	}
}

// constantCaseIterations handles both sides statically known: the loop
// either never runs its body (condition already false, count demoted to
// Top per the stored-minus-one convention below) or runs forever (Bot).
func (e *Engine) constantCaseIterations(cmp ir.Op, a, b Chrec) Chrec {
	av, aok := constantValue(a)
	bv, bok := constantValue(b)
	if !aok || !bok {
		return Top{}
	}
	if evalCmp(cmp, av, bv) {
		return Bot{}
	}
	return Top{}
}

// affineCaseIterations solves `init + k*step cmp limit` for the number of
// iterations k for which the condition still holds, given init/step
// (poly's Left/Right, assumed resolved constants — a scoping simplification
// noted in DESIGN.md: nested symbolic init/step require instantiate to run
// first) and limit (the invariant side). Callers invert cmp before calling
// when the evolving chrec was originally the right-hand operand, so this
// function always reasons about "poly cmp limit".
func (e *Engine) affineCaseIterations(cmp ir.Op, poly Poly, limitChrec Chrec) Chrec {
	initC, ok := poly.Left.(Constant)
	if !ok {
		return Top{}
	}
	init, ok := constInt(initC.Value)
	if !ok {
		return Top{}
	}
	stepC, ok := poly.Right.(Constant)
	if !ok {
		return Top{}
	}
	step, ok := constInt(stepC.Value)
	if !ok {
		return Top{}
	}
	limit, ok := constantValue(limitChrec)
	if !ok {
		return Top{}
	}

	var count int64
	var known bool
	switch {
	case step == 0:
		if evalCmp(cmp, init, limit) {
			return Bot{}
		}
		return demoteZero()
	case step > 0:
		switch cmp {
		case ir.OpLtExpr:
			count, known = countUntil(init, limit, step, 0)
		case ir.OpLeExpr:
			count, known = countUntil(init, limit, step, 1)
		default: // > or >=: an increasing value can never satisfy a
			// decreasing-exit condition — signs incompatible.
			return Top{}
		}
	default: // step < 0
		switch cmp {
		case ir.OpGtExpr:
			count, known = countUntil(-init, -limit, -step, 0)
		case ir.OpGeExpr:
			count, known = countUntil(-init, -limit, -step, 1)
		default:
			return Top{}
		}
	}
	if !known {
		return Top{}
	}
	if count <= 0 {
		return demoteZero()
	}
	// Public convention: store the count minus one (spec §4.3.3).
	return Constant{Value: e.arena.IntConst(count-1, initC.Value.Type)}
}

// countUntil computes the number of iterations for which `init + k*step <
// limit` (bias 0) or `<=` (bias 1) holds, for step > 0, using floor
// division exclusively per Open Question (a).
func countUntil(init, limit, step, bias int64) (int64, bool) {
	if step <= 0 {
		return 0, false
	}
	adjustedLimit := limit + bias
	if adjustedLimit <= init {
		return 0, true
	}
	return ceilDiv(adjustedLimit-init, step), true
}

// demoteZero implements "a zero result then indicates an unreachable or
// unknowable loop and is further demoted to Top" (spec §4.3.3).
func demoteZero() Chrec {
	return Top{}
}

func constantValue(c Chrec) (int64, bool) {
	cc, ok := c.(Constant)
	if !ok {
		return 0, false
	}
	return constInt(cc.Value)
}

func evalCmp(cmp ir.Op, a, b int64) bool {
	switch cmp {
	case ir.OpLtExpr:
		return a < b
	case ir.OpLeExpr:
		return a <= b
	case ir.OpGtExpr:
		return a > b
	case ir.OpGeExpr:
		return a >= b
	case ir.OpEqExpr:
		return a == b
	case ir.OpNeExpr:
		return a != b
	default:
		return false
	}
}

func invertCmp(cmp ir.Op) ir.Op {
	switch cmp {
	case ir.OpLtExpr:
		return ir.OpGtExpr
	case ir.OpLeExpr:
		return ir.OpGeExpr
	case ir.OpGtExpr:
		return ir.OpLtExpr
	case ir.OpGeExpr:
		return ir.OpLeExpr
	default:
		return cmp
	}
}
