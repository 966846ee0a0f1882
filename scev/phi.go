package scev

import "github.com/ccore-lang/ccore/ir"

// interpretLoopPhi is interpret_loop_phi: split phi into its initial
// condition (the entry argument) and its evolution (walking the back
// edge), then combine them (spec §4.3.2).
func (e *Engine) interpretLoopPhi(loop *Loop, phi *PhiNode) Chrec {
	init := e.analyzeInitialCondition(phi)
	if phi.Back == nil {
		return init
	}
	evolution := e.analyzeEvolutionInLoop(loop, phi)
	c := composeInitAndEvolution(loop, init, evolution)
	if _, ok := c.(Peeled); ok {
		e.Stats.Peeled++
	}
	return c
}

// analyzeInitialCondition is analyze_initial_condition: the value flowing
// in from outside the loop, as seen on entry.
func (e *Engine) analyzeInitialCondition(phi *PhiNode) Chrec {
	if phi.Entry == nil {
		return Top{}
	}
	return Constant{Value: phi.Entry}
}

// evolutionKind distinguishes what shape analyzeEvolutionInLoop found so
// composeInitAndEvolution knows how to combine it with the initial
// condition.
type evolutionKind int

const (
	evolutionAdditive evolutionKind = iota
	evolutionMultiplicative
	evolutionPeeled
	evolutionTop
)

type evolution struct {
	kind evolutionKind
	step Chrec // the +incr or *factor amount, for additive/multiplicative
	rest *ir.Node // the raw back-edge expression, for the peeled fallback
}

// analyzeEvolutionInLoop is analyze_evolution_in_loop composed with
// follow_ssa_edge: it classifies phi's back-edge expression as an additive
// step, a multiplicative factor, an inner-loop-composed step, or (if none
// of those patterns match) a peeled fallback.
func (e *Engine) analyzeEvolutionInLoop(loop *Loop, phi *PhiNode) evolution {
	if phi.Inner != nil {
		return e.composeOverallEffectOfInnerLoop(loop, phi)
	}
	back := phi.Back
	switch back.Op {
	case ir.OpPlusExpr:
		if incr, ok := e.operandOtherThan(phi.Var, back); ok {
			return evolution{kind: evolutionAdditive, step: Constant{Value: incr}}
		}
	case ir.OpMinusExpr:
		// a - incr only has an additive evolution when phi.Var is the
		// minuend (incr - a would invert the recurrence's direction every
		// step, which is not a chrec this family can express).
		if refersTo(back.Child(0), phi.Var) {
			return evolution{kind: evolutionAdditive, step: Constant{Value: negated(e.arena, back.Child(1))}}
		}
	case ir.OpMultExpr:
		if factor, ok := e.operandOtherThan(phi.Var, back); ok {
			return evolution{kind: evolutionMultiplicative, step: Constant{Value: factor}}
		}
	}
	return evolution{kind: evolutionPeeled, rest: back}
}

// operandOtherThan returns expr's operand that is not a reference to v,
// reporting false when neither or both operands reference v (follow_ssa_edge
// only recognizes the single-reference shape a simple induction update
// takes).
func (e *Engine) operandOtherThan(v *ir.Node, expr *ir.Node) (*ir.Node, bool) {
	a, b := expr.Child(0), expr.Child(1)
	aIsV := refersTo(a, v)
	bIsV := refersTo(b, v)
	switch {
	case aIsV && !bIsV:
		return b, true
	case bIsV && !aIsV:
		return a, true
	default:
		return nil, false
	}
}

// refersTo reports whether n is a reference to declaration v — either n is
// v itself (both declarations) or n is a VarRef/ParmRef/ResultRef whose
// Child(0) is v. A phi's Var field names the declaration, while the
// back-edge expression mentions it through a reference node, so comparing
// raw node identity would never match; this unwraps the reference first.
func refersTo(n *ir.Node, v *ir.Node) bool {
	if n == nil || v == nil {
		return false
	}
	if n.ID() == v.ID() {
		return true
	}
	switch n.Op {
	case ir.OpVarRef, ir.OpParmRef, ir.OpResultRef:
		return n.Child(0) != nil && n.Child(0).ID() == v.ID()
	default:
		return false
	}
}

// negated wraps n in a unary negation, used to turn `a - c` into the
// additive step `-c` for add_to_evolution.
func negated(arena *ir.Arena, n *ir.Node) *ir.Node {
	if n == nil {
		return nil
	}
	if v, ok := constInt(n); ok {
		return arena.IntConst(-v, n.Type)
	}
	return arena.NewExpr(ir.OpNegateExpr, n.Loc, n.Type, n)
}

// composeInitAndEvolution combines the initial condition with the
// classified evolution, producing the final chrec for phi.
func composeInitAndEvolution(loop *Loop, init Chrec, ev evolution) Chrec {
	switch ev.kind {
	case evolutionAdditive:
		return addToEvolution(loop, init, ev.step)
	case evolutionMultiplicative:
		return multiplyEvolution(loop, init, ev.step)
	case evolutionTop:
		return Top{}
	default:
		return Peeled{Loop: loop, First: init, Rest: Constant{Value: ev.rest}}
	}
}

// addToEvolution is add_to_evolution: turns `{a}` into `{a, +, incr}_loop`.
// If prev is already a Poly over loop, incr accumulates into its Right
// (PLUS_EXPR/MINUS_EXPR chains compose additively), matching the original's
// handling of a back edge that adds to the induction variable more than
// once before looping.
func addToEvolution(loop *Loop, prev Chrec, incr Chrec) Chrec {
	if p, ok := prev.(Poly); ok && p.Loop == loop {
		return Poly{Loop: loop, Left: p.Left, Right: sumChrec(p.Right, incr)}
	}
	return Poly{Loop: loop, Left: prev, Right: incr}
}

// multiplyEvolution is multiply_evolution: turns `{a}` into
// `{a, *, factor}_loop`.
func multiplyEvolution(loop *Loop, prev Chrec, factor Chrec) Chrec {
	if p, ok := prev.(Expo); ok && p.Loop == loop {
		return Expo{Loop: loop, Left: p.Left, Right: productChrec(p.Right, factor)}
	}
	return Expo{Loop: loop, Left: prev, Right: factor}
}

// sumChrec adds two invariant (Constant) chrecs symbolically when both are
// resolved integers, otherwise leaves the accumulation as the most recent
// step — a deliberate simplification over the original's full
// chrec_fold_plus, which handles polynomial-plus-polynomial folding this
// engine's scope does not need (nested induction composition arrives via
// compose_overall_effect_of_inner_loop, not nested PLUS_EXPRs).
func sumChrec(a, b Chrec) Chrec {
	ac, aok := a.(Constant)
	bc, bok := b.(Constant)
	if aok && bok {
		if av, ok1 := constInt(ac.Value); ok1 {
			if bv, ok2 := constInt(bc.Value); ok2 {
				return Constant{Value: intLike(ac.Value, av+bv)}
			}
		}
	}
	return b
}

func productChrec(a, b Chrec) Chrec {
	ac, aok := a.(Constant)
	bc, bok := b.(Constant)
	if aok && bok {
		if av, ok1 := constInt(ac.Value); ok1 {
			if bv, ok2 := constInt(bc.Value); ok2 {
				return Constant{Value: intLike(ac.Value, av*bv)}
			}
		}
	}
	return b
}

// intLike builds a fresh int constant of like's type without needing an
// Arena reference at every call site (used inside pure chrec-folding
// helpers that only have access to existing nodes, not an engine).
func intLike(like *ir.Node, v int64) *ir.Node {
	if like == nil {
		return nil
	}
	n := &ir.Node{Op: ir.OpIntCst, Type: like.Type}
	n.SetPayload(v)
	return n
}

// composeOverallEffectOfInnerLoop is
// compute_overall_effect_of_inner_loop: when a loop-carried value's
// back-edge is itself driven by a strictly nested loop's induction
// variable, the outer step is the inner loop's total effect — the inner
// step multiplied by the inner loop's iteration count. If the inner
// iteration count is unknown, the outer evolution becomes Top (spec
// §4.3.2).
func (e *Engine) composeOverallEffectOfInnerLoop(loop *Loop, phi *PhiNode) evolution {
	inner := phi.Inner
	if inner == nil || inner.Loop == nil {
		return evolution{kind: evolutionPeeled, rest: phi.Back}
	}
	innerChrec := e.Scev(inner.Loop, inner)
	innerPoly, ok := innerChrec.(Poly)
	if !ok {
		return evolution{kind: evolutionPeeled, rest: phi.Back}
	}
	// The inner loop's iteration count must already have been computed by a
	// caller (via NumberOfIterations, which caches it on inner.Loop.IterCount)
	// before this composition can run; an uncomputed count forces the outer
	// evolution to the peeled fallback rather than guess, and a Top count
	// makes it Top.
	count := inner.Loop.IterCount
	if count == nil {
		return evolution{kind: evolutionPeeled, rest: phi.Back}
	}
	if _, isTop := count.(Top); isTop {
		return evolution{kind: evolutionTop}
	}
	return evolution{kind: evolutionAdditive, step: productChrecGeneric(innerPoly.Right, count)}
}

// productChrecGeneric multiplies two chrecs when both happen to be
// resolved constants, otherwise returns the first operand unevaluated
// (conservatively keeping the engine total rather than failing) — used
// only by the inner-loop composition path above.
func productChrecGeneric(a, b Chrec) Chrec {
	if ac, ok := a.(Constant); ok {
		if bc, ok2 := b.(Constant); ok2 {
			if av, ok3 := constInt(ac.Value); ok3 {
				if bv, ok4 := constInt(bc.Value); ok4 {
					return Constant{Value: intLike(ac.Value, av*bv)}
				}
			}
		}
	}
	return a
}
