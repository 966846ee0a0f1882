package simplify

import "github.com/ccore-lang/ccore/ir"

// Predicate decides whether a simplified expression is already acceptable
// at its use site, or must instead be hoisted into a temporary (spec §4's
// `simplify_expr(expr, pre, post, predicate, context, fallback)` primitive).
// Grounded on original_source's is_gimple_val/is_gimple_reg_rhs/
// is_gimple_condexpr/is_gimple_lvalue family from gimplify.c's conceptual
// predecessor c-simplify.c.
type Predicate func(n *ir.Node) bool

// isSimpleVal accepts only what SIMPLE form allows as an operand: a
// constant or a bare reference, nothing computed.
func isSimpleVal(n *ir.Node) bool {
	if n == nil {
		return true
	}
	switch n.Op {
	case ir.OpIntCst, ir.OpRealCst, ir.OpStringCst, ir.OpComplexCst, ir.OpVectorCst,
		ir.OpVarRef, ir.OpParmRef, ir.OpResultRef:
		return true
	default:
		return false
	}
}

// isSimpleID accepts a simple value or one more level of addressable
// reference (indirection, field/array access) — the shapes a decomposed
// lvalue is allowed to settle into.
func isSimpleID(n *ir.Node) bool {
	if isSimpleVal(n) {
		return true
	}
	switch n.Op {
	case ir.OpIndirectRef, ir.OpComponentRef, ir.OpArrayRef, ir.OpBitFieldRef:
		return true
	default:
		return false
	}
}

// isSimpleModifyLHS is the predicate an assignment's left-hand side is
// simplified against: it must settle into one addressable reference form,
// never a temp (assigning through a temp would change the assignment's
// target).
func isSimpleModifyLHS(n *ir.Node) bool {
	if n == nil {
		return false
	}
	switch n.Op {
	case ir.OpVarRef, ir.OpParmRef, ir.OpResultRef,
		ir.OpIndirectRef, ir.OpComponentRef, ir.OpArrayRef, ir.OpBitFieldRef:
		return true
	default:
		return false
	}
}

// isSimpleRHS accepts a simple value, or exactly one more arithmetic/
// comparison/ref operation whose own operands are already simple values —
// i.e. already in three-address shape (spec's is_simple_rhs).
func isSimpleRHS(n *ir.Node) bool {
	if isSimpleVal(n) {
		return true
	}
	if n == nil {
		return false
	}
	for i := 0; i < n.NumKids; i++ {
		if !isSimpleVal(n.Child(i)) {
			return false
		}
	}
	return true
}

// isSimpleCondExpr accepts a simple value or a single comparison of two
// simple values — what an `if`/loop condition is allowed to settle into.
func isSimpleCondExpr(n *ir.Node) bool {
	if isSimpleVal(n) {
		return true
	}
	switch n.Op {
	case ir.OpEqExpr, ir.OpNeExpr, ir.OpLtExpr, ir.OpLeExpr, ir.OpGtExpr, ir.OpGeExpr:
		return isSimpleVal(n.Child(0)) && isSimpleVal(n.Child(1))
	default:
		return false
	}
}

// isSimpleVarName accepts only a bare variable/parameter/result reference,
// used where a pure name is required (the target operand of an increment).
func isSimpleVarName(n *ir.Node) bool {
	if n == nil {
		return false
	}
	switch n.Op {
	case ir.OpVarRef, ir.OpParmRef, ir.OpResultRef:
		return true
	default:
		return false
	}
}
