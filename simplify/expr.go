package simplify

import "github.com/ccore-lang/ccore/ir"

func (s *Simplifier) simplifyBinary(expr *ir.Node, pre, post *StmtList, pred Predicate, fb Fallback) *ir.Node {
	arena := s.ctx.Arena
	lhs := s.simplifyExpr(expr.Child(0), pre, post, isSimpleVal, FallbackHoist)
	rhs := s.simplifyExpr(expr.Child(1), pre, post, isSimpleVal, FallbackHoist)
	n := arena.NewExpr(expr.Op, expr.Loc, expr.Type, lhs, rhs)
	return s.finalize(n, pre, pred, fb)
}

func (s *Simplifier) simplifyUnary(expr *ir.Node, pre, post *StmtList, pred Predicate, fb Fallback) *ir.Node {
	arena := s.ctx.Arena
	operand := s.simplifyExpr(expr.Child(0), pre, post, isSimpleVal, FallbackHoist)
	n := arena.NewExpr(expr.Op, expr.Loc, expr.Type, operand)
	return s.finalize(n, pre, pred, fb)
}

// simplifyLogical lowers `a && b` / `a || b` to an if/else assigning a
// boolean temporary, evaluating b's side effects only on the branch where
// C's short-circuit rule says they occur (spec's short-circuit lowering).
func (s *Simplifier) simplifyLogical(expr *ir.Node, pre, post *StmtList, pred Predicate, fb Fallback) *ir.Node {
	arena := s.ctx.Arena
	tmp := arena.NewTemp(expr.Type, expr.Loc)
	ref := s.varRef(tmp)

	cond := s.simplifyExpr(expr.Child(0), pre, post, isSimpleCondExpr, FallbackHoist)

	var branchPre StmtList
	bVal := s.simplifyExpr(expr.Child(1), &branchPre, post, isSimpleVal, FallbackHoist)
	boolVal := arena.NewExpr(ir.OpNeExpr, expr.Loc, expr.Type, bVal, arena.IntConst(0, expr.Type))
	branchPre.Append(s.wrapExprStmt(arena.NewExpr(ir.OpModifyExpr, expr.Loc, expr.Type, ref, boolVal)))
	branchBody := s.chain(branchPre.Nodes())

	var shortVal *ir.Node
	if expr.Op == ir.OpTruthAndExpr {
		shortVal = arena.IntConst(0, expr.Type)
	} else {
		shortVal = arena.IntConst(1, expr.Type)
	}
	shortBody := s.chain([]*ir.Node{s.wrapExprStmt(arena.NewExpr(ir.OpModifyExpr, expr.Loc, expr.Type, ref, shortVal))})

	var thenBody, elseBody *ir.Node
	if expr.Op == ir.OpTruthAndExpr {
		thenBody, elseBody = branchBody, shortBody
	} else {
		thenBody, elseBody = shortBody, branchBody
	}

	ifStmt := arena.NewExpr(ir.OpIfStmt, expr.Loc, nil, cond, thenBody, elseBody)
	pre.Append(ifStmt)
	return s.finalize(ref, pre, pred, fb)
}

// simplifyCond lowers `a ? b : c` the same way: an if/else each assigning a
// temporary holding the chosen branch's value (spec's ternary lowering).
func (s *Simplifier) simplifyCond(expr *ir.Node, pre, post *StmtList, pred Predicate, fb Fallback) *ir.Node {
	arena := s.ctx.Arena
	tmp := arena.NewTemp(expr.Type, expr.Loc)
	ref := s.varRef(tmp)

	cond := s.simplifyExpr(expr.Child(0), pre, post, isSimpleCondExpr, FallbackHoist)

	var thenPre, elsePre StmtList
	thenVal := s.simplifyExpr(expr.Child(1), &thenPre, post, isSimpleVal, FallbackHoist)
	thenPre.Append(s.wrapExprStmt(arena.NewExpr(ir.OpModifyExpr, expr.Loc, expr.Type, ref, thenVal)))

	elseVal := s.simplifyExpr(expr.Child(2), &elsePre, post, isSimpleVal, FallbackHoist)
	elsePre.Append(s.wrapExprStmt(arena.NewExpr(ir.OpModifyExpr, expr.Loc, expr.Type, ref, elseVal)))

	ifStmt := arena.NewExpr(ir.OpIfStmt, expr.Loc, nil, cond, s.chain(thenPre.Nodes()), s.chain(elsePre.Nodes()))
	pre.Append(ifStmt)
	return s.finalize(ref, pre, pred, fb)
}

// simplifyComma lowers `(a, b)`: a is simplified purely for effect, b for
// value.
func (s *Simplifier) simplifyComma(expr *ir.Node, pre, post *StmtList, pred Predicate, fb Fallback) *ir.Node {
	s.simplifyForEffect(expr.Child(0), pre, post)
	return s.simplifyExpr(expr.Child(1), pre, post, pred, fb)
}

// simplifyModify lowers `lhs = rhs`: the left side settles into one
// addressable reference, the right into a single three-address-shaped
// expression, and the assignment itself becomes a statement; the
// expression's value (per C semantics, the assigned value) is the
// simplified lhs.
func (s *Simplifier) simplifyModify(expr *ir.Node, pre, post *StmtList, pred Predicate, fb Fallback) *ir.Node {
	arena := s.ctx.Arena
	lhs := s.simplifyLValue(expr.Child(0), pre, post)
	rhs := s.simplifyExpr(expr.Child(1), pre, post, isSimpleRHS, FallbackHoist)
	assign := arena.NewExpr(ir.OpModifyExpr, expr.Loc, expr.Type, lhs, rhs)
	pre.Append(s.wrapExprStmt(assign))
	return s.finalize(lhs, pre, pred, fb)
}

// simplifyLValue decomposes an assignment target's addressing computation
// (e.g. the index of an array_ref) without replacing the reference itself
// with a temporary, since assigning through a temp would not write back to
// the intended location.
func (s *Simplifier) simplifyLValue(lhs *ir.Node, pre, post *StmtList) *ir.Node {
	if lhs == nil {
		return nil
	}
	arena := s.ctx.Arena
	switch lhs.Op {
	case ir.OpVarRef, ir.OpParmRef, ir.OpResultRef:
		return lhs
	case ir.OpIndirectRef:
		ptr := s.simplifyExpr(lhs.Child(0), pre, post, isSimpleVal, FallbackHoist)
		return arena.NewExpr(ir.OpIndirectRef, lhs.Loc, lhs.Type, ptr)
	case ir.OpComponentRef:
		base := s.simplifyLValue(lhs.Child(0), pre, post)
		return arena.NewExpr(ir.OpComponentRef, lhs.Loc, lhs.Type, base, lhs.Child(1))
	case ir.OpArrayRef:
		base := s.simplifyLValue(lhs.Child(0), pre, post)
		idx := s.simplifyExpr(lhs.Child(1), pre, post, isSimpleVal, FallbackHoist)
		return arena.NewExpr(ir.OpArrayRef, lhs.Loc, lhs.Type, base, idx)
	case ir.OpBitFieldRef:
		base := s.simplifyLValue(lhs.Child(0), pre, post)
		return arena.NewExpr(ir.OpBitFieldRef, lhs.Loc, lhs.Type, base, lhs.Child(1), lhs.Child(2))
	default:
		return s.simplifyExpr(lhs, pre, post, isSimpleModifyLHS, FallbackNone)
	}
}

// simplifyIncDec lowers `++x`/`--x`/`x++`/`x--` into an explicit read,
// arithmetic update, and write, saving the pre-update value into a
// temporary for the postfix forms (spec's pre/post-increment lowering).
func (s *Simplifier) simplifyIncDec(expr *ir.Node, pre, post *StmtList, pred Predicate, fb Fallback) *ir.Node {
	arena := s.ctx.Arena
	target := s.simplifyExpr(expr.Child(0), pre, post, isSimpleVarName, FallbackNone)
	one := arena.IntConst(1, expr.Type)

	op := ir.OpPlusExpr
	if expr.Op == ir.OpPreDecrement || expr.Op == ir.OpPostDecrement {
		op = ir.OpMinusExpr
	}
	updated := arena.NewExpr(op, expr.Loc, expr.Type, target, one)
	assign := arena.NewExpr(ir.OpModifyExpr, expr.Loc, expr.Type, target, updated)

	switch expr.Op {
	case ir.OpPreIncrement, ir.OpPreDecrement:
		pre.Append(s.wrapExprStmt(assign))
		return s.finalize(target, pre, pred, fb)
	default:
		tmp := arena.NewTemp(expr.Type, expr.Loc)
		ref := s.varRef(tmp)
		save := arena.NewExpr(ir.OpModifyExpr, expr.Loc, expr.Type, ref, target)
		pre.Append(s.wrapExprStmt(save))
		pre.Append(s.wrapExprStmt(assign))
		return s.finalize(ref, pre, pred, fb)
	}
}

// callArgs is the payload OpCallExpr nodes carry: the argument list,
// stored out-of-band because Node's fixed four-child array has no room for
// an arbitrary-arity call (spec's "operator-specific payload" escape
// hatch).
type callArgs struct {
	Args []*ir.Node
}

func (s *Simplifier) simplifyCall(expr *ir.Node, pre, post *StmtList, pred Predicate, fb Fallback) *ir.Node {
	arena := s.ctx.Arena
	fn := s.simplifyExpr(expr.Child(0), pre, post, isSimpleID, FallbackHoist)

	var args []*ir.Node
	if ca, ok := expr.Payload().(callArgs); ok {
		args = ca.Args
	}
	simplifiedArgs := make([]*ir.Node, len(args))
	for i, a := range args {
		simplifiedArgs[i] = s.simplifyExpr(a, pre, post, isSimpleVal, FallbackHoist)
	}

	n := arena.NewExpr(ir.OpCallExpr, expr.Loc, expr.Type, fn)
	n.SetPayload(callArgs{Args: simplifiedArgs})
	return s.finalize(n, pre, pred, fb)
}

// simplifyStmtExpr lowers GNU C's `({ stmts...; value; })` statement
// expression: its statements are simplified and spliced directly into pre,
// and its trailing value expression becomes the result (spec's
// statement-expression handling).
func (s *Simplifier) simplifyStmtExpr(expr *ir.Node, pre, post *StmtList, pred Predicate, fb Fallback) *ir.Node {
	body := expr.Child(0)
	inner := s.SimplifyStmt(body)
	if inner != nil {
		pre.Append(inner)
	}
	value, _ := expr.Payload().(*ir.Node)
	val := s.simplifyExpr(value, pre, post, isSimpleVal, FallbackHoist)
	return s.finalize(val, pre, pred, fb)
}

// simplifySave implements save_expr by simplifying the wrapped expression
// each time the node is reached. No temporary is shared between
// occurrences: a save_expr reached twice is simplified, and evaluated, twice.
func (s *Simplifier) simplifySave(expr *ir.Node, pre, post *StmtList, pred Predicate, fb Fallback) *ir.Node {
	inner := s.simplifyExpr(expr.Child(0), pre, post, isSimpleRHS, FallbackHoist)
	return s.finalize(inner, pre, pred, fb)
}

// simplifyRef decomposes *p, &x, s.f, a[i], and bit-field accesses: the
// base settles into isSimpleID, any index/operand into isSimpleVal, and the
// reference node itself is rebuilt and handed to finalize like any other
// expression.
func (s *Simplifier) simplifyRef(expr *ir.Node, pre, post *StmtList, pred Predicate, fb Fallback) *ir.Node {
	arena := s.ctx.Arena
	switch expr.Op {
	case ir.OpIndirectRef:
		ptr := s.simplifyExpr(expr.Child(0), pre, post, isSimpleVal, FallbackHoist)
		n := arena.NewExpr(ir.OpIndirectRef, expr.Loc, expr.Type, ptr)
		return s.finalize(n, pre, pred, fb)
	case ir.OpAddrExpr:
		target := s.simplifyLValue(expr.Child(0), pre, post)
		n := arena.NewExpr(ir.OpAddrExpr, expr.Loc, expr.Type, target)
		return s.finalize(n, pre, pred, fb)
	case ir.OpComponentRef:
		base := s.simplifyExpr(expr.Child(0), pre, post, isSimpleID, FallbackHoist)
		n := arena.NewExpr(ir.OpComponentRef, expr.Loc, expr.Type, base, expr.Child(1))
		return s.finalize(n, pre, pred, fb)
	case ir.OpArrayRef:
		base := s.simplifyExpr(expr.Child(0), pre, post, isSimpleID, FallbackHoist)
		idx := s.simplifyExpr(expr.Child(1), pre, post, isSimpleVal, FallbackHoist)
		n := arena.NewExpr(ir.OpArrayRef, expr.Loc, expr.Type, base, idx)
		return s.finalize(n, pre, pred, fb)
	default: // OpBitFieldRef
		base := s.simplifyExpr(expr.Child(0), pre, post, isSimpleID, FallbackHoist)
		n := arena.NewExpr(ir.OpBitFieldRef, expr.Loc, expr.Type, base, expr.Child(1), expr.Child(2))
		return s.finalize(n, pre, pred, fb)
	}
}

// simplifyGenericNary handles the remaining nary/opaque operators
// (compound literals, va_arg, opaque builtin wrappers) uniformly: every
// direct child is simplified to a simple value and the node is rebuilt.
func (s *Simplifier) simplifyGenericNary(expr *ir.Node, pre, post *StmtList, pred Predicate, fb Fallback) *ir.Node {
	arena := s.ctx.Arena
	children := make([]*ir.Node, expr.NumKids)
	for i := 0; i < expr.NumKids; i++ {
		children[i] = s.simplifyExpr(expr.Child(i), pre, post, isSimpleVal, FallbackHoist)
	}
	n := arena.NewExpr(expr.Op, expr.Loc, expr.Type, children...)
	n.SetPayload(expr.Payload())
	return s.finalize(n, pre, pred, fb)
}
