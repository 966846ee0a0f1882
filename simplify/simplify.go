// Package simplify lowers rich expression/statement trees to SIMPLE
// three-address form: at most one operation per statement, every operand a
// constant or a bare reference, conditionals and switches reduced to
// if/goto/label/compound statements, and for/while/do loops retained as
// loop constructs whose header holds only a simplified condition (spec
// §4.1.2, §3.3). Grounded throughout on original_source's c-simplify.c and
// gimplify.c (the SIMPLE-to-GIMPLE lowering this core's predecessor shares
// its shape with).
package simplify

import (
	"github.com/ccore-lang/ccore/config"
	"github.com/ccore-lang/ccore/diagnostic"
	"github.com/ccore-lang/ccore/ir"
)

// Context bundles the collaborators every simplification step needs: the
// arena new nodes are allocated from, the sink diagnostics are reported
// through, and the dialect switches that affect lowering choices (spec §9
// Open Question decisions).
type Context struct {
	Arena *ir.Arena
	Sink  diagnostic.Sink
	Cfg   *config.Config
}

// Simplifier holds the mutable state of one function's lowering pass: the
// label/break/continue scope stack a goto-producing construct consults.
type Simplifier struct {
	ctx    *Context
	scopes []loopScope
}

// New returns a Simplifier bound to ctx.
func New(ctx *Context) *Simplifier {
	return &Simplifier{ctx: ctx}
}

// loopScope records the break/continue targets in effect inside a
// for/while/do/switch body, consulted when lowering a break or continue
// statement to a goto (spec's per-construct statement lowering).
type loopScope struct {
	breakLabel    *ir.Node
	continueLabel *ir.Node
	isSwitch      bool
}

// Fallback selects what finalize does when a simplified expression fails
// its predicate: FallbackHoist assigns it to a fresh temporary (the default
// for subexpressions used as operands); FallbackNone leaves it as-is,
// meaning the caller is only interested in any side effects already
// appended to pre (used when simplifying an expression purely for effect,
// spec's statement-expression/comma handling).
type Fallback int

const (
	FallbackHoist Fallback = iota
	FallbackNone
)

// SimplifyFunction lowers every statement of body (the function's top-level
// compound statement) to SIMPLE form and returns the replacement tree
// (spec's `simplify_function` entry point).
func (s *Simplifier) SimplifyFunction(body *ir.Node) *ir.Node {
	return s.SimplifyStmt(body)
}

// simplifyExpr is the `simplify_expr(expr, pre, post, predicate, fallback)`
// primitive: it recursively decomposes expr into SIMPLE form, appending any
// statements the decomposition requires to pre (no construct appends to
// post: a postfix increment saves the old value into a temporary in pre),
// and returns a replacement expression satisfying predicate — or, if
// fallback is FallbackHoist and the decomposed form still doesn't satisfy
// it, a fresh temporary holding that value.
func (s *Simplifier) simplifyExpr(expr *ir.Node, pre, post *StmtList, pred Predicate, fb Fallback) *ir.Node {
	if expr == nil {
		return nil
	}
	switch expr.Op {
	case ir.OpIntCst, ir.OpRealCst, ir.OpStringCst, ir.OpComplexCst, ir.OpVectorCst,
		ir.OpVarRef, ir.OpParmRef, ir.OpResultRef:
		return expr

	case ir.OpTruthAndExpr, ir.OpTruthOrExpr:
		return s.simplifyLogical(expr, pre, post, pred, fb)
	case ir.OpCondExpr:
		return s.simplifyCond(expr, pre, post, pred, fb)
	case ir.OpCompoundExpr:
		return s.simplifyComma(expr, pre, post, pred, fb)
	case ir.OpModifyExpr:
		return s.simplifyModify(expr, pre, post, pred, fb)
	case ir.OpPreIncrement, ir.OpPreDecrement, ir.OpPostIncrement, ir.OpPostDecrement:
		return s.simplifyIncDec(expr, pre, post, pred, fb)
	case ir.OpCallExpr:
		return s.simplifyCall(expr, pre, post, pred, fb)
	case ir.OpStmtExpr:
		return s.simplifyStmtExpr(expr, pre, post, pred, fb)
	case ir.OpSaveExpr:
		return s.simplifySave(expr, pre, post, pred, fb)
	case ir.OpIndirectRef, ir.OpAddrExpr, ir.OpComponentRef, ir.OpArrayRef, ir.OpBitFieldRef:
		return s.simplifyRef(expr, pre, post, pred, fb)
	case ir.OpConvertExpr, ir.OpNopExpr, ir.OpNegateExpr, ir.OpBitNotExpr, ir.OpTruthNotExpr:
		return s.simplifyUnary(expr, pre, post, pred, fb)
	case ir.OpConstructorExpr, ir.OpVaArgExpr, ir.OpBuiltinWrapExpr:
		return s.simplifyGenericNary(expr, pre, post, pred, fb)
	default:
		return s.simplifyBinary(expr, pre, post, pred, fb)
	}
}

// finalize applies predicate to node, hoisting it into a fresh temporary
// when the predicate rejects it and fb requests hoisting.
func (s *Simplifier) finalize(node *ir.Node, pre *StmtList, pred Predicate, fb Fallback) *ir.Node {
	if node == nil || pred == nil || pred(node) {
		return node
	}
	if fb == FallbackNone {
		return node
	}
	arena := s.ctx.Arena
	tmp := arena.NewTemp(node.Type, node.Loc)
	ref := s.varRef(tmp)
	assign := arena.NewExpr(ir.OpModifyExpr, node.Loc, node.Type, ref, node)
	pre.Append(s.wrapExprStmt(assign))
	return ref
}

// simplifyForEffect lowers expr purely for whatever side effects it
// carries, discarding its value; a comma operator's left operand and a
// bare expression-statement both reach the tree this way (spec's
// "expressions simplified for effect" case).
func (s *Simplifier) simplifyForEffect(expr *ir.Node, pre, post *StmtList) {
	if expr == nil {
		return
	}
	if expr.Op == ir.OpCompoundExpr {
		s.simplifyForEffect(expr.Child(0), pre, post)
		s.simplifyForEffect(expr.Child(1), pre, post)
		return
	}
	v := s.simplifyExpr(expr, pre, post, nil, FallbackNone)
	if v != nil && v.SideEffects() {
		pre.Append(s.wrapExprStmt(v))
	}
}
