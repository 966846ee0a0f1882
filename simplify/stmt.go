package simplify

import "github.com/ccore-lang/ccore/ir"

// SimplifyStmt lowers one statement (and, for OpCompoundStmt, its whole
// chain) to SIMPLE form, returning the replacement chain — possibly nil for
// a statement that lowers away entirely (an empty compound, a no-effect
// expression statement).
func (s *Simplifier) SimplifyStmt(stmt *ir.Node) *ir.Node {
	if stmt == nil {
		return nil
	}
	var out StmtList
	s.simplifyStmtInto(stmt, &out)
	return s.chain(out.Nodes())
}

// simplifyStmtInto lowers stmt, appending the resulting SIMPLE statements
// to out. Compound statements recurse over their cons-chain of children so
// a function body of arbitrary length flattens into one list rather than
// nesting arbitrarily deep.
func (s *Simplifier) simplifyStmtInto(stmt *ir.Node, out *StmtList) {
	if stmt == nil {
		return
	}
	arena := s.ctx.Arena

	switch stmt.Op {
	case ir.OpCompoundStmt:
		s.simplifyStmtInto(stmt.Child(0), out)
		s.simplifyStmtInto(stmt.Child(1), out)

	case ir.OpExprStmt:
		var pre, post StmtList
		s.simplifyForEffect(stmt.Child(0), &pre, &post)
		out.AppendAll(&pre)
		out.AppendAll(&post)

	case ir.OpDeclStmt:
		out.Append(stmt)

	case ir.OpLabelStmt, ir.OpGotoStmt:
		out.Append(stmt)

	case ir.OpReturnStmt:
		var pre StmtList
		var post StmtList
		val := s.simplifyExpr(stmt.Child(0), &pre, &post, isSimpleVal, FallbackHoist)
		out.AppendAll(&pre)
		out.Append(arena.NewExpr(ir.OpReturnStmt, stmt.Loc, nil, val))
		out.AppendAll(&post)

	case ir.OpIfStmt:
		var pre StmtList
		cond := s.simplifyExpr(stmt.Child(0), &pre, &pre, isSimpleCondExpr, FallbackHoist)
		out.AppendAll(&pre)
		thenBody := s.SimplifyStmt(stmt.Child(1))
		elseBody := s.SimplifyStmt(stmt.Child(2))
		out.Append(arena.NewExpr(ir.OpIfStmt, stmt.Loc, nil, cond, thenBody, elseBody))

	case ir.OpForStmt:
		s.simplifyFor(stmt, out)
	case ir.OpWhileStmt:
		s.simplifyWhile(stmt, out)
	case ir.OpDoStmt:
		s.simplifyDo(stmt, out)
	case ir.OpSwitchStmt:
		s.simplifySwitch(stmt, out)

	case ir.OpBreakStmt:
		out.Append(s.breakGoto(stmt))
	case ir.OpContinueStmt:
		out.Append(s.continueGoto(stmt))

	case ir.OpTryFinallyStmt:
		s.simplifyTryFinally(stmt, out)

	case ir.OpCaseLabel:
		// simplifySwitch pre-attaches the goto target label it generated
		// for this arm via payload; emit that label statement in the
		// case's original position so the gotos it built land here.
		if lbl, ok := stmt.Payload().(*ir.Node); ok {
			out.Append(lbl)
		} else {
			out.Append(stmt)
		}

	case ir.OpAsmStmt, ir.OpBindExpr, ir.OpScopeStmt:
		out.Append(stmt)

	default:
		// An expression reached where a statement was expected (the
		// top-level body of a statement-expression, for instance):
		// simplify for effect like any other expression-statement.
		var pre, post StmtList
		s.simplifyForEffect(stmt, &pre, &post)
		out.AppendAll(&pre)
		out.AppendAll(&post)
	}
}

func (s *Simplifier) newLabel(loc ir.Location, hint string) *ir.Node {
	arena := s.ctx.Arena
	decl := arena.NewTemp(nil, loc)
	decl.Op = ir.OpLabelDecl
	decl.SetPayload(hint)
	return arena.NewExpr(ir.OpLabelStmt, loc, nil, decl)
}

func labelRefGoto(arena *ir.Arena, labelStmt *ir.Node) *ir.Node {
	return arena.NewExpr(ir.OpGotoStmt, labelStmt.Loc, nil, labelStmt.Child(0))
}

func (s *Simplifier) pushLoop(breakLabel, continueLabel *ir.Node, isSwitch bool) {
	s.scopes = append(s.scopes, loopScope{breakLabel: breakLabel, continueLabel: continueLabel, isSwitch: isSwitch})
}

func (s *Simplifier) popLoop() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// breakGoto resolves a break statement against the innermost enclosing
// scope. A switch is still flattened to if/goto soup (simplifySwitch), so a
// break directly inside one must become a goto to the switch's done label;
// a break inside a retained for/while/do needs no rewriting at all, since
// the loop construct itself is kept and already gives break its native
// exit-the-loop meaning.
func (s *Simplifier) breakGoto(stmt *ir.Node) *ir.Node {
	if len(s.scopes) == 0 {
		return stmt
	}
	top := s.scopes[len(s.scopes)-1]
	if !top.isSwitch {
		return stmt
	}
	return labelRefGoto(s.ctx.Arena, top.breakLabel)
}

// continueGoto always rewrites to a goto, skipping past any intervening
// switch scope to the nearest loop's continue label: the retained
// for(;cond_s;) header carries no step slot (step lives in the body, right
// before the re-tested condition), so a continue that merely fell through
// to the native header would skip the step and pre_cond evaluation it must
// still run before the next test.
func (s *Simplifier) continueGoto(stmt *ir.Node) *ir.Node {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if s.scopes[i].isSwitch {
			continue
		}
		return labelRefGoto(s.ctx.Arena, s.scopes[i].continueLabel)
	}
	return stmt
}

// simplifyFor lowers `for (init; cond; step) body` following
// simplify_for_stmt: the loop header is kept, reduced to its condition
// alone, while init is hoisted before the loop and step sinks into the
// body's tail alongside a duplicate of whatever pre_cond computes cond's
// side effects, so the retained header's automatic re-test after each
// iteration (and after a continue, which jumps straight to that tail)
// observes a freshly computed condition:
//
//	pre_init; init; post_init; pre_cond;
//	for ( ; cond_s; ) {
//	    body;
//	    L.cont: pre_step; step; post_step; pre_cond;
//	}
func (s *Simplifier) simplifyFor(stmt *ir.Node, out *StmtList) {
	arena := s.ctx.Arena
	loc := stmt.Loc

	init, cond, step, body := stmt.Child(0), stmt.Child(1), stmt.Child(2), stmt.Child(3)

	var initPre StmtList
	s.simplifyForEffect(init, &initPre, &initPre)
	out.AppendAll(&initPre)

	var condPre StmtList
	condVal := s.simplifyExpr(cond, &condPre, &condPre, isSimpleCondExpr, FallbackHoist)
	out.AppendAll(&condPre)
	if condVal == nil {
		condVal = arena.IntConst(1, nil)
	}

	contLabel := s.newLabel(loc, "L.cont")

	var bodyOut StmtList
	s.pushLoop(nil, contLabel, false)
	s.simplifyStmtInto(body, &bodyOut)
	s.popLoop()

	bodyOut.Append(contLabel)
	var stepPre StmtList
	s.simplifyForEffect(step, &stepPre, &stepPre)
	bodyOut.AppendAll(&stepPre)

	var wrapCondPre StmtList
	s.simplifyExpr(cond, &wrapCondPre, &wrapCondPre, isSimpleCondExpr, FallbackHoist)
	bodyOut.AppendAll(&wrapCondPre)

	loopBody := s.chain(bodyOut.Nodes())
	out.Append(arena.NewExpr(ir.OpForStmt, loc, nil, nil, condVal, nil, loopBody))
}

// simplifyWhile lowers `while (cond) body` as a for-loop with no init/step
// (spec treats while as for's degenerate case, matching c-simplify.c's
// shared simplify_loop_stmt helper).
func (s *Simplifier) simplifyWhile(stmt *ir.Node, out *StmtList) {
	arena := s.ctx.Arena
	forStmt := arena.NewExpr(ir.OpForStmt, stmt.Loc, nil, nil, stmt.Child(0), nil, stmt.Child(1))
	s.simplifyFor(forStmt, out)
}

// simplifyDo lowers `do body while (cond)` the same way as simplifyFor but
// without a loop-entry test: the native do-loop's header is retained as the
// body-exit condition, with continue again landing on a tail label ahead of
// cond's re-simplified side effects.
//
//	do {
//	    body;
//	    L.cont: pre_cond;
//	} while (cond_s);
func (s *Simplifier) simplifyDo(stmt *ir.Node, out *StmtList) {
	arena := s.ctx.Arena
	loc := stmt.Loc
	body, cond := stmt.Child(0), stmt.Child(1)

	contLabel := s.newLabel(loc, "L.cont")

	var bodyOut StmtList
	s.pushLoop(nil, contLabel, false)
	s.simplifyStmtInto(body, &bodyOut)
	s.popLoop()

	bodyOut.Append(contLabel)
	var condPre StmtList
	condVal := s.simplifyExpr(cond, &condPre, &condPre, isSimpleCondExpr, FallbackHoist)
	bodyOut.AppendAll(&condPre)
	if condVal == nil {
		condVal = arena.IntConst(1, nil)
	}

	loopBody := s.chain(bodyOut.Nodes())
	out.Append(arena.NewExpr(ir.OpDoStmt, loc, nil, loopBody, condVal))
}

// switchCases is the payload an OpSwitchStmt node carries: one CaseLabel
// per arm plus its guarded statement, again routed through payload since
// a switch may have arbitrarily many arms.
type switchCases struct {
	Cases []*ir.Node // OpCaseLabel nodes; Child(0) is the case constant, nil for default
	Body  *ir.Node
}

// simplifySwitch lowers a switch into a chain of `if (expr == case) goto
// Lcase;` tests followed by the (already-labeled) body, matching
// c-simplify.c's simplify_switch_stmt linear-search lowering (the same one
// used before GCC's later jump-table optimization passes run).
func (s *Simplifier) simplifySwitch(stmt *ir.Node, out *StmtList) {
	arena := s.ctx.Arena
	loc := stmt.Loc

	var pre StmtList
	val := s.simplifyExpr(stmt.Child(0), &pre, &pre, isSimpleVal, FallbackHoist)
	out.AppendAll(&pre)

	sc, _ := stmt.Payload().(switchCases)
	doneLabel := s.newLabel(loc, "L.done")

	var defaultGoto *ir.Node
	for _, c := range sc.Cases {
		caseLabel := s.newLabel(loc, "L.case")
		// Attach the label to the case node by identity so that when the
		// switch body (which embeds these same nodes) is simplified below,
		// its OpCaseLabel branch emits this exact label statement in
		// place — the goto targets built here and the labels that land in
		// the lowered body are thereby kept in sync.
		c.SetPayload(caseLabel)
		if c.Child(0) == nil {
			defaultGoto = labelRefGoto(arena, caseLabel)
		}
	}
	for _, c := range sc.Cases {
		caseVal := c.Child(0)
		if caseVal == nil {
			continue // the default arm has no test; it's reached via defaultGoto
		}
		caseLabel, _ := c.Payload().(*ir.Node)
		eq := arena.NewExpr(ir.OpEqExpr, loc, nil, val, caseVal)
		out.Append(arena.NewExpr(ir.OpIfStmt, loc, nil, eq, labelRefGoto(arena, caseLabel), nil))
	}
	if defaultGoto != nil {
		out.Append(defaultGoto)
	} else {
		out.Append(labelRefGoto(arena, doneLabel))
	}

	s.pushLoop(doneLabel, doneLabel, true)
	out.Append(s.SimplifyStmt(sc.Body))
	s.popLoop()
	out.Append(doneLabel)
}

// simplifyTryFinally lowers the SPEC_FULL cleanup-scope construct by
// emitting the simplified try block followed once by the simplified
// finally block. The finally block is not duplicated onto early-exit
// paths: a break, continue, goto or return that leaves the try block
// skips it.
func (s *Simplifier) simplifyTryFinally(stmt *ir.Node, out *StmtList) {
	tryBody, finallyBody := stmt.Child(0), stmt.Child(1)
	out.Append(s.SimplifyStmt(tryBody))
	out.Append(s.SimplifyStmt(finallyBody))
}
