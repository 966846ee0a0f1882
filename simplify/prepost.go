package simplify

import "github.com/ccore-lang/ccore/ir"

// StmtList accumulates the statements a simplification step must emit
// before (pre) or after (post) the expression it is decomposing — spec
// §4's pre/post statement-chain builder. It is a plain append-only slice;
// chain() folds it into the IR's cons-cell statement representation only
// once, at the point a caller needs an actual Node.
type StmtList struct {
	stmts []*ir.Node
}

// Append adds stmt to the end of the list.
func (l *StmtList) Append(stmt *ir.Node) {
	if stmt == nil {
		return
	}
	l.stmts = append(l.stmts, stmt)
}

// AppendAll adds every statement of other, in order.
func (l *StmtList) AppendAll(other *StmtList) {
	if other == nil {
		return
	}
	l.stmts = append(l.stmts, other.stmts...)
}

// Nodes returns the accumulated statements.
func (l *StmtList) Nodes() []*ir.Node { return l.stmts }

// Empty reports whether no statements have been appended.
func (l *StmtList) Empty() bool { return len(l.stmts) == 0 }

// chain folds stmts into a right-leaning cons list of OpCompoundStmt nodes,
// Children[0]=this statement, Children[1]=the rest of the chain (nil at the
// end). Node's fixed four-child shape has no room for an arbitrary-length
// statement list field (the substrate's GENERIC/SIMPLE ancestor used
// TREE_CHAIN for this), so a sequence is represented the way a cons list
// represents any other sequence in a fixed-arity tree.
func (s *Simplifier) chain(stmts []*ir.Node) *ir.Node {
	if len(stmts) == 0 {
		return nil
	}
	arena := s.ctx.Arena
	rest := s.chain(stmts[1:])
	if rest == nil {
		return stmts[0]
	}
	n := arena.NewExpr(ir.OpCompoundStmt, stmts[0].Loc, nil, stmts[0], rest)
	return n
}

// wrapExprStmt wraps a bare expression (typically a ModifyExpr or CallExpr
// kept for its side effect) as a statement.
func (s *Simplifier) wrapExprStmt(expr *ir.Node) *ir.Node {
	return s.ctx.Arena.NewExpr(ir.OpExprStmt, expr.Loc, nil, expr)
}

// varRef builds a reference expression to decl, the SIMPLE-form counterpart
// of naming a declaration (spec's var_ref/parm_ref/result_ref references).
func (s *Simplifier) varRef(decl *ir.Node) *ir.Node {
	op := ir.OpVarRef
	switch decl.Op {
	case ir.OpParmDecl:
		op = ir.OpParmRef
	case ir.OpResultDecl:
		op = ir.OpResultRef
	}
	return s.ctx.Arena.NewExpr(op, decl.Loc, decl.Type, decl)
}
