package pointsto

import "github.com/ccore-lang/ccore/ir"

// VarResolver maps a declaration node to the var-info that stands for it
// in one analysis (the caller's responsibility, since allocating var-infos
// for every declaration in scope happens once up front via VarTable's
// New* constructors; this package only consumes the resulting mapping).
type VarResolver func(decl *ir.Node) (VarID, bool)

// Generator turns expression trees into constraint terms and whole
// assignments into Constraint slices, mirroring get_constraint_for and
// process_constraint (spec §4.4.2). It is stateless beyond the resolver and
// field-offset table it was built with.
type Generator struct {
	vars   VarResolver
	fields *FieldIndex
}

// NewGenerator builds a constraint generator over vars (declaration ->
// VarID) and fields (the shared type/offset -> field-index table every
// component reference consults).
func NewGenerator(vars VarResolver, fields *FieldIndex) *Generator {
	return &Generator{vars: vars, fields: fields}
}

// TermsFor is get_constraint_for: the set of terms expr may denote. Most
// expressions denote exactly one term; a handful (notably an address-of
// applied to something that itself produced multiple terms) can't arise in
// this subset and are reported as a single term conservatively.
func (g *Generator) TermsFor(expr *ir.Node) []Term {
	if expr == nil {
		return nil
	}
	switch expr.Op {
	case ir.OpVarRef, ir.OpParmRef, ir.OpResultRef:
		decl := expr.Child(0)
		if decl == nil {
			return []Term{ScalarTerm(Anything)}
		}
		id, ok := g.vars(decl)
		if !ok {
			return []Term{ScalarTerm(Anything)}
		}
		return []Term{ScalarTerm(id)}

	case ir.OpAddrExpr:
		inner := g.TermsFor(expr.Child(0))
		out := make([]Term, 0, len(inner))
		for _, t := range inner {
			switch t.Kind {
			case Scalar:
				out = append(out, Term{Var: t.Var, Offset: t.Offset, Kind: AddressOf})
			case Deref:
				// &*p == p: taking the address of a dereference cancels out.
				out = append(out, Term{Var: t.Var, Offset: t.Offset, Kind: Scalar})
			default:
				out = append(out, t)
			}
		}
		return out

	case ir.OpIndirectRef:
		inner := g.TermsFor(expr.Child(0))
		out := make([]Term, 0, len(inner))
		for _, t := range inner {
			switch t.Kind {
			case Scalar:
				out = append(out, Term{Var: t.Var, Offset: t.Offset, Kind: Deref})
			case AddressOf:
				// *&x == x.
				out = append(out, Term{Var: t.Var, Offset: t.Offset, Kind: Scalar})
			default:
				// **p has no direct term representation in this model; fall
				// back to the universal sink rather than fabricate a shape
				// the constraint language can't express.
				out = append(out, ScalarTerm(Anything))
			}
		}
		return out

	case ir.OpComponentRef:
		base := expr.Child(0)
		baseTerms := g.TermsFor(base)
		off, _ := expr.Payload().(int)
		idx := 0
		if base != nil && base.Type != nil {
			idx = g.fields.Lookup(base.Type, int64(off))
		}
		out := make([]Term, 0, len(baseTerms))
		for _, t := range baseTerms {
			out = append(out, t.WithOffset(t.Offset+idx))
		}
		return out

	case ir.OpArrayRef:
		// Arrays are not field-sensitive in this model: an array reference
		// denotes the same term as its base object (every element folds
		// into field 0), matching get_constraint_for's handling of
		// ARRAY_REF when !use_field_sensitive.
		return g.TermsFor(expr.Child(0))

	case ir.OpConvertExpr, ir.OpNopExpr, ir.OpSaveExpr:
		return g.TermsFor(expr.Child(0))

	case ir.OpConstructorExpr, ir.OpCallExpr:
		// A constructed aggregate or a call result is a fresh, unnamed
		// object: conservatively treat it as pointing to anything rather
		// than fabricate a heap var-info this package does not track.
		return []Term{ScalarTerm(Anything)}

	default:
		// A constant or an expression with no address: no var-info denotes
		// it; callers that need a constraint out of this should special-case
		// the integer-constant-assigned-to-pointer shape themselves (spec
		// §4.4.2's do_structure_copy note on NULL/non-pointer scalars being
		// dropped rather than producing a constraint).
		return nil
	}
}

// Assign is process_constraint driven by an assignment's shape: it builds
// one Constraint per (lhs-term, rhs-term) pair, matching do_structure_copy's
// "assigning one aggregate to another copies every corresponding field"
// behavior (here approximated by a cartesian product, since this model does
// not track per-field correspondence across heterogeneous term counts).
func (g *Generator) Assign(lhs, rhs *ir.Node) []Constraint {
	lhsTerms := g.TermsFor(lhs)
	rhsTerms := g.TermsFor(rhs)
	if len(lhsTerms) == 0 || len(rhsTerms) == 0 {
		return nil
	}
	out := make([]Constraint, 0, len(lhsTerms)*len(rhsTerms))
	for _, l := range lhsTerms {
		for _, r := range rhsTerms {
			out = append(out, NewConstraint(l, r))
		}
	}
	return out
}
