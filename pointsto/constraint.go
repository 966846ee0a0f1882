package pointsto

import "fmt"

// Term is one constraint expression: a scalar variable, a dereference of
// one, or the address of one, each optionally with a field offset applied
// (get_constraint_for's "expr op offset" shape, spec §4.4.2).
//
// Offset always names a field of the object the *solution set* denotes,
// never a field of Var itself selected before a Deref is applied: `*y`'s
// Offset says which field of whatever y points to the term reads, not
// which field of y. A component reference onto a dereference (`y->f`)
// therefore folds f's offset into the same Deref term rather than
// producing a nested term, since both describe the same post-dereference
// object.
type Term struct {
	Var    VarID
	Offset int // field offset in field-index units, not bytes
	Kind    TermKind
}

// TermKind distinguishes the three shapes of constraint term
// (get_constraint_for's switch on the expression's tree code).
type TermKind int

const (
	// Scalar is a bare reference to Var (+Offset): `x`.
	Scalar TermKind = iota
	// Deref is `*Var` (+Offset applied after the dereference).
	Deref
	// AddressOf is `&Var` (+Offset applied before taking the address).
	AddressOf
)

func (k TermKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Deref:
		return "deref"
	case AddressOf:
		return "address-of"
	default:
		return "term<unknown>"
	}
}

// ScalarTerm builds a bare variable reference.
func ScalarTerm(v VarID) Term { return Term{Var: v, Kind: Scalar} }

// DerefTerm builds a dereference of v.
func DerefTerm(v VarID) Term { return Term{Var: v, Kind: Deref} }

// AddrTerm builds the address of v.
func AddrTerm(v VarID) Term { return Term{Var: v, Kind: AddressOf} }

// WithOffset returns a copy of t with its field offset set.
func (t Term) WithOffset(off int) Term { t.Offset = off; return t }

func (t Term) String() string {
	switch t.Kind {
	case Deref:
		return fmt.Sprintf("*v%d+%d", t.Var, t.Offset)
	case AddressOf:
		return fmt.Sprintf("&v%d+%d", t.Var, t.Offset)
	default:
		return fmt.Sprintf("v%d+%d", t.Var, t.Offset)
	}
}

// Constraint is one generated constraint, LHS = RHS, normalized so that at
// most one side is a Deref (do_structure_copy/process_constraint's
// invariant, spec §4.4.2: "a constraint never derefs both sides").
type Constraint struct {
	LHS Term
	RHS Term
}

// NewConstraint builds lhs = rhs, swapping the two sides whenever lhs is an
// AddressOf term. The case process_constraint rejects, `&anything = x`,
// thus becomes `x = &anything`, which expresses the same fact (x may point
// to anything) in a form every downstream pass can consume without
// special-casing an AddressOf LHS.
func NewConstraint(lhs, rhs Term) Constraint {
	if lhs.Kind == AddressOf {
		lhs, rhs = rhs, lhs
	}
	return Constraint{LHS: lhs, RHS: rhs}
}

// IsComplex reports whether either side of the constraint is a Deref,
// meaning it cannot be represented as a plain copy edge in the constraint
// graph and must instead be attached to a var-info's Complex list and
// resolved by the worklist solver as that var's solution set changes
// (do_complex_constraint's domain, spec §4.4.4).
func (c Constraint) IsComplex() bool {
	return c.LHS.Kind == Deref || c.RHS.Kind == Deref
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s = %s", c.LHS, c.RHS)
}
