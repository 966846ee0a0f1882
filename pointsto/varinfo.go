// Package pointsto implements a flow-insensitive, constraint-based
// Andersen-style points-to analysis: var-info records, constraint
// generation, a weighted constraint graph, offline Tarjan SCC collapse plus
// Rountev-Chandra variable substitution, and a worklist fixed-point solver.
// Grounded throughout on original_source/.../tree-ssa-structalias.c.
package pointsto

import (
	"github.com/ccore-lang/ccore/ir"
	"github.com/ccore-lang/ccore/util/bitsetutil"
)

// VarID is a dense index into the analysis's var-info table. Indices are
// never reused within an analysis (spec §3.5/§4.4.1).
type VarID uint32

// Three distinguished artificial variables always occupy the first three
// slots of every analysis's var-info table (spec §3.5): Anything is the
// universal "points to everything" sink, Nothing is the null/no-target
// sentinel, ReadOnly stands for literal/constant memory a pointer may
// target but never write through.
const (
	Anything VarID = 0
	Nothing  VarID = 1
	ReadOnly VarID = 2
)

// VarInfo is one var-info record (spec §3.5): a named object, a
// contiguous range of sibling fields [ID, End) when it is the head of an
// aggregate, and the bits create_variable_info_for/get_constraint_for
// consult while generating and solving constraints.
type VarInfo struct {
	ID   VarID
	Name string
	Decl *ir.Node // nil for artificials and heap sites

	End VarID // exclusive end of this var's sibling field range; ID+1 for a scalar

	Node VarID // the constraint-graph node this var currently belongs to
	// (initially ID itself; changed by SCC collapse / offline substitution)

	AddressTaken   bool // an AddressOf term named this var (&v occurred somewhere)
	IndirectTarget bool // a Deref term named this var (*v occurred somewhere, either side)
	Artificial     bool
	UnknownSize    bool // collapsed union / VLA: any offset acts as offset 0

	Solution  *bitsetutil.Set // var-ids this var may point to
	Variables *bitsetutil.Set // member var-ids, set only on a merged representative

	Complex []Constraint // complex constraints (one side is Deref) attached here
}

// VarTable owns every VarInfo allocated for one analysis, keyed by the
// dense VarID spec §3.5 requires (create_variable_infos's varmap).
type VarTable struct {
	vars []*VarInfo
}

// NewVarTable returns a table pre-populated with the three artificial
// variables every analysis needs (create_alias_vars's anything_tree /
// nothing_tree / readonly_tree).
func NewVarTable() *VarTable {
	t := &VarTable{}
	t.addArtificial("anything")
	t.addArtificial("nothing")
	t.addArtificial("readonly")
	return t
}

func (t *VarTable) addArtificial(name string) VarID {
	id := VarID(len(t.vars))
	vi := &VarInfo{
		ID: id, Name: name, Node: id, Artificial: true, UnknownSize: true,
		Solution: bitsetutil.New(0), Variables: bitsetutil.New(0),
	}
	t.vars = append(t.vars, vi)
	return id
}

// NewScalar allocates a single-field var-info for decl (a leaf variable,
// parameter, or a field that is itself scalar).
func (t *VarTable) NewScalar(decl *ir.Node, name string) *VarInfo {
	id := VarID(len(t.vars))
	vi := &VarInfo{
		ID: id, Name: name, Decl: decl, End: id + 1, Node: id,
		Solution: bitsetutil.New(0), Variables: bitsetutil.New(0),
	}
	t.vars = append(t.vars, vi)
	return vi
}

// NewAggregate allocates numFields consecutive var-infos for decl's leaf
// fields and returns the head (the var-info naming the whole variable),
// whose End is head.ID + numFields (create_variable_info_for's "one
// var-info per field, with the head spanning the whole range" shape, spec
// §4.4.1).
func (t *VarTable) NewAggregate(decl *ir.Node, name string, numFields int) *VarInfo {
	if numFields < 1 {
		numFields = 1
	}
	base := VarID(len(t.vars))
	var head *VarInfo
	for i := 0; i < numFields; i++ {
		id := base + VarID(i)
		vi := &VarInfo{
			ID: id, Name: name, Decl: decl, Node: id,
			Solution: bitsetutil.New(0), Variables: bitsetutil.New(0),
		}
		t.vars = append(t.vars, vi)
		if i == 0 {
			head = vi
		}
	}
	head.End = base + VarID(numFields)
	return head
}

// NewUnknownSize allocates a single var-info with UnknownSize set, for a
// union or variable-length array (spec §4.4.1: "accesses with any offset to
// such a var act as accesses with offset 0").
func (t *VarTable) NewUnknownSize(decl *ir.Node, name string) *VarInfo {
	vi := t.NewScalar(decl, name)
	vi.UnknownSize = true
	vi.End = vi.ID + 1
	return vi
}

// Get returns the var-info for id.
func (t *VarTable) Get(id VarID) *VarInfo {
	if int(id) >= len(t.vars) {
		return nil
	}
	return t.vars[id]
}

// Len returns the number of var-infos allocated so far.
func (t *VarTable) Len() int { return len(t.vars) }

// All returns every var-info in id order.
func (t *VarTable) All() []*VarInfo { return t.vars }

// ResolveField is lookup_field_of_offset applied statically: base shifted
// offset field-indices, clamped to stay within base's own sibling range
// [base.ID, base.End) (an offset past the last field names the last field,
// rather than spilling into whatever var-info happens to follow base in the
// table). Unknown-size and artificial vars are offset-insensitive: any
// offset into one names that same var. This is the only place field-index
// arithmetic on a statically known base happens; a Deref term's offset is
// never resolved this way since its base is discovered dynamically by the
// solver (see Solver.shift, which repeats this same clamp rule per
// discovered target).
func (t *VarTable) ResolveField(base VarID, offset int) VarID {
	if offset == 0 {
		return base
	}
	vi := t.Get(base)
	if vi == nil || vi.UnknownSize || vi.Artificial {
		return base
	}
	shifted := int(base) + offset
	lo := int(vi.ID)
	hi := int(vi.End) - 1
	if hi < lo {
		hi = lo
	}
	switch {
	case shifted < lo:
		return vi.ID
	case shifted > hi:
		return VarID(hi)
	default:
		return VarID(shifted)
	}
}

// Representative returns the var-info that id currently resolves to
// through the constraint graph's merge/substitution chain (vi.Node, walked
// to a fixed point).
func (t *VarTable) Representative(id VarID) *VarInfo {
	cur := id
	for {
		vi := t.Get(cur)
		if vi == nil || vi.Node == cur {
			return vi
		}
		cur = vi.Node
	}
}
