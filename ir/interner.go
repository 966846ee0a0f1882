package ir

import "fmt"

// Arena is the per-Context node allocator. It owns every Node's identity: it
// assigns dense IDs, hash-conses interned operators (constants, declarations,
// types) so that equal values share identity, and allocates composite nodes
// (expressions, statements) distinctly per occurrence even though, under
// substitution, they may come to form a DAG rather than a tree (substrate
// §3.1). The Arena is append-only — passes create nodes freely and rely on
// the Arena's lifetime (the owning Context's lifetime) rather than any
// per-node destructor, per the "Arenas" design note.
type Arena struct {
	nodes   []*Node
	interns map[internKey]*Node
}

// NewArena returns an empty node arena.
func NewArena() *Arena {
	return &Arena{interns: make(map[internKey]*Node)}
}

// internKey is the hash-consing key for interned operators: constants key on
// their operator and literal value; declarations key on their operator,
// name, and an arbitrary disambiguating scope token (so two distinct
// variables both named "i" in different scopes stay distinct, but the same
// declaration looked up twice collapses); types key on their operator and a
// structural descriptor.
type internKey struct {
	op   Op
	key  string
	kind int // 0 = value repr already in key, 1 = scope-qualified decl
}

func (a *Arena) alloc(op Op, loc Location) *Node {
	n := &Node{id: ID(len(a.nodes)), Op: op, Loc: loc}
	a.nodes = append(a.nodes, n)
	n.recomputeSideEffects()
	return n
}

// NewExpr allocates a fresh, non-interned expression or statement node —
// distinct identity every call, matching substrate invariant that composite
// nodes are distinct per occurrence.
func (a *Arena) NewExpr(op Op, loc Location, typ *Node, children ...*Node) *Node {
	if op.IsInterned() {
		panic(fmt.Sprintf("ir: %s must be created via an interning constructor", op))
	}
	n := a.alloc(op, loc)
	n.Type = typ
	for i, c := range children {
		if i > 3 {
			panic("ir: at most 4 children are supported")
		}
		n.Children[i] = c
	}
	n.NumKids = len(children)
	n.recomputeSideEffects()
	return n
}

// internedValueConst returns the interned constant node for (op, literal
// value), allocating it on first request.
func (a *Arena) internedValueConst(op Op, repr string, typ *Node) *Node {
	k := internKey{op: op, key: repr}
	if n, ok := a.interns[k]; ok {
		return n
	}
	n := a.alloc(op, Location{})
	n.Type = typ
	n.payload = repr
	a.interns[k] = n
	return n
}

// IntConst returns the interned integer-constant node for v at type typ.
func (a *Arena) IntConst(v int64, typ *Node) *Node {
	n := a.internedValueConst(OpIntCst, fmt.Sprintf("%d", v), typ)
	n.payload = v
	return n
}

// StringConst returns the interned string-literal node for s.
func (a *Arena) StringConst(s string, typ *Node) *Node {
	n := a.internedValueConst(OpStringCst, s, typ)
	n.payload = s
	return n
}

// RealConst returns the interned real-constant node for repr (the literal's
// decimal spelling, kept as text to avoid float round-tripping issues — the
// same approach GCC's REAL_VALUE_TYPE textual constructors take).
func (a *Arena) RealConst(repr string, typ *Node) *Node {
	n := a.internedValueConst(OpRealCst, repr, typ)
	n.payload = repr
	return n
}

// NewDecl returns the interned declaration node for (op, scope, name),
// allocating it on first request and reusing it on every subsequent lookup
// for the same (scope, name) pair — declarations are interned per substrate
// §3.1 ("equal values share identity").
func (a *Arena) NewDecl(op Op, scope, name string, typ *Node, loc Location) *Node {
	switch op {
	case OpVarDecl, OpParmDecl, OpResultDecl, OpFunctionDecl, OpFieldDecl, OpLabelDecl:
	default:
		panic(fmt.Sprintf("ir: %s is not a declaration operator", op))
	}
	k := internKey{op: op, key: scope + "\x00" + name, kind: 1}
	if n, ok := a.interns[k]; ok {
		return n
	}
	n := a.alloc(op, loc)
	n.Type = typ
	n.payload = name
	a.interns[k] = n
	return n
}

// NewTemp allocates a fresh, never-interned VarDecl for a simplifier- or
// analysis-generated temporary. Temporaries are never looked up by name, so
// interning them would only waste the intern table; each call returns a
// distinct node, numbered for readable dumps.
func (a *Arena) NewTemp(typ *Node, loc Location) *Node {
	n := a.alloc(OpVarDecl, loc)
	n.Type = typ
	n.SetFlag(FlagArtificial)
	n.payload = fmt.Sprintf("T.%d", n.id)
	return n
}

// NewType returns the interned type node for a structural descriptor (e.g.
// "int", "ptr(struct Foo)"); types are hash-consed by structure so that two
// occurrences of `int*` share identity.
func (a *Arena) NewType(op Op, descriptor string, children ...*Node) *Node {
	k := internKey{op: op, key: descriptor}
	if n, ok := a.interns[k]; ok {
		return n
	}
	n := a.alloc(op, Location{})
	n.payload = descriptor
	for i, c := range children {
		n.Children[i] = c
		n.NumKids = i + 1
	}
	a.interns[k] = n
	return n
}

// Len returns the number of nodes ever allocated by this arena (including
// interned nodes, counted once).
func (a *Arena) Len() int { return len(a.nodes) }

// Node looks up a previously-allocated node by ID. Used by passes that
// persist IDs (e.g. the scev memo map, the points-to var-info table) rather
// than pointers, to stay resilient across serialization boundaries.
func (a *Arena) Node(id ID) *Node {
	if int(id) < 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}
