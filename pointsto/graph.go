package pointsto

// edge is one weighted copy edge src -> dst carrying an offset (weight):
// src's solution set, shifted by weight, must flow into dst's (grounded on
// add_graph_edge/get_graph_weights). Only simple constraints become edges
// when the graph is built; SD/DS constraints are attached to a var's
// Complex list, and the solver adds zero-weight edges for them as their
// pivot's solution grows.
type edge struct {
	dst    VarID
	weight int
}

// Graph is the constraint graph build_constraint_graph assembles from a
// simple-constraint set: one node per var, weighted copy edges recording
// offset propagation, plus each var's attached complex constraints (simple
// constraints do not need separate storage; they are edges).
type Graph struct {
	vars *VarTable

	succ map[VarID][]edge // src -> outgoing copy edges
	pred map[VarID][]edge // dst -> incoming copy edges (mirrors succ, filled in by AddEdge)
}

// NewGraph returns an empty constraint graph over vars.
func NewGraph(vars *VarTable) *Graph {
	return &Graph{
		vars: vars,
		succ: make(map[VarID][]edge),
		pred: make(map[VarID][]edge),
	}
}

// AddEdge records a weighted copy edge src -> dst (dst's solution gains
// src's solution shifted by weight, once solved). A zero-weight
// self-edge or a duplicate edge is silently ignored (build_constraint_graph
// never stores those).
func (g *Graph) AddEdge(src, dst VarID, weight int) {
	if src == dst && weight == 0 {
		return
	}
	for _, e := range g.succ[src] {
		if e.dst == dst && e.weight == weight {
			return
		}
	}
	g.succ[src] = append(g.succ[src], edge{dst: dst, weight: weight})
	g.pred[dst] = append(g.pred[dst], edge{dst: src, weight: weight})
}

// Succ returns src's outgoing copy edges.
func (g *Graph) Succ(src VarID) []edge { return g.succ[src] }

// Pred returns dst's incoming copy edges (the edge's dst field names the
// source var, by construction above).
func (g *Graph) Pred(dst VarID) []edge { return g.pred[dst] }

// AddConstraint installs one generated Constraint into the graph. A side
// whose Kind is Scalar or AddressOf names a statically known field of a
// statically known var, so its Offset is resolved immediately via
// VarTable.ResolveField; only a Deref side's offset stays symbolic,
// carried on the Constraint itself for the solver to apply once it
// discovers the dynamic target (spec §4.4.2-4.4.4).
func (g *Graph) AddConstraint(c Constraint) {
	switch {
	case c.LHS.Kind == AddressOf:
		// &x = y never arises after NewConstraint's normalization.
		return

	case c.LHS.Kind == Scalar && c.RHS.Kind == Scalar:
		// x = y: y's solution flows into x, no dynamic shift needed since
		// both sides already resolved to their concrete field var.
		lhs := g.vars.ResolveField(c.LHS.Var, c.LHS.Offset)
		rhs := g.vars.ResolveField(c.RHS.Var, c.RHS.Offset)
		g.AddEdge(rhs, lhs, 0)

	case c.LHS.Kind == Scalar && c.RHS.Kind == AddressOf:
		// x = &y: a direct points-to fact, not a copy edge. Installed into
		// x's solution by Solver.Seed; the graph itself only stores edges.
		// The addressed field is marked address_taken here, at the resolved
		// (base+offset) var-id, since this is the one place both the offset
		// and the var-info table are available before any collapse or
		// substitution pass can have run (spec §4.4.2; process_constraint's
		// rhs.type == ADDRESSOF branch).
		if vi := g.vars.Get(g.vars.ResolveField(c.RHS.Var, c.RHS.Offset)); vi != nil {
			vi.AddressTaken = true
		}
		return

	case c.LHS.Kind == Deref:
		// *x = y (do_ds_constraint): x's pointee is discovered dynamically,
		// so the constraint (carrying both offsets) attaches to x's base var
		// unresolved. x itself is marked indirect_target: it is the pointer
		// being dereferenced.
		g.attachComplex(c.LHS.Var, c)

	case c.RHS.Kind == Deref:
		// x = *y (do_sd_constraint): symmetric, attached to y's base var,
		// which is marked indirect_target for the same reason.
		g.attachComplex(c.RHS.Var, c)
	}
}

func (g *Graph) attachComplex(on VarID, c Constraint) {
	vi := g.vars.Get(on)
	if vi == nil {
		return
	}
	vi.Complex = append(vi.Complex, c)
	vi.IndirectTarget = true
}

// NodeIDs returns every var-id currently present as a graph node (both
// endpoints of every edge, plus every var with a complex constraint),
// deduplicated.
func (g *Graph) NodeIDs() []VarID {
	seen := make(map[VarID]bool)
	for src, edges := range g.succ {
		seen[src] = true
		for _, e := range edges {
			seen[e.dst] = true
		}
	}
	for _, vi := range g.vars.All() {
		if len(vi.Complex) > 0 {
			seen[vi.ID] = true
		}
	}
	out := make([]VarID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out
}
