package pointsto

import (
	"fmt"

	"github.com/ccore-lang/ccore/config"
	"github.com/ccore-lang/ccore/util/bitsetutil"
)

// Solver drives the worklist fixed-point computation over a constraint
// graph (spec §4.4.4, grounded on solve_graph/do_sd_constraint/
// do_ds_constraint/solution_set_add/set_union_with_increment).
type Solver struct {
	vars *VarTable
	g    *Graph

	queue   []VarID
	queued  map[VarID]bool
	Rounds  int
	Changed int // total number of solution-set growth events, for diagnostics
}

// NewSolver returns a solver over vars/g. Seed must be called (directly or
// via Solve) before Run to install the address-of facts every analysis
// starts from.
func NewSolver(vars *VarTable, g *Graph) *Solver {
	return &Solver{vars: vars, g: g, queued: make(map[VarID]bool)}
}

// Seed installs every x = &y constraint as a direct points-to fact
// (solution_set_add(sol(x), y)) and enqueues every var that gained a fact,
// matching the original's two-phase "seed, then propagate" structure.
func (s *Solver) Seed(constraints []Constraint) {
	for _, c := range constraints {
		if c.LHS.Kind == Scalar && c.RHS.Kind == AddressOf {
			lhs := s.vars.ResolveField(c.LHS.Var, c.LHS.Offset)
			rhs := s.vars.ResolveField(c.RHS.Var, c.RHS.Offset)
			if s.addToSolution(lhs, rhs) {
				s.enqueue(lhs)
			}
		}
	}
}

func (s *Solver) enqueue(id VarID) {
	if s.queued[id] {
		return
	}
	s.queued[id] = true
	s.queue = append(s.queue, id)
}

// addToSolution is solution_set_add: adds target to id's representative's
// solution bitset, reporting whether the set grew.
func (s *Solver) addToSolution(id, target VarID) bool {
	vi := s.vars.Representative(id)
	if vi == nil {
		return false
	}
	if vi.Solution == nil {
		vi.Solution = bitsetutil.New(0)
	}
	if vi.Solution.Add(uint(target)) {
		s.Changed++
		return true
	}
	return false
}

// unionWithIncrement is set_union_with_increment: copies every member of
// from's solution into into's solution after shifting each by weight
// (field offset propagation across a weighted copy edge), clamping a
// shifted field index that runs past the target's field range down to that
// object's last field, the same way a structure-copy through a too-small
// destination silently truncates rather than fabricating a nonexistent
// field (spec §4.4.3 shift/clamp rule). Reports whether into's set grew.
func (s *Solver) unionWithIncrement(into *VarInfo, from *bitsetutil.Set, weight int) bool {
	if from == nil {
		return false
	}
	grew := false
	from.Each(func(i uint) {
		shifted := s.shift(VarID(i), weight)
		if into.Solution == nil {
			into.Solution = bitsetutil.New(0)
		}
		if into.Solution.Add(uint(shifted)) {
			grew = true
			s.Changed++
		}
	})
	return grew
}

// shift is the clamping half of set_union_with_increment: target's
// var-info, offset by weight fields, staying within [target.ID, target.End)
// when target heads a multi-field aggregate (an offset past the last field
// clamps to the last field rather than spilling into an unrelated var-info
// that happens to follow it in the table), and passing an unknown-size or
// artificial var through unchanged (any offset into one of those still
// names the same object, per spec §4.4.1).
func (s *Solver) shift(target VarID, weight int) VarID {
	return s.vars.ResolveField(target, weight)
}

// Run drains the worklist to a fixed point, resolving complex constraints
// as their pivot var's solution grows. It does not detect or collapse
// cycles: only the offline pre-pass collapses SCCs, and cycles formed by
// edges that complex constraints add during solving stay uncollapsed.
// Returns an error if config.PointsToWorklistRoundLimit rounds pass
// without converging (a runaway-detection backstop, not expected to fire on
// any terminating input: the var-id universe is finite and solutions only
// grow monotonically, so convergence is guaranteed in the absence of a bug).
func (s *Solver) Run() error {
	for len(s.queue) > 0 {
		s.Rounds++
		if s.Rounds > config.PointsToWorklistRoundLimit {
			return fmt.Errorf("pointsto: worklist did not converge within %d rounds", config.PointsToWorklistRoundLimit)
		}
		id := s.queue[0]
		s.queue = s.queue[1:]
		s.queued[id] = false
		s.propagate(id)
	}
	return nil
}

// propagate handles one dequeued var: resolve its complex constraints
// against its current solution (do_sd_constraint/do_ds_constraint), then
// push its solution across every outgoing copy edge.
func (s *Solver) propagate(id VarID) {
	vi := s.vars.Representative(id)
	if vi == nil {
		return
	}

	for _, c := range vi.Complex {
		s.resolveComplex(vi, c)
	}

	for _, e := range s.g.Succ(id) {
		dst := s.vars.Representative(e.dst)
		if dst == nil {
			continue
		}
		if s.unionWithIncrement(dst, vi.Solution, e.weight) {
			s.enqueue(dst.ID)
		}
	}
}

// resolveComplex is do_sd_constraint (x = *y: for every t in sol(y), add
// sol(t+RHS.Offset) to sol(x)) and do_ds_constraint (*x = y: for every t in
// sol(x), add sol(y) to sol(t+LHS.Offset)), dispatched on which side
// carries the Deref. The non-Deref side's own offset is statically known
// and already folded into the var it names (resolved once, in
// Graph.AddConstraint/here); only the Deref side's offset is applied
// dynamically, once per target t the pivot's solution set turns out to
// contain.
func (s *Solver) resolveComplex(pivot *VarInfo, c Constraint) {
	switch {
	case c.LHS.Kind == Scalar && c.RHS.Kind == Deref:
		// x = *y: pivot is y.
		dst := s.vars.Representative(s.vars.ResolveField(c.LHS.Var, c.LHS.Offset))
		if dst == nil || pivot.Solution == nil {
			return
		}
		pivot.Solution.Each(func(i uint) {
			t := s.vars.Representative(s.shift(VarID(i), c.RHS.Offset))
			if t == nil {
				return
			}
			s.g.AddEdge(t.ID, dst.ID, 0)
			if s.unionWithIncrement(dst, t.Solution, 0) {
				s.enqueue(dst.ID)
			}
		})

	case c.LHS.Kind == Deref && c.RHS.Kind == Scalar:
		// *x = y: pivot is x.
		src := s.vars.Representative(s.vars.ResolveField(c.RHS.Var, c.RHS.Offset))
		if pivot.Solution == nil || src == nil {
			return
		}
		pivot.Solution.Each(func(i uint) {
			t := s.vars.Representative(s.shift(VarID(i), c.LHS.Offset))
			if t == nil {
				return
			}
			s.g.AddEdge(src.ID, t.ID, 0)
			if s.unionWithIncrement(t, src.Solution, 0) {
				s.enqueue(t.ID)
			}
		})

	case c.LHS.Kind == Deref && c.RHS.Kind == Deref:
		// *x = *y never arises: NewConstraint/the generator never produce a
		// doubly-deref'd constraint (spec §4.4.2 invariant).
	}
}

// Solve runs Seed followed by Run, the usual entry point for a fresh
// analysis.
func Solve(vars *VarTable, g *Graph, constraints []Constraint) (*Solver, error) {
	s := NewSolver(vars, g)
	s.Seed(constraints)
	if err := s.Run(); err != nil {
		return s, err
	}
	return s, nil
}
