// Package guard hosts the recursion-guard types used to detect cycles during
// tree traversals that can legitimately revisit a node through a different
// path: scev's instantiate (spec §4.3.1, §4.3.4 "cyclic instantiation...
// detected by the already-instantiated stack") and the simplifier's
// statement-expression nesting tracker (spec §4.1.3). Adapted from the
// teacher's guard package, which tracks a generated Nonce per ast.Expr to
// identify RichCheckEffect contracts; here the same
// generate-id/track-visited-set shape is repurposed from Go-AST-keyed nonces
// to ir.Node-id-keyed visitation guards.
package guard

import "github.com/ccore-lang/ccore/ir"

// Visited tracks the set of ir.Node IDs seen so far along the current
// traversal path. It is the same role the teacher's NonceSet plays for
// RichCheckEffect nonces, generalized from an arbitrary Nonce key to the
// substrate's own dense node IDs so every engine can reuse it without
// needing its own id-generation scheme.
type Visited map[ir.ID]bool

// NewVisited returns an empty Visited set.
func NewVisited() Visited {
	return make(Visited)
}

// Enter records n as visited and reports whether it was already present —
// true means a cycle has been detected and the caller must not recurse
// further (this is the "already visited" check spec §4.3.1 requires
// instantiate to perform, and the statement-expression depth tracker spec
// §4.1.3 requires to preserve the implicit trailing-value statement even
// when nested).
func (v Visited) Enter(n *ir.Node) (alreadyVisited bool) {
	if n == nil {
		return false
	}
	if v[n.ID()] {
		return true
	}
	v[n.ID()] = true
	return false
}

// Leave un-marks n, allowing a sibling subtree (not an ancestor) to revisit
// it — recursion guards are path-sensitive, not whole-traversal-sensitive,
// the same way the original's already-instantiated stack pops on return.
func (v Visited) Leave(n *ir.Node) {
	if n == nil {
		return
	}
	delete(v, n.ID())
}

// Contains reports whether n is currently on the active path.
func (v Visited) Contains(n *ir.Node) bool {
	if n == nil {
		return false
	}
	return v[n.ID()]
}

// Copy returns an independent copy of v, used when a traversal needs to fork
// (e.g. exploring two incoming phi edges that must not contaminate each
// other's visited set).
func (v Visited) Copy() Visited {
	out := make(Visited, len(v))
	for k := range v {
		out[k] = true
	}
	return out
}

// Depth is a simple nesting-depth counter, used by the simplifier to track
// how many statement-expressions ({ ... }) deep the current rewrite is (spec
// §4.1.3): "track nesting depth so the implicit 'last expression is the
// value' trailing statement is preserved even when its effect appears dead."
type Depth struct {
	n int
}

// Enter increments and returns the new depth.
func (d *Depth) Enter() int {
	d.n++
	return d.n
}

// Leave decrements the depth. Panics on underflow — a mismatched Enter/Leave
// pair is an implementation bug, the same severity as an unrecognized
// operator per spec §4.1.5.
func (d *Depth) Leave() {
	if d.n == 0 {
		panic("guard: Depth.Leave called without a matching Enter")
	}
	d.n--
}

// Current returns the current nesting depth (0 at the top level).
func (d *Depth) Current() int { return d.n }
