package scev

import "github.com/ccore-lang/ccore/ir"

// memoKey identifies a (loop, variable) pair in the scev memo table (spec
// §4.3.1: "results are memoized in a (loop, var) -> chrec map").
type memoKey struct {
	loopID int
	varID  ir.ID
}

// Stats mirrors the original's reset_chrecs_counters/gather_chrec_stats:
// read-only counters exposed for diagnostics, never consulted by the
// analysis itself.
type Stats struct {
	Computed     int
	Instantiated int
	Peeled       int
}

// Engine is the scalar-evolution analyzer's per-compilation-unit state: the
// arena new chrec-carrying nodes are built from (chrecs themselves wrap
// existing nodes, so this is mostly for symmetry with the other engines)
// and the memo table.
type Engine struct {
	arena *ir.Arena
	memo  map[memoKey]Chrec
	Stats Stats
}

// NewEngine returns an Engine with an empty memo table.
func NewEngine(arena *ir.Arena) *Engine {
	return &Engine{arena: arena, memo: make(map[memoKey]Chrec)}
}

func safeID(n *ir.Node) ir.ID {
	if n == nil {
		return 0
	}
	return n.ID()
}

// Scev returns the chrec for phi's variable as observed in loop, computing
// and memoizing it on first request (spec §4.3.1's `scev(loop, v)`).
func (e *Engine) Scev(loop *Loop, phi *PhiNode) Chrec {
	if loop == nil || phi == nil {
		return Top{}
	}
	key := memoKey{loopID: loop.ID, varID: safeID(phi.Var)}
	if c, ok := e.memo[key]; ok {
		return c
	}
	c := e.interpretLoopPhi(loop, phi)
	e.memo[key] = c
	e.Stats.Computed++
	return c
}

// Invalidate drops any memoized chrec for (loop, var), used when a pass
// rewrites the loop body in a way that changes the induction variable's
// defining expression.
func (e *Engine) Invalidate(loop *Loop, v *ir.Node) {
	delete(e.memo, memoKey{loopID: loop.ID, varID: safeID(v)})
}
