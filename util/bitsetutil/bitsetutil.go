// Package bitsetutil provides thin, domain-named wrappers over
// github.com/bits-and-blooms/bitset for the points-to engine's "solution"
// sets of var-ids (spec §3.5, §4.4.5). Constraint-edge weights are plain
// ints and scev's cyclic-instantiation guard is a map; neither uses this
// package. Grounded on
// _examples/other_examples/77767e38_godoctor-godoctor__extras-cfg-df.go.go,
// which builds GEN/KILL/DEF/USE dataflow bitsets over a CFG with the
// predecessor of this package (willf/bitset) in exactly this
// finite-universe, monotone-union shape.
package bitsetutil

import "github.com/bits-and-blooms/bitset"

// Set is a mutable bitset over a dense, non-negative integer universe (var
// ids or field offsets). It is a named type rather than a raw *bitset.BitSet
// alias so call sites read as domain operations ("Union") instead
// of raw bit-twiddling.
type Set struct {
	bits *bitset.BitSet
}

// New returns an empty Set with initial capacity for `hint` elements (a
// sizing hint only — the underlying bitset grows automatically).
func New(hint uint) *Set {
	return &Set{bits: bitset.New(hint)}
}

// Add sets bit i and reports whether the set changed (i.e. i was not
// already a member) — the return value is exactly what the points-to
// worklist needs to decide whether a solution "grew" (spec §4.4.5).
func (s *Set) Add(i uint) (changed bool) {
	if s.bits.Test(i) {
		return false
	}
	s.bits.Set(i)
	return true
}

// Test reports whether i is a member.
func (s *Set) Test(i uint) bool { return s.bits.Test(i) }

// Remove clears bit i.
func (s *Set) Remove(i uint) { s.bits.Clear(i) }

// Len returns the number of set bits.
func (s *Set) Len() uint { return s.bits.Count() }

// IsEmpty reports whether no bit is set.
func (s *Set) IsEmpty() bool { return s.bits.None() }

// Union merges other into s in place and reports whether s changed — used
// by the worklist's "union into sol(m)" step (spec §4.4.5 step 2b).
func (s *Set) Union(other *Set) (changed bool) {
	before := s.bits.Count()
	s.bits.InPlaceUnion(other.bits)
	return s.bits.Count() != before
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	return &Set{bits: s.bits.Clone()}
}

// Each calls f once per set member in ascending order.
func (s *Set) Each(f func(i uint)) {
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		f(i)
	}
}

// Slice returns the set's members as a sorted slice, primarily for test
// assertions and deterministic diagnostic dumps.
func (s *Set) Slice() []uint {
	out := make([]uint, 0, s.bits.Count())
	s.Each(func(i uint) { out = append(out, i) })
	return out
}
