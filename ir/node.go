// Package ir implements the tagged-tree IR substrate shared by the
// preprocessor, tree simplifier, and scev/pointsto engines: node
// representation, interning, identity, and a small visitor framework. It is
// the leaf of the module; every other package depends on it and on nothing
// else in the repository, per the system overview's data-flow description.
package ir

import "fmt"

// Flag is a bit in a Node's small flag bitset (addressable, volatile,
// artificial, read-only, and similar per-node modifiers that don't warrant
// their own struct field).
type Flag uint32

const (
	FlagAddressable Flag = 1 << iota
	FlagVolatile
	FlagReadOnly
	FlagArtificial
	FlagUnknownSize // collapsed union / VLA, per points-to var-info bit
	FlagStatic
)

// ID is a dense, arena-local identifier for a Node. IDs are never reused
// within a Context's lifetime; interned nodes reuse the same ID across
// requests for an equal value (identity equality implies value equality for
// interned operators).
type ID uint32

// Node is the universal IR node: an operator tag, an optional type
// reference, up to four child references, a flag bitset, a source location,
// and a conservative side-effects bit (substrate invariant (a)/(c)).
//
// Node is a value type handed out by reference (*Node) from an Arena; the
// Arena owns allocation and node identity. Passes may create new nodes
// freely — the arena outlives any single pass (substrate ownership rule).
type Node struct {
	id       ID
	Op       Op
	Type     *Node // nil for nodes with no type (statements, labels, ...)
	Children [4]*Node
	NumKids  int
	Flags    Flag
	Loc      Location

	sideEffects bool

	// payload holds operator-specific scalar data: the value of a constant,
	// the name of a declaration, the predicate a given CaseLabel guards,
	// etc. Using one interface{} slot instead of one field per operator
	// keeps Node's size fixed regardless of how many operators exist,
	// mirroring the original tree_node union's "one struct member per
	// union arm" discipline without C's union aliasing.
	payload interface{}
}

// ID returns the node's dense arena identifier.
func (n *Node) ID() ID { return n.id }

// HasFlag reports whether f is set.
func (n *Node) HasFlag(f Flag) bool { return n.Flags&f != 0 }

// SetFlag sets f.
func (n *Node) SetFlag(f Flag) { n.Flags |= f }

// ClearFlag clears f.
func (n *Node) ClearFlag(f Flag) { n.Flags &^= f }

// SideEffects reports the node's conservative side-effects bit.
func (n *Node) SideEffects() bool { return n.sideEffects }

// Child returns the i-th child, or nil if the node has fewer than i+1
// children.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= n.NumKids {
		return nil
	}
	return n.Children[i]
}

// Payload returns the operator-specific scalar payload (constant value,
// declaration name, and so on). Callers type-assert according to n.Op.
func (n *Node) Payload() interface{} { return n.payload }

// SetPayload replaces the operator-specific payload. Used by passes that
// rewrite a node in place (e.g. relocating a constant) rather than
// allocating a fresh one.
func (n *Node) SetPayload(p interface{}) { n.payload = p }

// recomputeSideEffects restores invariant (c): the side-effects bit is the
// union of the operator's intrinsic side-effecting-ness and every child's
// bit. Called by the Arena after any child-pointer mutation.
func (n *Node) recomputeSideEffects() {
	se := n.Op.sideEffecting()
	for i := 0; i < n.NumKids; i++ {
		if n.Children[i] != nil && n.Children[i].sideEffects {
			se = true
		}
	}
	n.sideEffects = se
}

// SetChild replaces the i-th child and restores the side-effects invariant.
// It grows NumKids if needed (up to 4). Mutating an existing node's child
// pointers is permitted only by the pass that owns the current traversal,
// per the concurrency/resource model.
func (n *Node) SetChild(i int, c *Node) {
	if i < 0 || i > 3 {
		panic(fmt.Sprintf("ir: child index %d out of range", i))
	}
	n.Children[i] = c
	if i+1 > n.NumKids {
		n.NumKids = i + 1
	}
	n.recomputeSideEffects()
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s@%s#%d", n.Op, n.Loc, n.id)
}
