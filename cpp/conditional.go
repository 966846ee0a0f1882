package cpp

import "github.com/ccore-lang/ccore/ir"

// ConditionalFrame is one entry of a buffer's conditional stack: one #if/
// #ifdef/#ifndef group currently open within that buffer (spec §3.2's
// per-buffer conditional stack, grounded on cpplib.c's struct if_stack).
type ConditionalFrame struct {
	StartLoc ir.Location

	// LastDirective names the most recently seen directive in this group
	// (if/ifdef/ifndef/elif/else), used to reject e.g. a second #else or an
	// #elif after #else.
	LastDirective string

	// AnyBranchTaken records whether some branch of this group has already
	// been taken, so a later #elif/#else in the same group is skipped even
	// if its own condition would hold.
	AnyBranchTaken bool

	// SkippingThisBranch is true while the buffer is lexing inside a
	// branch whose condition was false (or which follows an already-taken
	// branch); directive recognition still runs but token emission is
	// suppressed.
	SkippingThisBranch bool

	// ControllingMacro names the macro whose defined-ness the entire group
	// depends on when the file matches the single-condition #ifndef guard
	// idiom, e.g. `#ifndef FOO_H` wrapping the whole file. Nothing in this
	// package sets or reads it: the field stays empty, guard shapes are not
	// detected, and a guarded header is re-read on every #include.
	ControllingMacro string
}
