// Package scev computes chains of recurrences describing how a scalar
// varies across loop nests: scev(loop, v), instantiate, number_of_iterations,
// and the loop-phi interpretation that builds a chrec by walking a loop's
// back edge. Grounded throughout on
// original_source/.../tree-scalar-evolution.c.
package scev

import "github.com/ccore-lang/ccore/ir"

// Chrec is a chain-of-recurrences value (spec §3.4). It is a closed,
// sealed interface — chrecIsChrec is unexported so no type outside this
// package can implement it, the same "tagged variant via private method"
// shape the teacher uses for inference.Value/Prop.
type Chrec interface {
	chrecIsChrec()
}

// Constant is a loop-invariant value. Value is typically an OpIntCst node
// for a fully-resolved constant, or any other node for a symbolic constant
// awaiting instantiation.
type Constant struct {
	Value *ir.Node
}

func (Constant) chrecIsChrec() {}

// Poly is `{left, +, right}_loop`: Left + x*Right where x is loop's
// iteration count. Left may itself be a chrec over a loop strictly
// containing Loop (spec §3.4's "outer-to-inner nesting along the left
// spine"); Right is invariant with respect to Loop.
type Poly struct {
	Loop  *Loop
	Left  Chrec
	Right Chrec
}

func (Poly) chrecIsChrec() {}

// Expo is `{left, *, right}_loop`: Left * Right^x.
type Expo struct {
	Loop  *Loop
	Left  Chrec
	Right Chrec
}

func (Expo) chrecIsChrec() {}

// Peeled is the fallback produced when a back-edge walk cannot close a
// cycle into a polynomial or exponential form: First on iteration 0, Rest
// on every iteration after.
type Peeled struct {
	Loop  *Loop
	First Chrec
	Rest  Chrec
}

func (Peeled) chrecIsChrec() {}

// Interval is a bounded range [Lo, Hi], used when only bounds (not an
// exact recurrence) are known.
type Interval struct {
	Lo Chrec
	Hi Chrec
}

func (Interval) chrecIsChrec() {}

// Top is the "unknown, could be anything" sentinel (spec §3.4, §4.3.4).
type Top struct{}

func (Top) chrecIsChrec() {}

// Bot is the "never occurs" sentinel (an infinite loop's iteration count,
// or an unreachable branch's value).
type Bot struct{}

func (Bot) chrecIsChrec() {}

// Loop is the lightweight loop-nest handle scev's callers supply: this
// core's scope stops at the simplifier (spec's MODULE list has no CFG/SSA
// builder), so scev does not discover loops itself — it consumes whatever
// induction-variable shape a caller already reconstructed, the same way the
// original's struct loop is handed in by the CFG layer rather than built by
// tree-scalar-evolution.c itself.
type Loop struct {
	ID     int
	Depth  int
	Parent *Loop
	Header *ir.Node // the loop's top label, for diagnostics only

	// IterCount caches this loop's own iteration count once
	// NumberOfIterations has computed it (the original's loop->nb_iterations
	// field). A strictly-nested loop's count must be known before its
	// enclosing loop's induction variable can be composed (spec §4.3.2's
	// "if the inner count is Top, the outer chrec becomes Top"); leaving it
	// nil means "not yet computed", distinct from an explicit Top result.
	IterCount Chrec
}

// Contains reports whether inner is loop itself or is nested inside it.
func (loop *Loop) Contains(inner *Loop) bool {
	for l := inner; l != nil; l = l.Parent {
		if l == loop {
			return true
		}
	}
	return false
}

// PhiNode is the induction-variable abstraction scev interprets: the value
// Var carries around Loop's back edge. Entry is the value flowing in from
// outside the loop; Back is the expression computed each iteration before
// being re-assigned to Var (nil if Var is not loop-carried in this loop,
// i.e. it is simply invariant). Inner is set when Back's value is itself
// driven by a strictly-nested loop's own induction variable, triggering
// inner-loop composition (spec §4.3.2).
type PhiNode struct {
	Var   *ir.Node
	Loop  *Loop
	Entry *ir.Node
	Back  *ir.Node
	Inner *PhiNode
}

// constInt extracts the int64 value of an OpIntCst node, per ir's payload
// convention (ir.Arena.IntConst stores the value directly as payload).
func constInt(n *ir.Node) (int64, bool) {
	if n == nil || n.Op != ir.OpIntCst {
		return 0, false
	}
	v, ok := n.Payload().(int64)
	return v, ok
}
