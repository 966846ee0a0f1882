package scev

import (
	"github.com/ccore-lang/ccore/config"
	"github.com/ccore-lang/ccore/guard"
	"github.com/ccore-lang/ccore/ir"
)

// Resolver resolves a symbolic value node mentioned inside a chrec (e.g. a
// reference to another SSA name) to that name's own chrec — the callback
// instantiate_parameters uses to recursively call back into
// get_scalar_evolution for every name a chrec mentions (spec §4.3.1).
type Resolver func(n *ir.Node) (Chrec, bool)

// Instantiate is instantiate_parameters: rewrites c by recursively
// resolving every symbolic name it mentions via resolve, bounded by
// config.SCEVInstantiateDepthLimit and guarded against cycles (spec
// §4.3.4's "cyclic instantiation ... detected by the already-instantiated
// stack").
func (e *Engine) Instantiate(c Chrec, resolve Resolver) Chrec {
	return e.instantiate(c, resolve, guard.NewVisited(), 0)
}

func (e *Engine) instantiate(c Chrec, resolve Resolver, visited guard.Visited, depth int) Chrec {
	if depth >= config.SCEVInstantiateDepthLimit {
		return c // give up gracefully, still symbolic (spec §4.3.1, §9)
	}
	switch v := c.(type) {
	case Constant:
		return e.instantiateConstant(v, resolve, visited, depth)
	case Poly:
		return Poly{
			Loop:  v.Loop,
			Left:  e.instantiate(v.Left, resolve, visited, depth+1),
			Right: e.instantiate(v.Right, resolve, visited, depth+1),
		}
	case Expo:
		return Expo{
			Loop:  v.Loop,
			Left:  e.instantiate(v.Left, resolve, visited, depth+1),
			Right: e.instantiate(v.Right, resolve, visited, depth+1),
		}
	case Peeled:
		return Peeled{
			Loop:  v.Loop,
			First: e.instantiate(v.First, resolve, visited, depth+1),
			Rest:  e.instantiate(v.Rest, resolve, visited, depth+1),
		}
	case Interval:
		return Interval{
			Lo: e.instantiate(v.Lo, resolve, visited, depth+1),
			Hi: e.instantiate(v.Hi, resolve, visited, depth+1),
		}
	default: // Top, Bot are already closed forms
		return c
	}
}

func (e *Engine) instantiateConstant(c Constant, resolve Resolver, visited guard.Visited, depth int) Chrec {
	if c.Value == nil || resolve == nil {
		return c
	}
	if _, isLiteral := constInt(c.Value); isLiteral {
		return c // already a literal, nothing to resolve
	}
	if visited.Enter(c.Value) {
		// Cyclic instantiation: a chrec mentioning itself through a chain
		// of symbolic names. Return it symbolically instead of looping
		// forever (spec §4.3.4).
		return c
	}
	defer visited.Leave(c.Value)
	resolved, ok := resolve(c.Value)
	if !ok {
		return c
	}
	e.Stats.Instantiated++
	return e.instantiate(resolved, resolve, visited, depth+1)
}
