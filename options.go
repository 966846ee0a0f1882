package ccore

import (
	"github.com/ccore-lang/ccore/config"
	"github.com/ccore-lang/ccore/diagnostic"
	"github.com/ccore-lang/ccore/ir"
)

// Option configures a Context at construction time. Modeled on the
// functional-options shape the cpp.NewPreprocessor/simplify.New constructors
// already take their collaborators through, lifted one level so a driver
// builds one Context and hands it to every engine rather than wiring each
// engine's constructor by hand.
type Option func(*Context)

// WithConfig attaches cfg instead of config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(ctx *Context) { ctx.Cfg = cfg }
}

// WithSink attaches sink instead of a fresh diagnostic.Collector.
func WithSink(sink diagnostic.Sink) Option {
	return func(ctx *Context) { ctx.Sink = sink }
}

// WithArena attaches arena instead of a freshly allocated one — used by a
// driver that needs to pre-populate the arena (e.g. with builtin type nodes)
// before the Context exists.
func WithArena(arena *ir.Arena) Option {
	return func(ctx *Context) { ctx.Arena = arena }
}

// WithPedanticAsError upgrades every Warning diagnostic to Error, matching
// the -pedantic-errors driver flag (spec §7), by installing a fresh
// diagnostic.Collector with the upgrade enabled. It replaces any sink an
// earlier option installed, and a later WithSink option replaces it in turn.
func WithPedanticAsError() Option {
	return func(ctx *Context) { ctx.Sink = diagnostic.NewCollector(true) }
}
