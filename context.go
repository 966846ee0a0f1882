// Package ccore is the top-level entry point: it bundles the preprocessor,
// simplifier, scev, and points-to engines behind a single per-compilation-unit
// Context, replacing the teacher's *analysis.Pass plumbing (SPEC_FULL.md
// Ambient Stack §A).
package ccore

import (
	"fmt"
	"runtime/debug"

	"github.com/ccore-lang/ccore/config"
	"github.com/ccore-lang/ccore/diagnostic"
	"github.com/ccore-lang/ccore/ir"
)

// Context is the single mutable state bag one compilation unit's worth of
// engine calls are threaded through: the node arena every engine allocates
// from, the error sink every engine reports through, and the config every
// engine reads dialect/limit switches from. Built once by NewContext and
// passed explicitly to every engine entry point; never shared across
// goroutines (spec §5 — there is no internal locking).
type Context struct {
	Arena *ir.Arena
	Sink  diagnostic.Sink
	Cfg   *config.Config
}

// NewContext returns a Context configured by opts. With no options it gets a
// fresh arena, a default Config, and a diagnostic.Collector sink.
func NewContext(opts ...Option) *Context {
	ctx := &Context{
		Arena: ir.NewArena(),
		Cfg:   config.Default(),
		Sink:  diagnostic.NewCollector(false),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// Report forwards d unchanged to the context's sink — the one place a
// Context touches the sink directly. It does not pretty-print; colored
// rendering is applied by the cmd/ccore driver when Cfg.PrettyPrint is set.
func (ctx *Context) Report(d diagnostic.Diagnostic) {
	ctx.Sink.Report(d)
}

// Guard runs f and recovers any panic into an ICE diagnostic reported
// through ctx, tagged with who (the engine name) the way the teacher's
// analysishelper.WrapRun tags a recovered panic with the failing analyzer's
// name. Every engine entry point called from a driver should be wrapped in
// Guard rather than left to panic across the engine/driver boundary (spec §7:
// an internal compiler error is itself just another diagnostic, not a crash).
func (ctx *Context) Guard(who string, loc ir.Location, f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: internal compiler error: %v", who, r)
			ctx.Report(diagnostic.Diagnostic{
				Severity: diagnostic.ICE,
				Message:  fmt.Sprintf("%s: %v\n%s", who, r, debug.Stack()),
				Pos:      loc,
			})
		}
	}()
	return f()
}

// ErrorCount reports the number of Error/ICE-severity diagnostics reported
// so far, assuming Sink is (or wraps) a *diagnostic.Collector — the
// exit-status source spec §6 describes. Returns 0 for a Sink that doesn't
// expose a count.
func (ctx *Context) ErrorCount() int {
	if counter, ok := ctx.Sink.(interface{ ErrorCount() int }); ok {
		return counter.ErrorCount()
	}
	return 0
}

// HasErrors is a convenience wrapper around ErrorCount.
func (ctx *Context) HasErrors() bool {
	return ctx.ErrorCount() > 0
}
