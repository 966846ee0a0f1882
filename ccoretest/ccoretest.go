// Package ccoretest implements shared test fixtures for this module's
// package tests: a t.Helper-wrapped Context constructor and small builders
// for the type/token fixtures package tests otherwise hand-roll themselves
// (simplify_test.go's intType, scev_test.go's setup, cpp_test.go's run).
// Modeled on the teacher's nilawaytest package, adapted from "inspect a
// go/ast tree for expected-value comments" to "build the IR/token fixtures a
// C-family engine's tests need", since this core's collaborator is a
// C-family front end rather than Go source.
package ccoretest

import (
	"testing"

	"github.com/ccore-lang/ccore"
	"github.com/ccore-lang/ccore/config"
	"github.com/ccore-lang/ccore/cpp"
	"github.com/ccore-lang/ccore/diagnostic"
	"github.com/ccore-lang/ccore/ir"
)

// NewContext returns a Context wired to a fresh diagnostic.Collector, the
// shape nearly every package test in this module wants, and fails t
// immediately if any diagnostic collected by the end of the test turns out
// to be an ICE (a panic any engine recovered through Context.Guard is
// always a test bug, never an expected result).
func NewContext(t *testing.T, opts ...ccore.Option) *ccore.Context {
	t.Helper()
	coll := diagnostic.NewCollector(false)
	ctx := ccore.NewContext(append([]ccore.Option{ccore.WithSink(coll)}, opts...)...)
	t.Cleanup(func() {
		for _, d := range coll.Diagnostics() {
			if d.Severity == diagnostic.ICE {
				t.Errorf("unexpected internal compiler error: %s", d.Message)
			}
		}
	})
	return ctx
}

// Collector type-asserts ctx's sink back to *diagnostic.Collector, failing t
// if a caller installed something else. Every helper in this package
// assumes a Collector sink, same as NewContext installs by default.
func Collector(t *testing.T, ctx *ccore.Context) *diagnostic.Collector {
	t.Helper()
	coll, ok := ctx.Sink.(*diagnostic.Collector)
	if !ok {
		t.Fatalf("ccoretest: Context's sink is %T, not *diagnostic.Collector", ctx.Sink)
	}
	return coll
}

// IntType returns the interned "int" type node from arena, the fixture
// nearly every simplify/scev/pointsto test builds a decl or constant
// against.
func IntType(arena *ir.Arena) *ir.Node {
	return arena.NewType(ir.OpIntegerType, "int")
}

// PointerType returns the interned pointer-to-elem type node.
func PointerType(arena *ir.Arena, elem *ir.Node) *ir.Node {
	desc := "ptr"
	if elem != nil {
		if p, ok := elem.Payload().(string); ok {
			desc = "ptr(" + p + ")"
		}
	}
	return arena.NewType(ir.OpPointerType, desc, elem)
}

// Tokenize runs src through a fresh Preprocessor configured from cfg (or
// config.Default() if cfg is nil) and returns every output token's text in
// order, the same shape cpp_test.go's local run helper already returns —
// lifted here so other packages' tests that only care about the token
// stream (not the Collector) don't need their own copy.
func Tokenize(t *testing.T, cfg *config.Config, src string) ([]string, *diagnostic.Collector) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	coll := diagnostic.NewCollector(false)
	pp := cpp.NewPreprocessor(cfg, coll, nil)
	pp.PushFile("t.c", src)

	var out []string
	for {
		tok, ok := pp.NextToken()
		if !ok {
			break
		}
		out = append(out, tok.Text)
	}
	return out, coll
}
