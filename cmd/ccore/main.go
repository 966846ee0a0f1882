// Command ccore runs the preprocessor driver standalone: it reads one
// source file, applies every -D/-U/-A/-I flag spec §6 lists, and prints the
// resulting token stream, one token's text per line. The dialect flags are
// recorded in config.Config but do not change the token stream;
// -pedantic-errors and -fpretty-print do take effect. Modeled on
// the teacher's cmd/nilaway/main.go (flag lifting onto the top-level driver,
// a deliberate os.Exit(1) on a hard error before any analysis starts),
// adapted from "drive go/analysis's singlechecker over a Go package" to
// "drive this core's own Preprocessor over one C-family translation unit",
// since there is no go/analysis collaborator in this domain.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccore-lang/ccore"
	"github.com/ccore-lang/ccore/config"
	"github.com/ccore-lang/ccore/cpp"
	"github.com/ccore-lang/ccore/diagnostic"
)

// stringList accumulates every occurrence of a repeatable flag (-D, -U, -A,
// -I), the flag.Value shape the standard library's flag package expects for
// "may be given more than once" options.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	var defines, undefines, asserts, includeDirs stringList
	flag.Var(&defines, "D", "define name[=body] (repeatable)")
	flag.Var(&undefines, "U", "undefine name (repeatable)")
	flag.Var(&asserts, "A", "pre-assert pred(ans) (repeatable)")
	flag.Var(&includeDirs, "I", "add dir to the #include <...> search path (repeatable)")

	c99 := flag.Bool("std-c99", false, "record the C99 dialect switch (no effect on output)")
	pedantic := flag.Bool("pedantic", false, "record the pedantic switch (no effect on output)")
	pedanticErrors := flag.Bool("pedantic-errors", false, "upgrade warnings to errors")
	traditional := flag.Bool("traditional", false, "record the traditional switch (no effect on output)")
	dollars := flag.Bool("dollars-in-identifiers", false, "record the '$' switch ('$' is always accepted in identifiers)")
	noLineCommands := flag.Bool("P", false, "record the no-line-markers switch (no line markers are ever printed)")
	langAsm := flag.Bool("lang-asm", false, "record the assembler-source switch (no effect on output)")
	pretty := flag.Bool("fpretty-print", false, "colorize diagnostics")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ccore [flags] <file>")
		os.Exit(2)
	}
	path := flag.Args()[0]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ccore: %v\n", err)
		os.Exit(1)
	}

	cfg := &config.Config{
		Undefines:      undefines,
		IncludeDirs:    includeDirs,
		LangAsm:        *langAsm,
		C99:            *c99,
		Pedantic:       *pedantic,
		Traditional:    *traditional,
		DollarsInIdent: *dollars,
		NoLineCommands: *noLineCommands,
		PrettyPrint:    *pretty,
	}
	for _, d := range defines {
		cfg.Defines = append(cfg.Defines, parseDefine(d))
	}
	for _, a := range asserts {
		assertion, aerr := parseAssert(a)
		if aerr != nil {
			fmt.Fprintf(os.Stderr, "ccore: -A %q: %v\n", a, aerr)
			os.Exit(2)
		}
		cfg.Asserts = append(cfg.Asserts, assertion)
	}

	opts := []ccore.Option{ccore.WithConfig(cfg)}
	if *pedanticErrors {
		opts = append(opts, ccore.WithPedanticAsError())
	}
	ctx := ccore.NewContext(opts...)

	resolver := &dirResolver{dirs: includeDirs, base: filepath.Dir(path)}
	pp := cpp.NewPreprocessor(cfg, ctx.Sink, resolver)
	pp.PushFile(path, string(src))

	for {
		tok, ok := pp.NextToken()
		if !ok {
			break
		}
		fmt.Println(tok.Text)
	}

	collector, ok := ctx.Sink.(*diagnostic.Collector)
	if !ok {
		os.Exit(0)
	}
	for _, d := range collector.Diagnostics() {
		msg := d.String()
		if cfg.PrettyPrint {
			msg = diagnostic.PrettyPrint(d)
		}
		fmt.Fprintln(os.Stderr, msg)
	}
	if collector.HasErrors() {
		os.Exit(1)
	}
}

// parseDefine splits a -D argument into name and body, defaulting body to
// "1" for a bare -Dname (spec §6).
func parseDefine(s string) config.Define {
	if i := strings.IndexByte(s, '='); i >= 0 {
		return config.Define{Name: s[:i], Body: s[i+1:]}
	}
	return config.Define{Name: s, Body: "1"}
}

// parseAssert splits a -A argument of the form "pred(ans)" into its
// predicate and answer (spec §6, §4.2.6).
func parseAssert(s string) (config.Assert, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return config.Assert{}, fmt.Errorf("expected pred(ans), got %q", s)
	}
	return config.Assert{Predicate: s[:open], Answer: s[open+1 : len(s)-1]}, nil
}

// dirResolver implements cpp.IncludeResolver against the real filesystem:
// quote-form #include searches the including file's directory first, then
// every -I directory in order; angle-form skips straight to the -I search
// path, matching the quote-vs-angle search-order distinction spec §6's -I
// contract describes.
type dirResolver struct {
	dirs []string
	base string
}

func (r *dirResolver) Resolve(name string, angled bool) (string, string, bool) {
	var candidates []string
	if !angled {
		candidates = append(candidates, filepath.Join(r.base, name))
	}
	for _, d := range r.dirs {
		candidates = append(candidates, filepath.Join(d, name))
	}
	for _, c := range candidates {
		if content, err := os.ReadFile(c); err == nil {
			return c, string(content), true
		}
	}
	return "", "", false
}
