package cpp

import (
	"time"

	"github.com/ccore-lang/ccore/config"
	"github.com/ccore-lang/ccore/diagnostic"
	"github.com/ccore-lang/ccore/ir"
)

// IncludeResolver locates the text behind a `#include "name"` or
// `#include <name>` directive (spec §6's `-I` search-path contract). angled
// reports whether the directive used `<...>` rather than `"..."`.
type IncludeResolver interface {
	Resolve(name string, angled bool) (fileName, content string, ok bool)
}

// Preprocessor is the top-level coordinator spec §3.2/§4.2 describe: one
// hash-node table, one buffer stack, one error sink, bound to a single
// translation unit. Grounded on cpplib.c's cpp_reader, generalized from the
// teacher's single mutable analysis.Pass into the same "one struct threads
// every collaborator" shape.
type Preprocessor struct {
	cfg      *config.Config
	sink     diagnostic.Sink
	table    *HashTable
	bufs     BufferStack
	resolver IncludeResolver

	baseFile string
	counter  int64

	// fixedClock, when non-zero, is returned by clock() instead of
	// time.Now(), so __DATE__/__TIME__ are reproducible in tests.
	fixedClock time.Time

	poisoned map[string]bool
}

// NewPreprocessor returns a Preprocessor configured from cfg: every -D is
// defined, every -U undefined, every -A pre-asserted, before the first file
// is pushed (spec §6's driver-flag processing order).
func NewPreprocessor(cfg *config.Config, sink diagnostic.Sink, resolver IncludeResolver) *Preprocessor {
	p := &Preprocessor{
		cfg:      cfg,
		sink:     sink,
		table:    NewHashTable(),
		resolver: resolver,
		poisoned: make(map[string]bool),
	}
	p.registerBuiltins()
	for _, d := range cfg.Defines {
		body := d.Body
		if body == "" {
			body = "1"
		}
		p.defineFromText(d.Name, body)
	}
	for _, u := range cfg.Undefines {
		if n, ok := p.table.LookupExisting(u); ok {
			n.Kind = NTUndefined
			n.Macro = nil
		}
	}
	for _, a := range cfg.Asserts {
		toks := lex("<command-line>", a.Answer)
		toks = trimEOF(toks)
		p.table.Lookup(a.Predicate).Assert(toks)
	}
	return p
}

// defineFromText implements a `-Dname=body` or bare `-Dname` command-line
// definition by lexing "name body" through the same path #define uses, so
// its argument-list/reflist handling stays in one place.
func (p *Preprocessor) defineFromText(name, body string) {
	toks := trimEOF(lex("<command-line>", name+" "+body))
	p.define(toks)
}

func trimEOF(toks []Token) []Token {
	out := toks[:0:0]
	for _, t := range toks {
		if t.Kind == TokEOF || t.Kind == TokNewline {
			continue
		}
		out = append(out, t)
	}
	return out
}

// PushFile lexes content and pushes it as a new file buffer, the entry
// point for both the initial translation unit and every #include target.
func (p *Preprocessor) PushFile(name, content string) {
	if p.baseFile == "" {
		p.baseFile = name
	}
	depth := 0
	if b := p.bufs.Top(); b != nil {
		depth = b.IncludeDepth + 1
	}
	p.bufs.Push(&Buffer{
		Kind:         BufferFile,
		FileName:     name,
		Tokens:       lex(name, content),
		IncludeDepth: depth,
	})
}

// NextToken pulls and returns the next fully macro-expanded token, or
// ok=false once the buffer stack is exhausted (spec §9's stateful-generator
// design note).
func (p *Preprocessor) NextToken() (Token, bool) {
	for {
		t, ok := p.nextRaw()
		if !ok {
			return Token{}, false
		}
		if t.Kind == TokPadding {
			// Internal rescan-safety marker (spec §4.2.3); never a real
			// token, so it never reaches a parser or other final consumer.
			continue
		}
		if t.Kind == TokName {
			if p.poisoned[t.Text] {
				p.diagnose("attempt to use poisoned identifier \""+t.Text+"\"", t.Loc)
			}
			if p.tryExpand(t) {
				continue
			}
		}
		return t, true
	}
}

// Tokens drains the preprocessor to completion, a convenience for tests and
// for driver code that wants the whole translation unit at once rather than
// pulling one token at a time.
func (p *Preprocessor) Tokens() []Token {
	var out []Token
	for {
		t, ok := p.NextToken()
		if !ok {
			return out
		}
		out = append(out, t)
	}
}

// nextRaw is the buffer-stack-aware pull primitive: it pops exhausted
// buffers (diagnosing an unterminated conditional group), skips newlines
// and a file buffer's end-of-file sentinel, dispatches a line beginning with `#` as a directive without emitting it,
// and discards tokens while the top buffer's innermost conditional frame is
// in its skipped branch. It never macro-expands — that is NextToken's job —
// so collectArgs and preExpand can reuse it for raw lookahead.
func (p *Preprocessor) nextRaw() (Token, bool) {
	for {
		buf := p.bufs.Top()
		if buf == nil {
			return Token{}, false
		}
		if buf.exhausted() {
			popped, unterminated := p.bufs.Pop()
			if unterminated && popped.Kind == BufferFile {
				p.diagnose("unterminated conditional directive", ir.Location{File: popped.FileName})
			}
			continue
		}
		t, _ := buf.next()
		switch {
		case t.Kind == TokNewline:
			continue
		case t.Kind == TokEOF && buf.Kind == BufferFile:
			continue
		case t.Kind == TokHash && buf.Kind == BufferFile && (buf.Pos == 1 || buf.Tokens[buf.Pos-2].Kind == TokNewline):
			p.handleDirective(buf, t)
			continue
		case buf.skipping():
			continue
		default:
			return t, true
		}
	}
}

func (p *Preprocessor) diagnose(msg string, loc ir.Location) {
	diagnostic.ReportError(p.sink, loc, "%s", msg)
}
