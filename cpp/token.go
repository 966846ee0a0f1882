// Package cpp implements the preprocessor core (spec §3.2, §4.2): token
// stream, hash-node table, macro definitions with reflists, the buffer
// stack, the conditional stack, directive dispatch, built-in macros, and
// assertions. Grounded throughout on original_source's cpplib.c/cpphash.c
// (bounded-pointers-branch/gcc/cpplib.c, cpplib.h), function and concept
// names kept close to the original so the grounding ledger stays legible.
package cpp

import "github.com/ccore-lang/ccore/ir"

// TokenKind classifies a preprocessing token. This is the tokenizer's output
// alphabet, matching cpplib.h's CPP_* token-type enum at the granularity the
// directive dispatcher and macro expander need (punctuators are not
// individually broken out beyond what `##`/stringify/paren-tracking require).
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokName           // identifier or keyword
	TokNumber         // pp-number
	TokString
	TokCharConst
	TokPunct // any punctuator not listed below
	TokLParen
	TokRParen
	TokComma
	TokHash    // '#' at logical line start
	TokHashHash
	TokNewline
	TokPadding // the "\r " rescan-safety separator, spec §4.2.3
	TokOther
)

// Token is one lexical unit of the preprocessing token stream.
type Token struct {
	Kind TokenKind
	Text string
	Loc  ir.Location

	// PrecededByWhitespace records whether whitespace (including a line
	// continuation) appeared immediately before this token in the source
	// — needed to tell `name(` (function-like macro invocation) apart from
	// `name (` and to reconstruct faithful stringification (spec §4.2.3).
	PrecededByWhitespace bool

	// NoExpand marks a token that must never be macro-expanded again, the
	// textual equivalent of a disabled hash node recorded per-token rather
	// than per-identifier — used when a raw argument is spliced in next to
	// a `##` and must not be rescanned as if freshly written (spec §3.2's
	// "no-reexpand markers").
	NoExpand bool
}

// IsIdent reports whether t is a TokName whose text is a valid C
// identifier/keyword spelling (used pervasively by the directive dispatcher
// and macro-argument matcher).
func (t Token) IsIdent() bool { return t.Kind == TokName }
