package cpp

import (
	"strings"

	"github.com/ccore-lang/ccore/ir"
)

// tryExpand attempts to treat tok (already known to be a TokName) as a
// macro invocation. It returns false when tok must stand as an ordinary
// identifier: an undefined name, a disabled (currently-expanding) macro, or
// a function-like macro not followed by `(`. On success it has pushed a new
// buffer onto the input stack holding the expansion and the caller should
// loop back to its token-pull primitive.
func (p *Preprocessor) tryExpand(tok Token) bool {
	if tok.NoExpand {
		return false
	}
	node, ok := p.table.LookupExisting(tok.Text)
	if !ok {
		return false
	}
	switch node.Kind {
	case NTObjectMacro:
		if node.Disabled {
			return false
		}
		body := substitute(node.Macro, nil, nil, tok.Loc)
		p.pushMacroBuffer(node, body)
		return true

	case NTFunctionMacro:
		if node.Disabled {
			return false
		}
		save := p.snapshotCursor()
		lp, ok := p.nextRaw()
		for ok && lp.Kind == TokPadding {
			lp, ok = p.nextRaw()
		}
		if !ok || lp.Kind != TokLParen {
			p.restoreCursor(save)
			return false
		}
		rawArgs, err := p.collectArgs(node.Macro)
		if err != nil {
			p.diagnose(err.Error(), tok.Loc)
			return false
		}
		expArgs := make([][]Token, len(rawArgs))
		for i, a := range rawArgs {
			expArgs[i] = p.preExpand(a)
		}
		body := substitute(node.Macro, rawArgs, expArgs, tok.Loc)
		p.pushMacroBuffer(node, body)
		return true

	case NTBuiltinMacro:
		computed := p.expandBuiltin(node.Builtin, tok.Loc)
		p.bufs.Push(&Buffer{Kind: BufferMacro, Tokens: []Token{computed}})
		return true
	}
	return false
}

func (p *Preprocessor) pushMacroBuffer(node *HashNode, body []Token) {
	node.Disabled = true
	p.bufs.Push(&Buffer{
		Kind:   BufferMacro,
		Tokens: body,
		onPop:  func() { node.Disabled = false },
	})
}

type cursorSnapshot struct {
	buf *Buffer
	pos int
}

func (p *Preprocessor) snapshotCursor() cursorSnapshot {
	buf := p.bufs.Top()
	if buf == nil {
		return cursorSnapshot{}
	}
	return cursorSnapshot{buf: buf, pos: buf.Pos}
}

func (p *Preprocessor) restoreCursor(s cursorSnapshot) {
	if s.buf != nil {
		s.buf.Pos = s.pos
	}
}

// collectArgs parses a function-like macro invocation's actual argument
// list, already past the opening `(`, using raw (unexpanded) token pulls so
// stringification and pasting see the exact spelling supplied at the call
// site (spec §4.2.3). Commas inside nested parentheses do not separate
// arguments; if the macro takes a trailing rest-parameter, arguments beyond
// the declared count are merged into the final one separated by commas.
func (p *Preprocessor) collectArgs(def *Definition) ([][]Token, error) {
	nparams := len(def.Params)
	var args [][]Token
	var cur []Token
	depth := 0
	for {
		t, ok := p.nextRaw()
		if !ok || t.Kind == TokEOF {
			return nil, errUnterminatedArgs
		}
		switch {
		case t.Kind == TokLParen:
			depth++
			cur = append(cur, t)
		case t.Kind == TokRParen:
			if depth == 0 {
				args = append(args, cur)
				return fixupRestArgs(args, nparams, def.HasRestArgs), nil
			}
			depth--
			cur = append(cur, t)
		case t.Kind == TokComma && depth == 0 && !(def.HasRestArgs && len(args) >= nparams):
			args = append(args, cur)
			cur = nil
		default:
			cur = append(cur, t)
		}
	}
}

func fixupRestArgs(args [][]Token, nparams int, hasRest bool) [][]Token {
	if !hasRest {
		return args
	}
	if len(args) < nparams {
		args = append(args, nil)
	}
	return args
}

var errUnterminatedArgs = errUnterminated{}

type errUnterminated struct{}

func (errUnterminated) Error() string { return "unterminated macro argument list" }

// preExpand macro-expands a single argument's raw tokens in isolation, used
// to produce the "expanded argument" substitution per C99 §6.10.3.1. It runs
// the same buffer-stack machinery as the main token pull loop, scoped to a
// throwaway buffer so it cannot observe or disturb the enclosing input.
func (p *Preprocessor) preExpand(raw []Token) []Token {
	if len(raw) == 0 {
		return nil
	}
	toks := append(append([]Token{}, raw...), Token{Kind: TokEOF})
	buf := &Buffer{Kind: BufferMacro, Tokens: toks}
	p.bufs.Push(buf)
	var out []Token
	for {
		t, ok := p.NextToken()
		if !ok {
			break
		}
		if t.Kind == TokEOF && p.bufs.Top() == buf {
			p.bufs.Pop()
			break
		}
		if t.Kind == TokEOF {
			continue
		}
		out = append(out, t)
	}
	return out
}

// substitute replaces parameters in def's body with rawArgs/expArgs and
// performs `##` pasting, producing the token sequence that gets pushed as
// the macro's expansion buffer (spec §4.2.3 `substitute`). A TokPadding
// token is spliced between two pieces joined without an intervening `##`
// whenever at least one side came from an argument substitution: the two
// fragments were not adjacent in any original source text, so without a
// boundary marker a later rescan that stringifies or re-pastes across this
// join could fuse them into a token neither fragment contained. Padding
// never appears across an actual `##` join, since that fusion is requested.
func substitute(def *Definition, rawArgs, expArgs [][]Token, invocLoc ir.Location) []Token {
	var out []Token
	pasteNext := false
	prevWasArg := false
	for _, e := range def.Body {
		if e.IsHashHash {
			pasteNext = true
			continue
		}
		var piece []Token
		isArgPiece := e.IsArg
		switch {
		case e.IsArg && e.Arg.Stringify:
			var raw []Token
			if e.Arg.Param < len(rawArgs) {
				raw = rawArgs[e.Arg.Param]
			}
			piece = []Token{stringifyTokens(raw, invocLoc)}
		case e.IsArg && (e.Arg.RawLeft || e.Arg.RawRight):
			if e.Arg.Param < len(rawArgs) {
				piece = rawArgs[e.Arg.Param]
			}
		case e.IsArg:
			if e.Arg.Param < len(expArgs) {
				piece = expArgs[e.Arg.Param]
			}
		default:
			piece = []Token{e.Lit}
		}

		if pasteNext {
			if len(piece) == 0 {
				if len(out) > 0 && out[len(out)-1].Kind == TokComma {
					out = out[:len(out)-1]
				}
			} else if len(out) > 0 {
				out[len(out)-1] = pasteTokens(out[len(out)-1], piece[0])
				out = append(out, piece[1:]...)
			} else {
				out = append(out, piece...)
			}
		} else {
			if len(out) > 0 && len(piece) > 0 && (isArgPiece || prevWasArg) {
				out = append(out, paddingToken(piece[0].Loc))
			}
			out = append(out, piece...)
		}
		pasteNext = false
		if len(piece) > 0 {
			prevWasArg = isArgPiece
		}
	}
	return out
}

// paddingToken returns the rescan-safety separator substitute splices
// between non-pasted fragment boundaries. Its two-byte spelling matches
// what a textual preprocessor emits for the same purpose; this pipeline
// never re-lexes text, so the spelling only matters if a fragment is ever
// printed back out verbatim.
func paddingToken(loc ir.Location) Token {
	return Token{Kind: TokPadding, Text: "\r ", Loc: loc}
}

func pasteTokens(a, b Token) Token {
	text := a.Text + b.Text
	kind := TokOther
	switch {
	case len(text) > 0 && isIdentStart(rune(text[0])):
		kind = TokName
	case len(text) > 0 && (text[0] >= '0' && text[0] <= '9'):
		kind = TokNumber
	default:
		kind = TokPunct
	}
	return Token{Kind: kind, Text: text, Loc: a.Loc}
}

// stringifyTokens implements the `#` operator (spec §4.2.3): it renders
// toks back to their spelling, with a single space everywhere the original
// had whitespace. A TokPadding token carries no spelling of its own, but
// still forces a space, since it marks a join the source text never had;
// without this the `#` operator could fuse two argument fragments into one
// lexeme that was never present at any macro's call site.
func stringifyTokens(toks []Token, loc ir.Location) Token {
	var b strings.Builder
	b.WriteByte('"')
	first := true
	needSpace := false
	for _, t := range toks {
		if t.Kind == TokPadding {
			needSpace = true
			continue
		}
		if !first && (t.PrecededByWhitespace || needSpace) {
			b.WriteByte(' ')
		}
		if t.Kind == TokString || t.Kind == TokCharConst {
			for _, r := range t.Text {
				if r == '"' || r == '\\' {
					b.WriteByte('\\')
				}
				b.WriteRune(r)
			}
		} else {
			b.WriteString(t.Text)
		}
		first = false
		needSpace = false
	}
	b.WriteByte('"')
	return Token{Kind: TokString, Text: b.String(), Loc: loc}
}
