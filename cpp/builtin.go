package cpp

import (
	"fmt"
	"time"

	"github.com/ccore-lang/ccore/ir"
)

// registerBuiltins installs the computed-on-expansion macros (spec §4.2.4),
// grounded on cpplib.c's builtin_macro/BT_* dispatch. Each is recomputed at
// every expansion site rather than defined once, since its value depends on
// the current buffer location.
func (p *Preprocessor) registerBuiltins() {
	install := func(name string, kind BuiltinKind) {
		n := p.table.Lookup(name)
		n.Kind = NTBuiltinMacro
		n.Builtin = kind
	}
	install("__FILE__", BuiltinFile)
	install("__LINE__", BuiltinLine)
	install("__DATE__", BuiltinDate)
	install("__TIME__", BuiltinTime)
	install("__BASE_FILE__", BuiltinBaseFile)
	install("__INCLUDE_LEVEL__", BuiltinIncludeLevel)
	install("__STDC__", BuiltinSTDC)
	install("__COUNTER__", BuiltinCounter)
}

// expandBuiltin computes the single-token (or in the case of __FILE__, a
// string-literal token) replacement for a builtin macro reference at loc.
func (p *Preprocessor) expandBuiltin(kind BuiltinKind, loc ir.Location) Token {
	switch kind {
	case BuiltinFile:
		return Token{Kind: TokString, Text: fmt.Sprintf("%q", loc.File), Loc: loc}
	case BuiltinLine:
		return Token{Kind: TokNumber, Text: fmt.Sprintf("%d", loc.Line), Loc: loc}
	case BuiltinDate:
		return Token{Kind: TokString, Text: p.clock().Format(`"Jan _2 2006"`), Loc: loc}
	case BuiltinTime:
		return Token{Kind: TokString, Text: p.clock().Format(`"15:04:05"`), Loc: loc}
	case BuiltinBaseFile:
		return Token{Kind: TokString, Text: fmt.Sprintf("%q", p.baseFile), Loc: loc}
	case BuiltinIncludeLevel:
		depth := 0
		if buf := p.bufs.Top(); buf != nil {
			depth = buf.IncludeDepth
		}
		return Token{Kind: TokNumber, Text: fmt.Sprintf("%d", depth), Loc: loc}
	case BuiltinSTDC:
		return Token{Kind: TokNumber, Text: "1", Loc: loc}
	case BuiltinCounter:
		v := p.counter
		p.counter++
		return Token{Kind: TokNumber, Text: fmt.Sprintf("%d", v), Loc: loc}
	default:
		return Token{Kind: TokNumber, Text: "0", Loc: loc}
	}
}

func (p *Preprocessor) clock() time.Time {
	if !p.fixedClock.IsZero() {
		return p.fixedClock
	}
	return time.Now()
}
