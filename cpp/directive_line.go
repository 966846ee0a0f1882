package cpp

import (
	"strconv"

	"github.com/ccore-lang/ccore/ir"
)

// LineFlag is one of the four trailing flags `#line` (GCC's extended form)
// accepts after the filename, spec's Open Question (b) decision: they are
// recognized and validated but have no further effect on this core's output
// beyond being accepted without diagnosing "extra tokens after directive".
type LineFlag int

const (
	LineFlagNewFile   LineFlag = 1 // entering an included file
	LineFlagReturn    LineFlag = 2 // returning from an included file
	LineFlagSystem    LineFlag = 3 // subsequent lines are a system header
	LineFlagExternC   LineFlag = 4 // subsequent lines are implicitly extern "C"
)

// doLine implements `#line linenum ["filename" [flags...]]`, retargeting
// every token's reported location for the remainder of the current buffer
// (spec §4.2.7, grounded on cpplib.c's do_line). Since this core's tokens
// carry an absolute ir.Location stamped at lex time rather than an offset
// resolved lazily, #line is applied by rewriting the remaining tokens of
// the buffer in place.
func (p *Preprocessor) doLine(rest []Token, loc ir.Location) {
	if len(rest) == 0 || rest[0].Kind != TokNumber {
		p.diagnose("#line directive requires a positive integer argument", loc)
		return
	}
	newLine, err := strconv.Atoi(rest[0].Text)
	if err != nil || newLine < 0 {
		p.diagnose("\""+rest[0].Text+"\" is not a valid line number", loc)
		return
	}

	var newFile string
	haveFile := false
	i := 1
	if i < len(rest) && rest[i].Kind == TokString {
		newFile = trimQuotes(rest[i].Text)
		haveFile = true
		i++
	}
	for ; i < len(rest); i++ {
		if rest[i].Kind != TokNumber {
			p.diagnose("invalid flag \""+rest[i].Text+"\" in line directive", loc)
			continue
		}
		f, err := strconv.Atoi(rest[i].Text)
		if err != nil || f < 1 || f > 4 {
			p.diagnose("invalid flag \""+rest[i].Text+"\" in line directive", loc)
		}
	}

	p.retarget(newLine, newFile, haveFile)
}

func (p *Preprocessor) retarget(newLine int, newFile string, haveFile bool) {
	buf := p.bufs.Top()
	if buf == nil || buf.Pos >= len(buf.Tokens) {
		return
	}
	base := buf.Tokens[buf.Pos].Loc.Line
	delta := newLine - base
	for i := buf.Pos; i < len(buf.Tokens); i++ {
		buf.Tokens[i].Loc.Line += delta
		if haveFile {
			buf.Tokens[i].Loc.File = newFile
		}
	}
	if haveFile {
		buf.FileName = newFile
	}
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
