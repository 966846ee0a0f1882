package cpp

import (
	"strings"

	"github.com/ccore-lang/ccore/diagnostic"
	"github.com/ccore-lang/ccore/ir"
)

// handleDirective consumes one full logical line starting at the `#` token
// already pulled from buf and dispatches it. Conditional-group directives
// (if/ifdef/ifndef/elif/else/endif) always run, even while an enclosing
// group is skipped, so nesting stays tracked; every other directive is
// inert while the innermost frame is skipping (spec §4.2.5's "directives
// recognized while skipping" distinction, grounded on cpplib.c's
// skip_if_group / dtable flags).
func (p *Preprocessor) handleDirective(buf *Buffer, hash Token) {
	line := readLogicalLine(buf)
	if len(line) == 0 {
		return // null directive, "#" alone on a line
	}
	name := line[0]
	if name.Kind == TokNumber {
		// `# 33 "file"` is the bare line-marker form of #line.
		if !buf.skipping() {
			p.doLine(line, hash.Loc)
		}
		return
	}
	if name.Kind != TokName {
		if !buf.skipping() {
			p.diagnose("invalid preprocessing directive", hash.Loc)
		}
		return
	}
	rest := line[1:]

	switch name.Text {
	case "if":
		p.doIf(buf, rest, hash.Loc)
		return
	case "ifdef":
		p.doIfdef(buf, rest, hash.Loc, false)
		return
	case "ifndef":
		p.doIfdef(buf, rest, hash.Loc, true)
		return
	case "elif":
		p.doElif(buf, rest, hash.Loc)
		return
	case "else":
		p.doElse(buf, hash.Loc)
		return
	case "endif":
		p.doEndif(buf, hash.Loc)
		return
	}

	if buf.skipping() {
		return
	}

	switch name.Text {
	case "define":
		p.doDefine(rest, hash.Loc)
	case "undef":
		p.doUndef(rest, hash.Loc)
	case "include":
		p.doInclude(rest, hash.Loc)
	case "line":
		p.doLine(rest, hash.Loc)
	case "pragma":
		p.doPragma(rest, hash.Loc)
	case "error":
		diagnostic.ReportError(p.sink, hash.Loc, "#error %s", reconstructText(rest))
	case "warning":
		diagnostic.ReportWarning(p.sink, hash.Loc, "#warning %s", reconstructText(rest))
	case "assert":
		p.doAssert(rest, hash.Loc)
	case "unassert":
		p.doUnassert(rest, hash.Loc)
	case "ident", "sccs":
		// accepted and ignored, matching cpplib.c's do_ident.
	default:
		p.diagnose("invalid preprocessing directive #"+name.Text, hash.Loc)
	}
}

func readLogicalLine(buf *Buffer) []Token {
	var out []Token
	for {
		t, ok := buf.peek()
		if !ok || t.Kind == TokEOF {
			return out
		}
		if t.Kind == TokNewline {
			buf.next()
			return out
		}
		buf.next()
		out = append(out, t)
	}
}

func reconstructText(toks []Token) string {
	var b strings.Builder
	for i, t := range toks {
		if i > 0 && t.PrecededByWhitespace {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

func parentIsSkipping(buf *Buffer) bool {
	if len(buf.CondStack) < 2 {
		return false
	}
	return buf.CondStack[len(buf.CondStack)-2].SkippingThisBranch
}

func (p *Preprocessor) doIf(buf *Buffer, rest []Token, loc ir.Location) {
	if buf.skipping() {
		buf.pushCond(ConditionalFrame{StartLoc: loc, LastDirective: "if", SkippingThisBranch: true})
		return
	}
	val, _ := p.evalIfExpr(rest, loc)
	taken := val != 0
	buf.pushCond(ConditionalFrame{StartLoc: loc, LastDirective: "if", AnyBranchTaken: taken, SkippingThisBranch: !taken})
}

func (p *Preprocessor) doIfdef(buf *Buffer, rest []Token, loc ir.Location, negate bool) {
	if buf.skipping() {
		buf.pushCond(ConditionalFrame{StartLoc: loc, LastDirective: "if", SkippingThisBranch: true})
		return
	}
	defined := false
	if len(rest) == 0 || rest[0].Kind != TokName {
		p.diagnose("macro name missing after #ifdef/#ifndef", loc)
	} else if n, ok := p.table.LookupExisting(rest[0].Text); ok {
		defined = n.Kind == NTObjectMacro || n.Kind == NTFunctionMacro || n.Kind == NTBuiltinMacro
	}
	taken := defined != negate
	buf.pushCond(ConditionalFrame{StartLoc: loc, LastDirective: "if", AnyBranchTaken: taken, SkippingThisBranch: !taken})
}

func (p *Preprocessor) doElif(buf *Buffer, rest []Token, loc ir.Location) {
	f, ok := buf.topCond()
	if !ok {
		p.diagnose("#elif without a preceding #if", loc)
		return
	}
	if f.LastDirective == "else" {
		p.diagnose("#elif after #else", loc)
	}
	f.LastDirective = "elif"

	if parentIsSkipping(buf) || f.AnyBranchTaken {
		f.SkippingThisBranch = true
		return
	}
	val, _ := p.evalIfExpr(rest, loc)
	taken := val != 0
	f.SkippingThisBranch = !taken
	if taken {
		f.AnyBranchTaken = true
	}
}

func (p *Preprocessor) doElse(buf *Buffer, loc ir.Location) {
	f, ok := buf.topCond()
	if !ok {
		p.diagnose("#else without a preceding #if", loc)
		return
	}
	if f.LastDirective == "else" {
		p.diagnose("#else after #else", loc)
	}
	f.LastDirective = "else"

	if parentIsSkipping(buf) || f.AnyBranchTaken {
		f.SkippingThisBranch = true
		return
	}
	f.SkippingThisBranch = false
	f.AnyBranchTaken = true
}

func (p *Preprocessor) doEndif(buf *Buffer, loc ir.Location) {
	if len(buf.CondStack) == 0 {
		p.diagnose("#endif without a preceding #if", loc)
		return
	}
	buf.popCond()
}

func (p *Preprocessor) doDefine(rest []Token, loc ir.Location) {
	if len(rest) == 0 || rest[0].Kind != TokName {
		p.diagnose("macro name missing", loc)
		return
	}
	name := rest[0].Text
	if p.poisoned[name] {
		p.diagnose("attempt to define poisoned identifier \""+name+"\"", loc)
		return
	}
	remaining := rest[1:]

	isFunctionLike := len(remaining) > 0 && remaining[0].Kind == TokLParen && !remaining[0].PrecededByWhitespace
	var params []string
	hasRest := false
	var bodyToks []Token

	if isFunctionLike {
		remaining = remaining[1:]
		for len(remaining) > 0 && remaining[0].Kind != TokRParen {
			if remaining[0].Kind == TokPunct && remaining[0].Text == "..." {
				hasRest = true
				remaining = remaining[1:]
				break
			}
			if remaining[0].Kind != TokName {
				p.diagnose("invalid macro parameter list", loc)
				break
			}
			params = append(params, remaining[0].Text)
			remaining = remaining[1:]
			if len(remaining) > 0 && remaining[0].Kind == TokComma {
				remaining = remaining[1:]
			}
		}
		if len(remaining) > 0 && remaining[0].Kind == TokRParen {
			remaining = remaining[1:]
		} else {
			p.diagnose("missing ')' in macro parameter list", loc)
		}
		bodyToks = remaining
	} else {
		bodyToks = remaining
	}

	elems, err := collectExpansion(params, hasRest, bodyToks)
	if err != nil {
		p.diagnose(err.Error(), loc)
		return
	}
	def := &Definition{Name: name, IsFunctionLike: isFunctionLike, Params: params, HasRestArgs: hasRest, Body: elems, Loc: rest[0]}

	node := p.table.Lookup(name)
	if (node.Kind == NTObjectMacro || node.Kind == NTFunctionMacro) && !definitionsEqual(node.Macro, def) {
		diagnostic.ReportWarning(p.sink, loc, "%q redefined", name)
	}
	node.Kind = NTObjectMacro
	if isFunctionLike {
		node.Kind = NTFunctionMacro
	}
	node.Macro = def
}

func definitionsEqual(a, b *Definition) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.IsFunctionLike != b.IsFunctionLike || a.HasRestArgs != b.HasRestArgs || len(a.Params) != len(b.Params) || len(a.Body) != len(b.Body) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	for i := range a.Body {
		ea, eb := a.Body[i], b.Body[i]
		if ea.IsArg != eb.IsArg || ea.IsHashHash != eb.IsHashHash {
			return false
		}
		if ea.IsArg && ea.Arg != eb.Arg {
			return false
		}
		if !ea.IsArg && (ea.Lit.Kind != eb.Lit.Kind || ea.Lit.Text != eb.Lit.Text) {
			return false
		}
	}
	return true
}

func (p *Preprocessor) doUndef(rest []Token, loc ir.Location) {
	if len(rest) == 0 || rest[0].Kind != TokName {
		p.diagnose("macro name missing after #undef", loc)
		return
	}
	name := rest[0].Text
	if p.poisoned[name] {
		p.diagnose("attempt to undefine poisoned identifier \""+name+"\"", loc)
		return
	}
	if n, ok := p.table.LookupExisting(name); ok && n.Kind != NTBuiltinMacro {
		n.Kind = NTUndefined
		n.Macro = nil
	}
}

func (p *Preprocessor) doInclude(rest []Token, loc ir.Location) {
	if len(rest) == 0 {
		p.diagnose("#include expects \"FILENAME\" or <FILENAME>", loc)
		return
	}
	var filename string
	var angled bool
	switch {
	case rest[0].Kind == TokString && strings.HasPrefix(rest[0].Text, "\""):
		filename = strings.Trim(rest[0].Text, "\"")
	case rest[0].Kind == TokPunct && rest[0].Text == "<":
		var b strings.Builder
		i := 1
		for i < len(rest) && !(rest[i].Kind == TokPunct && rest[i].Text == ">") {
			b.WriteString(rest[i].Text)
			i++
		}
		filename = b.String()
		angled = true
	default:
		p.diagnose("#include expects \"FILENAME\" or <FILENAME>", loc)
		return
	}
	if p.resolver == nil {
		p.diagnose("#include of \""+filename+"\": no include resolver configured", loc)
		return
	}
	name, content, ok := p.resolver.Resolve(filename, angled)
	if !ok {
		p.diagnose("\""+filename+"\": No such file or directory", loc)
		return
	}
	p.PushFile(name, content)
}

func (p *Preprocessor) doAssert(rest []Token, loc ir.Location) {
	pred, answer, ok := parseAssertionLine(rest)
	if !ok {
		p.diagnose("invalid #assert syntax", loc)
		return
	}
	p.table.Lookup(pred).Assert(answer)
}

func (p *Preprocessor) doUnassert(rest []Token, loc ir.Location) {
	if len(rest) == 0 || rest[0].Kind != TokName {
		p.diagnose("invalid #unassert syntax", loc)
		return
	}
	pred := rest[0].Text
	if len(rest) == 1 {
		if n, ok := p.table.LookupExisting(pred); ok {
			n.Unassert(nil)
		}
		return
	}
	_, answer, ok := parseAssertionLine(rest)
	if !ok {
		p.diagnose("invalid #unassert syntax", loc)
		return
	}
	if n, ok := p.table.LookupExisting(pred); ok {
		n.Unassert(answer)
	}
}

func parseAssertionLine(rest []Token) (pred string, answer []Token, ok bool) {
	if len(rest) == 0 || rest[0].Kind != TokName {
		return "", nil, false
	}
	pred = rest[0].Text
	if len(rest) == 1 {
		return pred, nil, true
	}
	if rest[1].Kind != TokLParen {
		return "", nil, false
	}
	depth := 0
	for i := 1; i < len(rest); i++ {
		switch rest[i].Kind {
		case TokLParen:
			depth++
			if depth == 1 {
				continue
			}
		case TokRParen:
			depth--
			if depth == 0 {
				return pred, answer, true
			}
		}
		if depth >= 1 && !(rest[i].Kind == TokLParen && depth == 1) {
			answer = append(answer, rest[i])
		}
	}
	return "", nil, false
}
