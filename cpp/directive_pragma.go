package cpp

import "github.com/ccore-lang/ccore/ir"

// doPragma implements `#pragma ...`. Only the poison pragma is interpreted,
// in both its spellings `#pragma GCC poison IDENT...` and the bare
// `#pragma poison IDENT...`; every other pragma is accepted and silently dropped, matching cpplib.c's
// do_pragma forwarding unrecognized pragmas to the compiler proper (which
// this core does not have one of).
func (p *Preprocessor) doPragma(rest []Token, loc ir.Location) {
	if len(rest) >= 2 && rest[0].Kind == TokName && rest[0].Text == "GCC" && rest[1].Kind == TokName && rest[1].Text == "poison" {
		for _, t := range rest[2:] {
			if t.Kind != TokName {
				continue
			}
			p.poisoned[t.Text] = true
		}
		return
	}
	if len(rest) >= 1 && rest[0].Kind == TokName && rest[0].Text == "poison" {
		for _, t := range rest[1:] {
			if t.Kind != TokName {
				continue
			}
			p.poisoned[t.Text] = true
		}
		return
	}
	// Every other pragma (once, pack, message, ...) passes through inert.
}
