package cpp

import "fmt"

// ArgUse annotates one argument-substitution site inside a macro body: which
// formal parameter it refers to, and whether it sits next to `#` (stringify)
// or `##` (paste) so the expander knows to substitute the raw argument
// spelling instead of the pre-expanded one (spec §4.2.3, grounded on
// cpplib.c's REF_STRINGIFY/REF_PASTE_LEFT/REF_PASTE_RIGHT reflist flags).
type ArgUse struct {
	Param int // index into Definition.Params

	Stringify    bool
	RawLeft      bool // token immediately left of this use is `##`
	RawRight     bool // token immediately right of this use is `##`
}

// BodyElem is one element of a macro's compact replacement body: either a
// literal token carried over verbatim, or a reference to an actual argument.
type BodyElem struct {
	Lit    Token
	IsArg  bool
	Arg    ArgUse
	IsHashHash bool // literal `##` glue between two neighboring elements
}

// Definition is a macro's replacement list plus enough shape information to
// parse an invocation's actual arguments (spec §3.2 "Macro definitions").
type Definition struct {
	Name          string
	IsFunctionLike bool
	Params        []string
	HasRestArgs   bool // trailing `...` (variadic macro, C99/GNU extension)
	Body          []BodyElem
	Loc           Token
}

// collectExpansion parses a macro's raw replacement-list tokens (the tokens
// after the parameter list, or after the name for an object-like macro) into
// a Definition's compact Body, resolving `#` stringify and `##` paste
// markers against the parameter names. Grounded on cpplib.c's
// collect_expansion / create_definition.
func collectExpansion(params []string, hasRest bool, raw []Token) ([]BodyElem, error) {
	paramIndex := func(name string) (int, bool) {
		for i, p := range params {
			if p == name {
				return i, true
			}
		}
		if hasRest && name == "__VA_ARGS__" {
			return len(params), true
		}
		return 0, false
	}

	var body []BodyElem
	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		switch {
		case tok.Kind == TokPunct && tok.Text == "##":
			if len(body) == 0 {
				return nil, fmt.Errorf("'##' cannot appear at the start of a macro expansion")
			}
			if i+1 >= len(raw) || raw[i+1].Kind == TokNewline || raw[i+1].Kind == TokEOF {
				return nil, fmt.Errorf("'##' cannot appear at the end of a macro expansion")
			}
			markRight(&body[len(body)-1])
			body = append(body, BodyElem{IsHashHash: true, Lit: tok})
			continue

		case tok.Kind == TokHash && i+1 < len(raw) && raw[i+1].Kind == TokName:
			name := raw[i+1].Text
			idx, ok := paramIndex(name)
			if !ok {
				return nil, fmt.Errorf("'#' is not followed by a macro parameter: %s", name)
			}
			body = append(body, BodyElem{IsArg: true, Arg: ArgUse{Param: idx, Stringify: true}})
			i++
			continue

		case tok.Kind == TokName:
			if idx, ok := paramIndex(tok.Text); ok {
				body = append(body, BodyElem{IsArg: true, Arg: ArgUse{Param: idx}})
				continue
			}
			body = append(body, BodyElem{Lit: tok})

		default:
			body = append(body, BodyElem{Lit: tok})
		}
	}

	// Resolve RawLeft on every argument element immediately right of a `##` marker
	// (already set eagerly above for args; literal-literal pastes need no
	// flag since concatenation of two verbatim tokens needs no argument
	// substitution decision).
	for i := 0; i < len(body); i++ {
		if body[i].IsHashHash && i+1 < len(body) && body[i+1].IsArg {
			body[i+1].Arg.RawLeft = true
		}
	}
	return body, nil
}

func markRight(e *BodyElem) {
	if e.IsArg {
		e.Arg.RawRight = true
	}
}
