package cpp

// digraphs maps each C99 digraph spelling to its primary punctuator
// spelling. The tokenizer re-spells a digraph the moment it is recognized,
// before the token reaches the directive dispatcher or macro substitution,
// so `%:define` is indistinguishable from `#define` everywhere downstream —
// matching cpplib.c's buffer-level digraph handling (SPEC_FULL §"cpp").
var digraphs = map[string]string{
	"<:":   "[",
	":>":   "]",
	"<%":   "{",
	"%>":   "}",
	"%:":   "#",
	"%:%:": "##",
}

// respellDigraph returns the primary spelling for text if it is a digraph,
// and the original text (with ok=false) otherwise.
func respellDigraph(text string) (string, bool) {
	s, ok := digraphs[text]
	return s, ok
}
