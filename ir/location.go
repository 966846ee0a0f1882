package ir

import "fmt"

// Location is a source position carried by every Node. Once set on a node it
// is preserved across transformations except deliberate relocation
// (substrate invariant (b)); the simplifier and scev/pointsto passes copy it
// onto any replacement node they synthesize for that reason.
type Location struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the location carries real source information, as
// opposed to the zero value used for synthesized nodes before relocation.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}

func (l Location) String() string {
	if !l.IsValid() {
		return "<unknown>"
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}
