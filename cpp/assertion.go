package cpp

// AssertionSet is one `#assert predicate(answer)` registration. A predicate
// may carry several distinct answers simultaneously; `#unassert` without an
// answer clears all of them (spec §4.2.6, grounded on cpplib.c's
// do_assert/do_unassert and ASSERTION_HASHNODE's answer list).
type AssertionSet struct {
	Predicate string
	Answer    []Token // the parenthesized token list, empty for a bare predicate
}

func sameAnswer(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Text != b[i].Text {
			return false
		}
	}
	return true
}

// Assert registers predicate(answer) against node, ignoring a duplicate
// registration.
func (n *HashNode) Assert(answer []Token) {
	n.Kind = NTAssertion
	for _, a := range n.Assertions {
		if sameAnswer(a.Answer, answer) {
			return
		}
	}
	n.Assertions = append(n.Assertions, AssertionSet{Predicate: n.Name, Answer: answer})
}

// Unassert removes a specific answer (or, if answer is nil, every answer)
// registered against node. It reports whether anything was removed.
func (n *HashNode) Unassert(answer []Token) bool {
	if len(n.Assertions) == 0 {
		return false
	}
	if answer == nil {
		n.Assertions = nil
		n.Kind = NTUndefined
		return true
	}
	removed := false
	kept := n.Assertions[:0]
	for _, a := range n.Assertions {
		if sameAnswer(a.Answer, answer) {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	n.Assertions = kept
	if len(n.Assertions) == 0 {
		n.Kind = NTUndefined
	}
	return removed
}

// Asserted reports whether predicate has any registered answer (bare
// `#if #predicate`), or specifically answer when non-nil (`#if
// #predicate(answer)`).
func (n *HashNode) Asserted(answer []Token) bool {
	if len(n.Assertions) == 0 {
		return false
	}
	if answer == nil {
		return true
	}
	for _, a := range n.Assertions {
		if sameAnswer(a.Answer, answer) {
			return true
		}
	}
	return false
}
