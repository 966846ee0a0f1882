package cpp

import "github.com/ccore-lang/ccore/util/orderedmap"

// HashNodeKind classifies what a hash-table entry currently denotes, mirroring
// cpplib.h's NT_* node-type constants (original_source's cpphash.c HASHNODE).
type HashNodeKind int

const (
	NTUndefined HashNodeKind = iota
	NTObjectMacro
	NTFunctionMacro
	NTBuiltinMacro
	NTAssertion
	NTPoisoned
)

// HashNode is one entry of the preprocessor's identifier table: at most one
// of Macro/Builtin/Assertions is populated, selected by Kind. An identifier
// keeps its HashNode across #define/#undef cycles so assertion state,
// poisoning, and diagnostic history about the name survive redefinition
// (spec §3.2).
type HashNode struct {
	Name     string
	Kind     HashNodeKind
	Macro    *Definition
	Builtin  BuiltinKind
	Assertions []AssertionSet

	// Disabled is set while a buffer holding this macro's own expansion is
	// on the buffer stack, implementing the "painted blue" rule that stops
	// a macro from re-expanding inside its own replacement (spec §4.2.3).
	Disabled bool
}

// HashTable is the preprocessor's identifier table. Entries are kept in
// insertion order via orderedmap so that diagnostics which enumerate
// multiply-defined or poisoned names (spec's diagnostics section) are
// reproducible across runs, the same determinism concern the teacher's
// util/orderedmap was built to serve.
type HashTable struct {
	nodes *orderedmap.OrderedMap[string, *HashNode]
}

// NewHashTable returns an empty identifier table.
func NewHashTable() *HashTable {
	return &HashTable{nodes: orderedmap.New[string, *HashNode]()}
}

// Lookup returns the node for name, creating an NTUndefined node on first
// reference (cpplib.c's cpp_lookup never returns nil either).
func (t *HashTable) Lookup(name string) *HashNode {
	if n, ok := t.nodes.Load(name); ok {
		return n
	}
	n := &HashNode{Name: name, Kind: NTUndefined}
	t.nodes.Store(name, n)
	return n
}

// LookupExisting returns the node for name without creating one.
func (t *HashTable) LookupExisting(name string) (*HashNode, bool) {
	return t.nodes.Load(name)
}

// All returns every known identifier in insertion order.
func (t *HashTable) All() []*HashNode {
	out := make([]*HashNode, 0, t.nodes.Len())
	for _, p := range t.nodes.Pairs {
		out = append(out, p.Value)
	}
	return out
}

// BuiltinKind selects which computed-on-expansion builtin macro a hash node
// denotes (spec §4.2.4).
type BuiltinKind int

const (
	BuiltinNone BuiltinKind = iota
	BuiltinFile
	BuiltinLine
	BuiltinDate
	BuiltinTime
	BuiltinBaseFile
	BuiltinIncludeLevel
	BuiltinSTDC
	BuiltinCounter
)
