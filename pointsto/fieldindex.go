package pointsto

import "github.com/ccore-lang/ccore/ir"

// fieldKey identifies one field slot of one aggregate type by its byte
// offset, the shared table lookup_fieldnum_of_offset/insert_offset_for_fieldnum
// perform against a type's field-offset list.
type fieldKey struct {
	typ    *ir.Node
	offset int64
}

// FieldIndex maps a (type, byte-offset) pair to the field-index that
// NewAggregate assigned its var-info, so a component reference's offset can
// be translated into the right sibling var-info (spec §4.4.1:
// "get_constraint_for_component_ref uses the shared offset table to find
// which field-var an offset lands on").
//
// Offsets falling inside a field but not exactly matching its start are
// rounded down to that field, matching lookup_fieldnum_of_offset's
// "closest field at or before the offset" rule; a record with no
// registered fields, or an offset before every registered field, resolves to
// field 0 (the whole-object var-info), matching the original's fallback
// for opaque or artificial aggregates.
type FieldIndex struct {
	byType map[*ir.Node][]int64 // sorted ascending offsets registered for typ
	fields map[fieldKey]int     // exact (typ, offset) -> field index
}

// NewFieldIndex returns an empty field-offset table.
func NewFieldIndex() *FieldIndex {
	return &FieldIndex{
		byType: make(map[*ir.Node][]int64),
		fields: make(map[fieldKey]int),
	}
}

// Insert registers that typ's field at byte offset carries field-index idx
// (insert_offset_for_fieldnum), called once per field while an aggregate's
// var-infos are created.
func (fi *FieldIndex) Insert(typ *ir.Node, offset int64, idx int) {
	key := fieldKey{typ, offset}
	if _, exists := fi.fields[key]; exists {
		return
	}
	fi.fields[key] = idx
	offs := fi.byType[typ]
	i := 0
	for i < len(offs) && offs[i] < offset {
		i++
	}
	if i < len(offs) && offs[i] == offset {
		return
	}
	offs = append(offs, 0)
	copy(offs[i+1:], offs[i:])
	offs[i] = offset
	fi.byType[typ] = offs
}

// Lookup is lookup_fieldnum_of_offset: the field index of typ's field
// covering byte offset offset, or 0 (the head/whole-object field) if typ
// has no registered fields or offset precedes every registered field.
func (fi *FieldIndex) Lookup(typ *ir.Node, offset int64) int {
	offs := fi.byType[typ]
	if len(offs) == 0 {
		return 0
	}
	best := offs[0]
	found := false
	for _, o := range offs {
		if o <= offset {
			best = o
			found = true
		} else {
			break
		}
	}
	if !found {
		return 0
	}
	return fi.fields[fieldKey{typ, best}]
}
