package pointsto

// OfflineSubstitute is perform_rountev_chandra: a cheap pre-solving pass
// that unifies vars known to be pointer-equivalent before the worklist
// solver ever runs, shrinking the node count the expensive online fixed
// point has to iterate over (spec §4.4.5).
//
// This implements the single-source-variable rule of the full
// Rountev-Chandra offline analysis (a var with exactly one zero-weight
// incoming copy edge, no complex constraints, and no address taken must
// have the same solution as its source and can be substituted directly)
// rather than the complete HVN-style ref-graph construction the original
// builds from complex constraints too — the narrower rule is sound (every
// substitution it performs is always valid) but finds fewer equivalences,
// trading completeness for staying within this package's scope.
//
// Returns the number of vars substituted.
func OfflineSubstitute(vars *VarTable, g *Graph) int {
	total := 0
	for {
		n := substitutePass(vars, g)
		if n == 0 {
			return total
		}
		total += n
	}
}

func substitutePass(vars *VarTable, g *Graph) int {
	n := 0
	for _, vi := range vars.All() {
		if vi.Node != vi.ID {
			continue // already substituted into another var
		}
		if vi.Artificial || vi.AddressTaken || vi.IndirectTarget || len(vi.Complex) > 0 {
			continue
		}
		preds := g.Pred(vi.ID)
		var only *VarID
		for _, e := range preds {
			if e.weight != 0 {
				only = nil
				break
			}
			if only != nil && *only != e.dst {
				only = nil
				break
			}
			src := e.dst
			only = &src
		}
		if only == nil || *only == vi.ID {
			continue
		}
		vi.Node = *only
		n++
	}
	return n
}
