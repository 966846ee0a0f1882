package pointsto

import "github.com/ccore-lang/ccore/util/bitsetutil"

// CollapseCycles is find_and_collapse_graph_cycles: a Tarjan SCC pass over
// the zero-weight subgraph (only zero-weight copy edges denote "these two
// vars must end up with identical solutions", spec §4.4.5 — a weighted edge
// shifts the solution by a field offset on the way through, so a cycle
// through one can't be collapsed without losing that offset). Every
// multi-member component collapses to a single representative var, and
// every member's Node field is updated to point at it.
//
// Returns the number of components collapsed (for diagnostics/testing).
func CollapseCycles(vars *VarTable, g *Graph) int {
	t := &tarjan{
		vars:    vars,
		g:       g,
		index:   make(map[VarID]int),
		lowlink: make(map[VarID]int),
		onStack: make(map[VarID]bool),
	}
	for _, id := range g.NodeIDs() {
		if _, visited := t.index[id]; !visited {
			t.strongconnect(id)
		}
	}
	collapsed := 0
	for _, comp := range t.components {
		if len(comp) > 1 {
			mergeComponent(vars, comp)
			collapsed++
		}
	}
	return collapsed
}

type tarjan struct {
	vars *VarTable
	g    *Graph

	index, lowlink map[VarID]int
	onStack        map[VarID]bool
	stack          []VarID
	counter        int

	components [][]VarID
}

// zeroWeightSucc returns id's outgoing edges whose weight is exactly 0.
func (t *tarjan) zeroWeightSucc(id VarID) []VarID {
	var out []VarID
	for _, e := range t.g.Succ(id) {
		if e.weight == 0 {
			out = append(out, e.dst)
		}
	}
	return out
}

func (t *tarjan) strongconnect(v VarID) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.zeroWeightSucc(v) {
		if _, visited := t.index[w]; !visited {
			t.strongconnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var comp []VarID
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.components = append(t.components, comp)
	}
}

// mergeComponent is merge_graph_nodes applied to every member of comp: the
// lowest-id member becomes the representative, every other member's Node
// field is redirected to it, and the representative's Variables bitset
// records every original member (so a later solution lookup by any member
// id resolves through VarTable.Representative to one shared var-info).
func mergeComponent(vars *VarTable, comp []VarID) {
	rep := comp[0]
	for _, id := range comp[1:] {
		if id < rep {
			rep = id
		}
	}
	repInfo := vars.Get(rep)
	if repInfo == nil {
		return
	}
	if repInfo.Variables == nil {
		repInfo.Variables = bitsetutil.New(0)
	}
	repInfo.Variables.Add(uint(rep))
	for _, id := range comp {
		if id == rep {
			continue
		}
		vi := vars.Get(id)
		if vi == nil {
			continue
		}
		vi.Node = rep
		repInfo.Variables.Add(uint(id))
		repInfo.Complex = append(repInfo.Complex, vi.Complex...)
		repInfo.AddressTaken = repInfo.AddressTaken || vi.AddressTaken
		repInfo.IndirectTarget = repInfo.IndirectTarget || vi.IndirectTarget
		vi.Complex = nil
	}
}
