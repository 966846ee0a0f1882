package diagnostic

import (
	"sort"
)

// Collector is the default Sink: it accumulates diagnostics in memory and
// sorts them for stable reporting, the way the teacher's Engine accumulates
// conflicts and sorts them by file/offset before emitting analysis.Diagnostic
// values (diagnostic/engine.go's Diagnostics method).
type Collector struct {
	diagnostics []Diagnostic
	errorCount  int
	pedanticErr bool // -pedantic-errors: upgrade Warning to Error (spec §7)
}

// NewCollector returns an empty Collector. pedanticAsError mirrors the
// "pedantic warnings can be upgraded to errors via a flag" behavior in spec
// §7.
func NewCollector(pedanticAsError bool) *Collector {
	return &Collector{pedanticErr: pedanticAsError}
}

// Report implements Sink.
func (c *Collector) Report(d Diagnostic) {
	if c.pedanticErr && d.Severity == Warning {
		d.Severity = Error
	}
	if d.Severity == Error || d.Severity == ICE {
		c.errorCount++
	}
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns every collected diagnostic, sorted by file then line
// then column so that output order is deterministic regardless of the order
// in which engines happened to report.
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Pos, out[j].Pos
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

// ErrorCount returns the number of Error+ICE diagnostics reported so far —
// this is what the driver's exit status is derived from (spec §6: "Exit
// status: 0 if no errors; nonzero if any error was emitted").
func (c *Collector) ErrorCount() int { return c.errorCount }

// HasErrors reports whether any Error or ICE diagnostic was collected.
func (c *Collector) HasErrors() bool { return c.errorCount > 0 }
