package diagnostic_test

import (
	"testing"

	"github.com/ccore-lang/ccore/diagnostic"
	"github.com/ccore-lang/ccore/ir"
	"github.com/stretchr/testify/assert"
)

func TestCollectorSortsByPosition(t *testing.T) {
	c := diagnostic.NewCollector(false)
	c.Report(diagnostic.Diagnostic{Severity: diagnostic.Error, Message: "b", Pos: ir.Location{File: "b.c", Line: 1}})
	c.Report(diagnostic.Diagnostic{Severity: diagnostic.Error, Message: "a2", Pos: ir.Location{File: "a.c", Line: 5}})
	c.Report(diagnostic.Diagnostic{Severity: diagnostic.Error, Message: "a1", Pos: ir.Location{File: "a.c", Line: 1}})

	got := c.Diagnostics()
	assert.Equal(t, []string{"a1", "a2", "b"}, []string{got[0].Message, got[1].Message, got[2].Message})
}

func TestCollectorPedanticUpgradesWarningToError(t *testing.T) {
	c := diagnostic.NewCollector(true)
	c.Report(diagnostic.Diagnostic{Severity: diagnostic.Warning, Message: "w"})
	assert.True(t, c.HasErrors())
	assert.Equal(t, diagnostic.Error, c.Diagnostics()[0].Severity)
}

func TestCollectorErrorCountExcludesWarnings(t *testing.T) {
	c := diagnostic.NewCollector(false)
	c.Report(diagnostic.Diagnostic{Severity: diagnostic.Warning, Message: "w"})
	assert.False(t, c.HasErrors())
	c.Report(diagnostic.Diagnostic{Severity: diagnostic.Error, Message: "e"})
	assert.Equal(t, 1, c.ErrorCount())
}
