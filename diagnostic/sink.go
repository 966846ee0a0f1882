// Package diagnostic implements the core's error sink (spec §6, §7): three
// severities, file:line[:col]-prefixed messages, and an optional secondary
// "declared here" location. Modeled on the teacher's diagnostic package
// (Engine/conflict/nilFlow), adapted from "collects nilability conflicts
// keyed by go/token.Pos" to "collects the ice/error/warning diagnostics any
// of the three engines emit keyed by ir.Location", since this core's
// collaborator is a C-family front end rather than go/token.
package diagnostic

import (
	"fmt"

	"github.com/ccore-lang/ccore/ir"
)

// Severity is one of the three error kinds spec §6/§7 define.
type Severity int

const (
	// Warning is diagnostic-only: it never affects exit status unless
	// pedantic-as-error has been requested by the driver.
	Warning Severity = iota
	// Error is a user source error: it is recoverable at the directive/
	// statement boundary that raised it, but forces a nonzero exit status.
	Error
	// ICE ("internal compiler error") signals an invariant violation or
	// unreachable operator — spec §7's internal error kind, which always
	// aborts the compilation unit.
	ICE
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case ICE:
		return "internal compiler error"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported message. Secondary, when non-nil, is the
// "declared here"-style follow-up location spec §6 requires the error sink
// to support.
type Diagnostic struct {
	Severity  Severity
	Message   string
	Pos       ir.Location
	Secondary *ir.Location
}

// String renders the diagnostic the way every engine's error sink call site
// expects it to appear on a console: "file:line[:col]: severity: message",
// with the secondary location appended as a second line when present.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
	if d.Secondary != nil {
		s += fmt.Sprintf("\n%s: note: declared here", *d.Secondary)
	}
	return s
}

// Sink is the error-sink collaborator contract from spec §6: every engine
// entry point takes one (embedded in a Context, see the root ccore package)
// and reports through it instead of returning errors inline, since a single
// bad directive or expression must not abort the rest of the translation
// unit.
type Sink interface {
	Report(d Diagnostic)
}

// ReportICE is a convenience used by every engine's "unreachable operator"
// branch (spec §4.1.5's "unrecognized operator codes are an implementation
// bug"): it reports at ICE severity and returns so the caller can unwind
// without a Go panic reaching the driver.
func ReportICE(s Sink, pos ir.Location, format string, args ...interface{}) {
	s.Report(Diagnostic{Severity: ICE, Message: fmt.Sprintf(format, args...), Pos: pos})
}

// ReportError reports a recoverable user-source error (spec §7: the
// directive or expression is abandoned, but the rest of the unit proceeds).
func ReportError(s Sink, pos ir.Location, format string, args ...interface{}) {
	s.Report(Diagnostic{Severity: Error, Message: fmt.Sprintf(format, args...), Pos: pos})
}

// ReportWarning reports a diagnostic-only message.
func ReportWarning(s Sink, pos ir.Location, format string, args ...interface{}) {
	s.Report(Diagnostic{Severity: Warning, Message: fmt.Sprintf(format, args...), Pos: pos})
}
