package diagnostic

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// This file replaces the teacher's nilaway.go:prettyPrintErrorMessage, which
// builds ANSI escapes by hand via regexp.ReplaceAllString and carries its
// own TODO asking for exactly this kind of cleanup ("below string parsing
// should not be required after ... is implemented"). github.com/fatih/color
// — already a dependency of the kanso-lang-kanso compiler in the reference
// pack for its own diagnostic output — does the same substitution with a
// real color-capability-aware formatter instead of raw escape codes.

var (
	codeReferencePattern = regexp.MustCompile("`(.*?)`")
	pathPattern          = regexp.MustCompile(`"(.*?)"`)
	severityPattern      = regexp.MustCompile(`(?i)^(error|warning|internal compiler error):`)
)

var (
	codeColor     = color.New(color.FgMagenta)
	pathColor     = color.New(color.FgCyan)
	errorColor    = color.New(color.FgRed, color.Bold)
	warnColor     = color.New(color.FgYellow, color.Bold)
	internalColor = color.New(color.FgRed, color.Bold, color.Underline)
)

// PrettyPrint renders a diagnostic's string form with ANSI coloring:
// backtick-quoted code references in magenta, double-quoted paths in cyan,
// and the severity word after the position colored by severity — the same
// three substitutions the teacher's regex-based prettyPrintErrorMessage
// performs, re-expressed with a real coloring library.
func PrettyPrint(d Diagnostic) string {
	msg := d.String()
	prefix := fmt.Sprintf("%s: ", d.Pos)
	if rest := strings.TrimPrefix(msg, prefix); rest != msg && severityPattern.MatchString(rest) {
		sev := d.Severity.String()
		msg = prefix + colorForSeverity(d.Severity).Sprint(sev) + rest[len(sev):]
	}
	msg = codeReferencePattern.ReplaceAllStringFunc(msg, func(s string) string {
		return codeColor.Sprint(s)
	})
	msg = pathPattern.ReplaceAllStringFunc(msg, func(s string) string {
		return pathColor.Sprint(s)
	})
	return msg
}

// colorForSeverity picks the color used for a diagnostic's leading severity
// word; PrettyPrint uses it to color just that token rather than the whole
// message.
func colorForSeverity(s Severity) *color.Color {
	switch s {
	case Error:
		return errorColor
	case ICE:
		return internalColor
	default:
		return warnColor
	}
}
