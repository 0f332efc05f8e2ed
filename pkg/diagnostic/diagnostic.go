// Package diagnostic defines the structured compiler message records that
// every parser in rustdiag produces. Diagnostics are pure data — parsers
// fill them, mappers and renderers decide presentation.
package diagnostic

import "fmt"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevWarning covers rustc "warning" and the legacy "warn" spelling.
	SevWarning Severity = iota
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity maps a rustc severity word to a Severity.
// "warn" normalizes to SevWarning so downstream code sees a closed enum.
func ParseSeverity(word string) (Severity, bool) {
	switch word {
	case "error":
		return SevError, true
	case "warning", "warn":
		return SevWarning, true
	}
	return 0, false
}

// Diagnostic is one structured compiler message with its source location.
// Line and Column are 1-based; 0 means the compiler did not report one.
type Diagnostic struct {
	Severity Severity
	Code     string // e.g. "E0308", empty when the compiler gave none
	Message  string
	File     string // workspace-relative unless the compiler emitted absolute
	Line     int
	Column   int
}

// Key returns a stable identity for dedup and baseline comparison.
// Message is excluded: rustc rewords messages between versions while the
// code/location pair stays put.
func (d Diagnostic) Key() string {
	return fmt.Sprintf("%s\x00%s\x00%s\x00%d\x00%d", d.Severity, d.Code, d.File, d.Line, d.Column)
}

func (d Diagnostic) String() string {
	loc := d.File
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
	}
	if d.Code != "" {
		return fmt.Sprintf("%s[%s]: %s (%s)", d.Severity, d.Code, d.Message, loc)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, loc)
}
