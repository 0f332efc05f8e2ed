// Package pattern defines the semantic data types for rustdiag's output.
// Patterns are pure data — renderers decide presentation.
package pattern

// PatternType identifies the kind of visualization pattern.
type PatternType string

const (
	PatternTypeSummary      PatternType = "summary"
	PatternTypeProblemTable PatternType = "problem-table"
	PatternTypeComparison   PatternType = "comparison"
	PatternTypeError        PatternType = "error"
)

// Pattern is the interface all visualization patterns implement.
// Patterns hold data; renderers decide how to present it.
type Pattern interface {
	Type() PatternType
}

// Error represents a processing failure surfaced to the user
// (e.g. unreadable input). Distinct from compiler diagnostics.
type Error struct {
	Message string
}

func (e *Error) Type() PatternType { return PatternTypeError }
