package pattern

// Summary represents high-level counts for one run (or one watch cycle).
type Summary struct {
	Label   string
	Metrics []SummaryItem
}

// SummaryItem is a single metric in a summary.
type SummaryItem struct {
	Label string // e.g. "Errors", "Warnings", "Files"
	Value string // formatted value
	Kind  string // "success", "error", "warning", "info" — affects coloring
}

func (s *Summary) Type() PatternType { return PatternTypeSummary }
