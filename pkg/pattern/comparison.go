package pattern

// Comparison reports drift against a saved baseline run.
type Comparison struct {
	Label string
	New   []ComparisonItem // present now, absent in baseline
	Fixed []ComparisonItem // present in baseline, absent now
}

// ComparisonItem identifies one drifted diagnostic.
type ComparisonItem struct {
	Severity string
	Code     string
	Location string // "file:line:col"
}

func (c *Comparison) Type() PatternType { return PatternTypeComparison }
