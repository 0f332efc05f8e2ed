package pattern

// ProblemTable lists the diagnostics for one file.
type ProblemTable struct {
	Label    string // file path
	HasError bool   // any error-severity problem present
	Problems []Problem
}

// Problem is one row of a problem table.
type Problem struct {
	Severity string // "error" or "warning"
	Code     string // optional rustc code, e.g. "E0308"
	Message  string
	Line     int // 0 = unknown
	Column   int // 0 = unknown
}

func (p *ProblemTable) Type() PatternType { return PatternTypeProblemTable }
