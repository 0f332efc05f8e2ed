// Package mapper converts parsed diagnostics into visualization patterns.
package mapper

import (
	"fmt"

	"github.com/gentoo90/rust-analyzer/pkg/baseline"
	"github.com/gentoo90/rust-analyzer/pkg/diagnostic"
	"github.com/gentoo90/rust-analyzer/pkg/pattern"
)

// FromDiagnostics converts a run's diagnostics into patterns.
// Returns: Summary + one ProblemTable per file (files with errors first) +
// a Comparison when baseline drift is supplied.
func FromDiagnostics(diags []diagnostic.Diagnostic, diff *baseline.Diff) []pattern.Pattern {
	var patterns []pattern.Pattern
	patterns = append(patterns, summary(diags))

	groups, order := diagnostic.GroupByFile(diags)
	for _, file := range order {
		patterns = append(patterns, problemTable(file, groups[file]))
	}

	if diff != nil && !diff.Empty() {
		patterns = append(patterns, comparison(*diff))
	}
	return patterns
}

func summary(diags []diagnostic.Diagnostic) *pattern.Summary {
	stats := diagnostic.ComputeStats(diags)
	s := &pattern.Summary{Label: "Build Problems"}

	if stats.Errors == 0 && stats.Warnings == 0 {
		s.Metrics = append(s.Metrics, pattern.SummaryItem{
			Label: "Clean", Value: "no problems", Kind: "success",
		})
		return s
	}

	s.Metrics = append(s.Metrics,
		pattern.SummaryItem{Label: "Errors", Value: fmt.Sprintf("%d", stats.Errors), Kind: kindForCount(stats.Errors, "error")},
		pattern.SummaryItem{Label: "Warnings", Value: fmt.Sprintf("%d", stats.Warnings), Kind: kindForCount(stats.Warnings, "warning")},
		pattern.SummaryItem{Label: "Files", Value: fmt.Sprintf("%d", stats.Files), Kind: "info"},
	)
	return s
}

func kindForCount(n int, kind string) string {
	if n == 0 {
		return "success"
	}
	return kind
}

func problemTable(file string, diags []diagnostic.Diagnostic) *pattern.ProblemTable {
	tbl := &pattern.ProblemTable{Label: file}
	for _, d := range diags {
		if d.Severity == diagnostic.SevError {
			tbl.HasError = true
		}
		tbl.Problems = append(tbl.Problems, pattern.Problem{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			Line:     d.Line,
			Column:   d.Column,
		})
	}
	return tbl
}

func comparison(diff baseline.Diff) *pattern.Comparison {
	c := &pattern.Comparison{Label: "Since Baseline"}
	for _, d := range diff.New {
		c.New = append(c.New, comparisonItem(d))
	}
	for _, d := range diff.Fixed {
		c.Fixed = append(c.Fixed, comparisonItem(d))
	}
	return c
}

func comparisonItem(d diagnostic.Diagnostic) pattern.ComparisonItem {
	return pattern.ComparisonItem{
		Severity: d.Severity.String(),
		Code:     d.Code,
		Location: fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column),
	}
}

// ExitCode derives the process exit code from mapped patterns.
// Error-severity problems and processing errors exit 1; warnings alone are 0.
func ExitCode(patterns []pattern.Pattern) int {
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.ProblemTable:
			if v.HasError {
				return 1
			}
		case *pattern.Error:
			return 1
		}
	}
	return 0
}
