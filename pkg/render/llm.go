package render

import (
	"fmt"
	"strings"

	"github.com/gentoo90/rust-analyzer/pkg/pattern"
)

// LLM renders patterns as terse plain text optimized for AI consumption.
// Zero ANSI codes, one SCOPE line, file-grouped diagnostics.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns for LLM consumption.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var tables []*pattern.ProblemTable
	var comparisons []*pattern.Comparison
	var errs []*pattern.Error

	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.ProblemTable:
			tables = append(tables, v)
		case *pattern.Comparison:
			comparisons = append(comparisons, v)
		case *pattern.Error:
			errs = append(errs, v)
		}
	}

	var sb strings.Builder
	sb.WriteString("SCOPE: " + scope(tables) + "\n")

	for _, e := range errs {
		sb.WriteString("ERROR: " + e.Message + "\n")
	}

	// Tables arrive errors-first from the mapper; keep that order.
	for _, t := range tables {
		sb.WriteString("\n## " + t.Label + "\n")
		for _, p := range t.Problems {
			level := "WARN"
			if p.Severity == "error" {
				level = "ERR"
			}
			code := p.Code
			if code == "" {
				code = "-"
			}
			sb.WriteString(fmt.Sprintf("  %s %s %d:%d %s\n", level, code, p.Line, p.Column, p.Message))
		}
	}

	for _, c := range comparisons {
		sb.WriteString("\n## baseline drift\n")
		for _, item := range c.New {
			sb.WriteString("  NEW " + driftLine(item) + "\n")
		}
		for _, item := range c.Fixed {
			sb.WriteString("  FIXED " + driftLine(item) + "\n")
		}
	}

	return sb.String()
}

func driftLine(item pattern.ComparisonItem) string {
	if item.Code != "" {
		return item.Severity + " " + item.Code + " " + item.Location
	}
	return item.Severity + " " + item.Location
}

func scope(tables []*pattern.ProblemTable) string {
	var errCount, warnCount int
	for _, t := range tables {
		for _, p := range t.Problems {
			if p.Severity == "error" {
				errCount++
			} else {
				warnCount++
			}
		}
	}
	total := errCount + warnCount
	if total == 0 {
		return "clean, 0 diags"
	}

	parts := []string{fmt.Sprintf("%d files", len(tables)), fmt.Sprintf("%d diags", total)}
	var breakdown []string
	if errCount > 0 {
		breakdown = append(breakdown, fmt.Sprintf("%d err", errCount))
	}
	if warnCount > 0 {
		breakdown = append(breakdown, fmt.Sprintf("%d warn", warnCount))
	}
	parts = append(parts, "("+strings.Join(breakdown, ", ")+")")
	return strings.Join(parts, ", ")
}
