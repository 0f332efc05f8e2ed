package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gentoo90/rust-analyzer/pkg/pattern"
)

// Terminal renders patterns as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
	title cases.Caser
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width, title: cases.Title(language.English)}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.ProblemTable:
		return t.renderProblemTable(v)
	case *pattern.Comparison:
		return t.renderComparison(v)
	case *pattern.Error:
		return t.theme.Error.Render(t.theme.Icons.Error+" "+v.Message) + "\n"
	default:
		return ""
	}
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Label != "" {
		sb.WriteString(t.theme.Bold.Render(s.Label))
		sb.WriteString("\n")
	}
	for _, m := range s.Metrics {
		icon, style := t.iconStyle(m.Kind)
		sb.WriteString("  ")
		sb.WriteString(style.Render(icon + " " + m.Label + ": " + m.Value))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderProblemTable(tbl *pattern.ProblemTable) string {
	if len(tbl.Problems) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(t.theme.Primary.Render(tbl.Label))
	sb.WriteString("\n")

	maxLoc := 0
	for _, p := range tbl.Problems {
		if w := len(formatLocation(p)); w > maxLoc {
			maxLoc = w
		}
	}

	for _, p := range tbl.Problems {
		icon, style := t.severityIconStyle(p.Severity)
		sb.WriteString("  ")
		sb.WriteString(style.Render(icon + " "))
		sb.WriteString(t.theme.Muted.Render(padRight(formatLocation(p), maxLoc)))
		if p.Code != "" {
			sb.WriteString("  ")
			sb.WriteString(style.Render(p.Code))
		}
		sb.WriteString("  ")
		sb.WriteString(t.truncate(p.Message, maxLoc+8))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderComparison(c *pattern.Comparison) string {
	if len(c.New) == 0 && len(c.Fixed) == 0 {
		return ""
	}
	var sb strings.Builder
	if c.Label != "" {
		sb.WriteString(t.theme.Bold.Render(c.Label))
		sb.WriteString("\n")
	}

	writeGroup := func(header string, icon string, style lipgloss.Style, items []pattern.ComparisonItem) {
		if len(items) == 0 {
			return
		}
		sb.WriteString("  ")
		sb.WriteString(style.Render(fmt.Sprintf("%s %s (%d)", icon, t.title.String(header), len(items))))
		sb.WriteString("\n")
		for _, item := range items {
			sb.WriteString("    ")
			sb.WriteString(t.theme.Muted.Render(item.Severity))
			if item.Code != "" {
				sb.WriteString(" " + item.Code)
			}
			sb.WriteString(" " + item.Location)
			sb.WriteString("\n")
		}
	}

	writeGroup("new", t.theme.Icons.New, t.theme.Error, c.New)
	writeGroup("fixed", t.theme.Icons.Fixed, t.theme.Success, c.Fixed)
	return sb.String()
}

// formatLocation renders "line:col", with ? for unknown positions.
func formatLocation(p pattern.Problem) string {
	if p.Line == 0 {
		return "?:?"
	}
	if p.Column == 0 {
		return fmt.Sprintf("%d:?", p.Line)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// truncate shortens s to fit the renderer width given `used` columns already
// consumed, accounting for wide runes.
func (t *Terminal) truncate(s string, used int) string {
	avail := t.width - used
	if avail < 10 {
		avail = 10
	}
	return runewidth.Truncate(s, avail, "...")
}

func (t *Terminal) iconStyle(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return t.theme.Icons.Clean, t.theme.Success
	case "error":
		return t.theme.Icons.Error, t.theme.Error
	case "warning":
		return t.theme.Icons.Warning, t.theme.Warning
	default:
		return t.theme.Icons.Bullet, t.theme.Muted
	}
}

func (t *Terminal) severityIconStyle(severity string) (string, lipgloss.Style) {
	if severity == "error" {
		return t.theme.Icons.Error, t.theme.Error
	}
	return t.theme.Icons.Warning, t.theme.Warning
}

func padRight(s string, width int) string {
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
