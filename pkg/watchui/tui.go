// Package watchui provides the interactive dashboard for watch mode.
// It consumes matcher events and keeps the current cycle's problems in a
// scrollable viewport while a spinner tracks the build in flight.
package watchui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gentoo90/rust-analyzer/pkg/diagnostic"
	"github.com/gentoo90/rust-analyzer/pkg/matcher"
	"github.com/gentoo90/rust-analyzer/pkg/render"
)

// Run launches the dashboard and blocks until the event channel closes or
// the user quits. Returns the exit code derived from the last cycle.
func Run(ctx context.Context, events <-chan matcher.Event, theme render.Theme) (int, error) {
	program := tea.NewProgram(newModel(events, theme), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return 1, err
	}
	return finalModel.(model).exitCode(), nil
}

type model struct {
	events <-chan matcher.Event
	theme  render.Theme

	spinner  spinner.Model
	viewport viewport.Model
	ready    bool
	done     bool

	running  bool
	cycle    int
	diags    []diagnostic.Diagnostic
	errors   int
	warnings int

	lastErrors int

	width  int
	height int
}

func newModel(events <-chan matcher.Event, theme render.Theme) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Primary

	vp := viewport.New(0, 0)
	vp.SetContent("Waiting for the first build cycle...")

	return model{events: events, theme: theme, spinner: sp, viewport: vp}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.listenEvents(), m.spinner.Tick)
}

type eventMsg matcher.Event
type closedMsg struct{}

func (m model) listenEvents() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 3 // header + footer chrome
		m.ready = true

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		m.apply(matcher.Event(msg))
		return m, m.listenEvents()

	case closedMsg:
		m.done = true
		if m.running {
			m.lastErrors = m.errors
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) apply(ev matcher.Event) {
	switch ev.Kind {
	case matcher.EventBegin:
		m.running = true
		m.cycle++
		m.diags = nil
		m.errors, m.warnings = 0, 0
	case matcher.EventDiagnostic:
		m.diags = append(m.diags, ev.Diagnostic)
		if ev.Diagnostic.Severity == diagnostic.SevError {
			m.errors++
		} else {
			m.warnings++
		}
	case matcher.EventEnd:
		m.running = false
		m.lastErrors = m.errors
	}
	m.viewport.SetContent(m.problemList())
	if ev.Kind == matcher.EventDiagnostic {
		m.viewport.GotoBottom()
	}
}

func (m model) problemList() string {
	if len(m.diags) == 0 {
		if m.running {
			return "Building..."
		}
		return m.theme.Success.Render(m.theme.Icons.Clean + " no problems")
	}

	var sb strings.Builder
	groups, order := diagnostic.GroupByFile(m.diags)
	for _, file := range order {
		sb.WriteString(m.theme.Primary.Render(file))
		sb.WriteString("\n")
		for _, d := range groups[file] {
			style := m.theme.Warning
			icon := m.theme.Icons.Warning
			if d.Severity == diagnostic.SevError {
				style = m.theme.Error
				icon = m.theme.Icons.Error
			}
			loc := fmt.Sprintf("%d:%d", d.Line, d.Column)
			sb.WriteString("  ")
			sb.WriteString(style.Render(icon + " " + loc))
			if d.Code != "" {
				sb.WriteString(style.Render(" [" + d.Code + "]"))
			}
			sb.WriteString(" " + d.Message)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m model) headerView() string {
	status := m.theme.Muted.Render("idle")
	if m.running {
		status = m.spinner.View() + m.theme.Primary.Render("building")
	}
	tally := fmt.Sprintf("cycle %d  %d err, %d warn", m.cycle, m.errors, m.warnings)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.Bold.Render("rustdiag watch"),
		"  ", status, "  ", m.theme.Muted.Render(tally),
	)
}

func (m model) footerView() string {
	return m.theme.Muted.Render("q quit · arrows scroll")
}

func (m model) View() string {
	if !m.ready {
		return "starting..."
	}
	return m.headerView() + "\n" + m.viewport.View() + "\n" + m.footerView()
}

func (m model) exitCode() int {
	if m.lastErrors > 0 {
		return 1
	}
	return 0
}
