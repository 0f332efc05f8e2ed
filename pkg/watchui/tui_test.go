package watchui

import (
	"strings"
	"testing"

	"github.com/gentoo90/rust-analyzer/pkg/diagnostic"
	"github.com/gentoo90/rust-analyzer/pkg/matcher"
	"github.com/gentoo90/rust-analyzer/pkg/render"
)

func testModel() model {
	return newModel(make(chan matcher.Event), render.MonoTheme())
}

func TestApply_TracksCycleLifecycle(t *testing.T) {
	m := testModel()

	m.apply(matcher.Event{Kind: matcher.EventBegin})
	if !m.running || m.cycle != 1 {
		t.Fatalf("expected running cycle 1, got running=%v cycle=%d", m.running, m.cycle)
	}

	m.apply(matcher.Event{Kind: matcher.EventDiagnostic, Diagnostic: diagnostic.Diagnostic{
		Severity: diagnostic.SevError, Code: "E0308", Message: "mismatched types",
		File: "src/main.rs", Line: 10, Column: 5,
	}})
	if m.errors != 1 {
		t.Errorf("expected 1 error, got %d", m.errors)
	}

	m.apply(matcher.Event{Kind: matcher.EventEnd})
	if m.running {
		t.Error("expected idle after end event")
	}
	if m.exitCode() != 1 {
		t.Errorf("expected exit 1, got %d", m.exitCode())
	}
}

func TestApply_NewCycleResetsProblems(t *testing.T) {
	m := testModel()

	m.apply(matcher.Event{Kind: matcher.EventBegin})
	m.apply(matcher.Event{Kind: matcher.EventDiagnostic, Diagnostic: diagnostic.Diagnostic{
		Severity: diagnostic.SevError, File: "src/main.rs", Line: 1, Column: 1,
	}})
	m.apply(matcher.Event{Kind: matcher.EventEnd})

	m.apply(matcher.Event{Kind: matcher.EventBegin})
	m.apply(matcher.Event{Kind: matcher.EventEnd})

	if len(m.diags) != 0 {
		t.Errorf("expected problems cleared on new cycle, got %d", len(m.diags))
	}
	if m.exitCode() != 0 {
		t.Errorf("expected exit 0 after clean cycle, got %d", m.exitCode())
	}
}

func TestApply_RestartWithoutEndResetsProblems(t *testing.T) {
	m := testModel()

	m.apply(matcher.Event{Kind: matcher.EventBegin})
	m.apply(matcher.Event{Kind: matcher.EventDiagnostic, Diagnostic: diagnostic.Diagnostic{
		Severity: diagnostic.SevError, File: "src/main.rs", Line: 1, Column: 1,
	}})

	m.apply(matcher.Event{Kind: matcher.EventBegin})
	if len(m.diags) != 0 || m.errors != 0 {
		t.Errorf("expected tallies cleared on restart, got %d diags %d errors", len(m.diags), m.errors)
	}
	if m.cycle != 2 {
		t.Errorf("expected cycle 2 after restart, got %d", m.cycle)
	}

	m.apply(matcher.Event{Kind: matcher.EventEnd})
	if m.exitCode() != 0 {
		t.Errorf("expected exit 0 after clean restarted cycle, got %d", m.exitCode())
	}
}

func TestProblemList_GroupsByFile(t *testing.T) {
	m := testModel()
	m.apply(matcher.Event{Kind: matcher.EventBegin})
	m.apply(matcher.Event{Kind: matcher.EventDiagnostic, Diagnostic: diagnostic.Diagnostic{
		Severity: diagnostic.SevWarning, Message: "unused variable", File: "src/lib.rs", Line: 3, Column: 1,
	}})
	m.apply(matcher.Event{Kind: matcher.EventDiagnostic, Diagnostic: diagnostic.Diagnostic{
		Severity: diagnostic.SevError, Code: "E0308", Message: "mismatched types", File: "src/main.rs", Line: 10, Column: 5,
	}})

	out := m.problemList()
	mainIdx := strings.Index(out, "src/main.rs")
	libIdx := strings.Index(out, "src/lib.rs")
	if mainIdx < 0 || libIdx < 0 {
		t.Fatalf("expected both files listed, got:\n%s", out)
	}
	if mainIdx > libIdx {
		t.Error("expected file with errors listed first")
	}
	if !strings.Contains(out, "[E0308]") {
		t.Errorf("expected code rendered, got:\n%s", out)
	}
}

func TestProblemList_CleanStates(t *testing.T) {
	m := testModel()
	if got := m.problemList(); !strings.Contains(got, "no problems") {
		t.Errorf("expected idle clean message, got %q", got)
	}
	m.apply(matcher.Event{Kind: matcher.EventBegin})
	if got := m.problemList(); !strings.Contains(got, "Building") {
		t.Errorf("expected building message, got %q", got)
	}
}
