package matcher

import (
	"path/filepath"
	"strconv"

	"github.com/gentoo90/rust-analyzer/pkg/diagnostic"
)

// EventKind identifies what a fed line produced.
type EventKind int

const (
	// EventDiagnostic carries a completed diagnostic.
	EventDiagnostic EventKind = iota
	// EventBegin marks the start of a watch cycle.
	EventBegin
	// EventEnd marks the end of a watch cycle.
	EventEnd
)

// Event is one observation from the line state machine. At most one event
// is produced per input line.
type Event struct {
	Kind       EventKind
	Diagnostic diagnostic.Diagnostic // valid when Kind == EventDiagnostic
	Marker     string                // the marker line, for Begin/End
}

// Matcher is the two-stage line state machine. A header line opens a pending
// diagnostic; the immediately following line must be its location line or the
// pending header is discarded. Watch-mode defs additionally gate matching on
// begin/end cycle markers.
//
// Matchers are single-goroutine state machines; spawn one per stream.
type Matcher struct {
	def     Def
	root    string
	running bool
	pending *diagnostic.Diagnostic
}

// New creates a matcher for def. Relative file paths in location lines are
// joined to root; pass "" to keep them as emitted. The workspace root is an
// explicit parameter here — never ambient process state — so independent
// matcher instances can serve different workspaces.
func New(def Def, root string) *Matcher {
	return &Matcher{
		def:  def,
		root: root,
		// Defs without markers are always inside the window.
		running: !def.Background(),
	}
}

// Running reports whether matching is currently active. Always true for
// defs without background markers.
func (m *Matcher) Running() bool { return m.running }

// Feed advances the state machine by one line. Returns the event the line
// produced, if any. Lines matching neither pattern are silently skipped —
// malformed output is a non-match, never an error.
//
// A line between a matched header and its location line drops the pending
// header: rustc emits the location directly after the header, so anything
// else means the header belonged to prose this matcher does not understand.
func (m *Matcher) Feed(line string) (Event, bool) {
	if m.def.Background() {
		if m.def.Begins.MatchString(line) {
			// A begin marker while already running means the watcher killed
			// and restarted the cycle without emitting an end marker.
			m.running = true
			m.pending = nil
			return Event{Kind: EventBegin, Marker: line}, true
		}
		if !m.running {
			return Event{}, false
		}
		if m.def.Ends.MatchString(line) {
			m.running = false
			m.pending = nil
			return Event{Kind: EventEnd, Marker: line}, true
		}
	}

	if m.pending != nil {
		pending := m.pending
		m.pending = nil
		if loc := m.def.Location.FindStringSubmatch(line); loc != nil {
			pending.File = m.resolve(loc[1])
			pending.Line = atoiOrZero(loc[2])
			pending.Column = atoiOrZero(loc[3])
			return Event{Kind: EventDiagnostic, Diagnostic: *pending}, true
		}
		// fall through: the line may itself be a new header
	}

	if h := m.def.Header.FindStringSubmatch(line); h != nil {
		if sev, ok := diagnostic.ParseSeverity(h[1]); ok {
			m.pending = &diagnostic.Diagnostic{
				Severity: sev,
				Code:     h[2],
				Message:  h[3],
			}
		}
	}
	return Event{}, false
}

// Flush discards any pending header. Call at end of input; a header with no
// location line never becomes a diagnostic.
func (m *Matcher) Flush() {
	m.pending = nil
}

func (m *Matcher) resolve(file string) string {
	if m.root == "" || file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(m.root, file)
}

// atoiOrZero parses a digit group, treating empty as 0 (unknown position).
func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
