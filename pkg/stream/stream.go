package stream

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gentoo90/rust-analyzer/pkg/diagnostic"
	"github.com/gentoo90/rust-analyzer/pkg/matcher"
)

// LineKind identifies the type of output line for styling.
type LineKind int

const (
	KindError LineKind = iota
	KindWarning
	KindCycleStart
	KindCycleEnd
	KindSeparator
)

// StyleFunc formats a line with colors/symbols.
// If nil, no styling is applied.
type StyleFunc func(kind LineKind, text string) string

// streamer is the display state machine for watch-mode output. Each watch
// cycle prints its diagnostics into the scrolling history as they complete;
// the footer tracks the cycle in flight.
type streamer struct {
	tw    *termWriter
	style StyleFunc
	now   func() time.Time

	running    bool
	cycle      int
	cycleStart time.Time
	errors     int
	warnings   int

	// tallies of the last finished cycle, for the exit code
	lastErrors   int
	lastFinished bool
}

func newStreamer(tw *termWriter, style StyleFunc) *streamer {
	return &streamer{tw: tw, style: style, now: time.Now}
}

// styleLine applies the style function if set, otherwise returns text unchanged.
func (s *streamer) styleLine(kind LineKind, text string) string {
	if s.style != nil {
		return s.style(kind, text)
	}
	return text
}

// handleEvent processes one matcher event.
func (s *streamer) handleEvent(ev matcher.Event) {
	switch ev.Kind {
	case matcher.EventBegin:
		s.handleBegin()
	case matcher.EventDiagnostic:
		s.handleDiagnostic(ev.Diagnostic)
	case matcher.EventEnd:
		s.handleEnd()
	}
}

func (s *streamer) handleBegin() {
	s.tw.EraseFooter()
	s.running = true
	s.cycle++
	s.cycleStart = s.now()
	s.errors, s.warnings = 0, 0
	s.tw.PrintLine(s.styleLine(KindCycleStart, fmt.Sprintf("── cycle %d ──", s.cycle)))
	s.redrawFooter()
}

func (s *streamer) handleDiagnostic(d diagnostic.Diagnostic) {
	s.tw.EraseFooter()
	kind := KindWarning
	if d.Severity == diagnostic.SevError {
		kind = KindError
		s.errors++
	} else {
		s.warnings++
	}

	loc := fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
	text := fmt.Sprintf("  %s  %s", loc, d.Message)
	if d.Code != "" {
		text = fmt.Sprintf("  %s  [%s] %s", loc, d.Code, d.Message)
	}
	s.tw.PrintLine(s.styleLine(kind, text))
	s.redrawFooter()
}

func (s *streamer) handleEnd() {
	s.tw.EraseFooter()
	s.running = false
	s.lastErrors = s.errors
	s.lastFinished = true

	elapsed := s.now().Sub(s.cycleStart).Seconds()
	var text string
	switch {
	case s.errors > 0:
		text = fmt.Sprintf("  FAIL (%.1fs) %d errors, %d warnings", elapsed, s.errors, s.warnings)
	case s.warnings > 0:
		text = fmt.Sprintf("  OK (%.1fs) %d warnings", elapsed, s.warnings)
	default:
		text = fmt.Sprintf("  OK (%.1fs) clean", elapsed)
	}
	kind := KindCycleEnd
	if s.errors > 0 {
		kind = KindError
	}
	s.tw.PrintLine(s.styleLine(kind, text))
}

// redrawFooter rebuilds the in-flight cycle footer.
func (s *streamer) redrawFooter() {
	if !s.running {
		return
	}
	elapsed := s.now().Sub(s.cycleStart).Seconds()
	s.tw.DrawFooter([]string{
		s.styleLine(KindSeparator, "  ─── building ─────────────────────────"),
		fmt.Sprintf("  cycle %d  %5.1fs  %d err, %d warn", s.cycle, elapsed, s.errors, s.warnings),
	})
}

// finish erases the footer and settles tallies for an interrupted cycle.
func (s *streamer) finish() {
	s.tw.EraseFooter()
	if s.running {
		// Stream ended mid-cycle; count what we saw.
		s.lastErrors = s.errors
		s.lastFinished = true
	}
}

// Run feeds watch-mode build output from r through a matcher and renders it
// to out. Blocks until EOF or ctx cancellation.
// Returns exit code: 0=last cycle clean, 1=last cycle had errors, 2=read
// error, 130=interrupted.
func Run(ctx context.Context, r io.Reader, out io.Writer, width, height int, style StyleFunc, def matcher.Def, root string) int {
	tw := newTermWriter(out, width, height)
	s := newStreamer(tw, style)

	err := matcher.New(def, root).Stream(ctx, r, s.handleEvent)
	s.finish()
	if err != nil {
		if ctx.Err() != nil {
			return 130
		}
		return 2
	}
	if s.lastFinished && s.lastErrors > 0 {
		return 1
	}
	return 0
}
