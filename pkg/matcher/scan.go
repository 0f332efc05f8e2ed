package matcher

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gentoo90/rust-analyzer/pkg/diagnostic"
)

// Scan consumes r to EOF and returns every completed diagnostic, in order.
// For background defs only lines inside begin/end windows contribute.
func (m *Matcher) Scan(r io.Reader) ([]diagnostic.Diagnostic, error) {
	var diags []diagnostic.Diagnostic
	scanner := bufio.NewScanner(r)
	// Allow long lines: rustc snippets can embed generated code.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ev, ok := m.Feed(scanner.Text()); ok && ev.Kind == EventDiagnostic {
			diags = append(diags, ev.Diagnostic)
		}
	}
	m.Flush()
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning build output: %w", err)
	}
	return diags, nil
}

// ScanBytes is a convenience for scanning a byte slice.
func (m *Matcher) ScanBytes(data []byte) ([]diagnostic.Diagnostic, error) {
	return m.Scan(strings.NewReader(string(data)))
}

// scanResult carries a scanned line or terminal error from the scanner goroutine.
type scanResult struct {
	line string
	err  error
}

// Stream feeds lines from r into the matcher and calls fn for each event.
// Stops on EOF or when ctx is cancelled; the matcher keeps listening across
// watch cycles for as long as the stream lasts.
//
// Cancellation: the scanner runs in a background goroutine. On context
// cancel, Stream closes r (if it implements io.Closer) to unblock the
// scanner. If r does not implement io.Closer (e.g. *bufio.Reader), the
// caller must close the underlying reader externally to prevent a goroutine
// leak.
func (m *Matcher) Stream(ctx context.Context, r io.Reader, fn func(Event)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lines := make(chan scanResult)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanResult{line: scanner.Text()}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case lines <- scanResult{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			// Attempt to unblock the scanner goroutine.
			if c, ok := r.(io.Closer); ok {
				_ = c.Close()
			}
			m.Flush()
			return ctx.Err()
		case res, ok := <-lines:
			if !ok {
				m.Flush()
				return nil
			}
			if res.err != nil {
				m.Flush()
				return res.err
			}
			if ev, produced := m.Feed(res.line); produced {
				fn(ev)
			}
		}
	}
}
