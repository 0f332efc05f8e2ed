package cargojson

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gentoo90/rust-analyzer/pkg/diagnostic"
)

// ParseStream parses cargo --message-format=json NDJSON from a reader, line
// by line. Returns the extracted diagnostics, the number of malformed lines
// skipped, and any error. Relative span paths are joined to root when it is
// non-empty.
//
// Cargo emits the same rustc diagnostic once per crate that observes it;
// duplicates (by Key) are collapsed to the first occurrence.
func ParseStream(r io.Reader, root string) ([]diagnostic.Diagnostic, int, error) {
	var diags []diagnostic.Diagnostic
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	// Rendered messages can be large for macro-heavy code.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var malformed int
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var msg Message
		if err := json.Unmarshal(line, &msg); err != nil {
			malformed++
			continue
		}
		d, ok := lift(&msg, root)
		if !ok {
			continue
		}
		if _, dup := seen[d.Key()]; dup {
			continue
		}
		seen[d.Key()] = struct{}{}
		diags = append(diags, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, malformed, fmt.Errorf("scanning cargo output: %w", err)
	}
	return diags, malformed, nil
}

// ParseBytes is a convenience for parsing from a byte slice.
func ParseBytes(data []byte, root string) ([]diagnostic.Diagnostic, int, error) {
	return ParseStream(strings.NewReader(string(data)), root)
}

// lift converts a compiler-message event into a Diagnostic. Events that are
// not diagnostics (artifacts, notes, span-less summaries like "aborting due
// to previous error") report ok=false.
func lift(msg *Message, root string) (diagnostic.Diagnostic, bool) {
	if msg.Reason != "compiler-message" || msg.Message == nil {
		return diagnostic.Diagnostic{}, false
	}
	sev, ok := diagnostic.ParseSeverity(msg.Message.Level)
	if !ok {
		return diagnostic.Diagnostic{}, false
	}
	span := msg.Message.primarySpan()
	if span == nil {
		return diagnostic.Diagnostic{}, false
	}

	file := span.FileName
	if root != "" && file != "" && !filepath.IsAbs(file) {
		file = filepath.Join(root, file)
	}

	d := diagnostic.Diagnostic{
		Severity: sev,
		Message:  msg.Message.Message,
		File:     file,
		Line:     span.LineStart,
		Column:   span.ColumnStart,
	}
	if msg.Message.Code != nil {
		d.Code = msg.Message.Code.Code
	}
	return d, true
}
