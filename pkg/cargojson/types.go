// Package cargojson parses cargo --message-format=json NDJSON streams.
package cargojson

// Message is one NDJSON event from cargo. Only compiler-message events carry
// diagnostics; build-script and artifact events are skipped.
type Message struct {
	Reason    string           `json:"reason"` // compiler-message, compiler-artifact, build-finished, ...
	PackageID string           `json:"package_id"`
	Message   *CompilerMessage `json:"message"`
	Success   *bool            `json:"success"` // build-finished only
}

// CompilerMessage is the rustc diagnostic embedded in a compiler-message event.
type CompilerMessage struct {
	Level   string `json:"level"` // error, warning, note, help
	Message string `json:"message"`
	Code    *Code  `json:"code"`
	Spans   []Span `json:"spans"`
}

// Code is the optional rustc error code (e.g. E0308).
type Code struct {
	Code string `json:"code"`
}

// Span locates a diagnostic in source. Only the primary span is lifted into
// a Diagnostic; secondary spans carry related notes this tool does not render.
type Span struct {
	FileName    string `json:"file_name"`
	LineStart   int    `json:"line_start"`
	ColumnStart int    `json:"column_start"`
	IsPrimary   bool   `json:"is_primary"`
}

// primarySpan returns the first primary span, or nil.
func (m *CompilerMessage) primarySpan() *Span {
	for i := range m.Spans {
		if m.Spans[i].IsPrimary {
			return &m.Spans[i]
		}
	}
	return nil
}
