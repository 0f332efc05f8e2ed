// Package detect sniffs stdin to determine the input format.
package detect

import (
	"bytes"
	"encoding/json"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown     Format = iota
	CargoJSON          // cargo --message-format=json NDJSON stream
	WatchStream        // cargo-watch output with [Running ...] cycle markers
	PlainRustc         // plain rustc/cargo human-readable output
)

// Sniff examines the first bytes of input to determine format.
// Input must contain at least the first line.
func Sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return Unknown
	}

	if trimmed[0] == '{' && isCargoJSON(trimmed) {
		return CargoJSON
	}

	// Watch streams announce each cycle at the start of a line.
	if bytes.HasPrefix(trimmed, []byte("[Running ")) ||
		bytes.Contains(data, []byte("\n[Running ")) {
		return WatchStream
	}

	return PlainRustc
}

func isCargoJSON(data []byte) bool {
	// Probe the first complete line — cargo emits NDJSON, one event per line.
	end := bytes.IndexByte(data, '\n')
	if end < 0 {
		end = len(data)
	}
	var probe struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(data[:end], &probe); err != nil {
		return false
	}
	return probe.Reason != ""
}
