// Package baseline persists a run's diagnostics so later runs can report
// drift (new vs fixed problems) instead of only absolute counts.
package baseline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gentoo90/rust-analyzer/pkg/diagnostic"
)

// Current schema version - increment when the snapshot format changes.
const schemaVersion uint16 = 1

const snapshotFile = "baseline.mp"

// snapshot is the on-disk payload. A schema bump invalidates old files
// rather than attempting migration.
type snapshot struct {
	Schema  uint16
	SavedAt time.Time
	Diags   []entry
}

type entry struct {
	Severity uint8
	Code     string
	Message  string
	File     string
	Line     int
	Column   int
}

// Save writes the diagnostics snapshot under dir, creating it if needed.
// The write goes through a temp file and rename so a crash never leaves a
// truncated baseline.
func Save(dir string, diags []diagnostic.Diagnostic) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating baseline dir: %w", err)
	}

	snap := snapshot{Schema: schemaVersion, SavedAt: time.Now()}
	for _, d := range diags {
		snap.Diags = append(snap.Diags, entry{
			Severity: uint8(d.Severity),
			Code:     d.Code,
			Message:  d.Message,
			File:     d.File,
			Line:     d.Line,
			Column:   d.Column,
		})
	}

	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("encoding baseline: %w", err)
	}

	tmp := filepath.Join(dir, snapshotFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing baseline: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, snapshotFile)); err != nil {
		return fmt.Errorf("committing baseline: %w", err)
	}
	return nil
}

// Load reads the snapshot under dir. found is false when no baseline exists
// or its schema version no longer matches (stale files are ignored, not
// errors).
func Load(dir string) (diags []diagnostic.Diagnostic, found bool, err error) {
	data, err := os.ReadFile(filepath.Join(dir, snapshotFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading baseline: %w", err)
	}

	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("decoding baseline: %w", err)
	}
	if snap.Schema != schemaVersion {
		return nil, false, nil
	}

	for _, e := range snap.Diags {
		diags = append(diags, diagnostic.Diagnostic{
			Severity: diagnostic.Severity(e.Severity),
			Code:     e.Code,
			Message:  e.Message,
			File:     e.File,
			Line:     e.Line,
			Column:   e.Column,
		})
	}
	return diags, true, nil
}

// Diff is the drift between a baseline run and the current one.
type Diff struct {
	New   []diagnostic.Diagnostic // present now, absent in baseline
	Fixed []diagnostic.Diagnostic // present in baseline, absent now
}

// Empty reports whether nothing drifted.
func (d Diff) Empty() bool { return len(d.New) == 0 && len(d.Fixed) == 0 }

// ComputeDiff compares two runs by Diagnostic.Key.
func ComputeDiff(old, current []diagnostic.Diagnostic) Diff {
	oldKeys := make(map[string]struct{}, len(old))
	for _, d := range old {
		oldKeys[d.Key()] = struct{}{}
	}
	curKeys := make(map[string]struct{}, len(current))
	for _, d := range current {
		curKeys[d.Key()] = struct{}{}
	}

	var diff Diff
	for _, d := range current {
		if _, ok := oldKeys[d.Key()]; !ok {
			diff.New = append(diff.New, d)
		}
	}
	for _, d := range old {
		if _, ok := curKeys[d.Key()]; !ok {
			diff.Fixed = append(diff.Fixed, d)
		}
	}
	return diff
}
