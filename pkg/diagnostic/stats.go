package diagnostic

import "sort"

// Stats aggregates counts across a set of diagnostics.
type Stats struct {
	Errors   int
	Warnings int
	Files    int // distinct files with at least one diagnostic
}

// ComputeStats tallies severities and distinct files.
func ComputeStats(diags []Diagnostic) Stats {
	var s Stats
	files := make(map[string]struct{})
	for _, d := range diags {
		switch d.Severity {
		case SevError:
			s.Errors++
		case SevWarning:
			s.Warnings++
		}
		if d.File != "" {
			files[d.File] = struct{}{}
		}
	}
	s.Files = len(files)
	return s
}

// GroupByFile buckets diagnostics per file, preserving emission order within
// a file. Returns file names sorted errors-first, then alphabetically.
func GroupByFile(diags []Diagnostic) (map[string][]Diagnostic, []string) {
	groups := make(map[string][]Diagnostic)
	hasError := make(map[string]bool)
	for _, d := range diags {
		groups[d.File] = append(groups[d.File], d)
		if d.Severity == SevError {
			hasError[d.File] = true
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if hasError[names[i]] != hasError[names[j]] {
			return hasError[names[i]]
		}
		return names[i] < names[j]
	})
	return groups, names
}
