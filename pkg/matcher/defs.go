// Package matcher extracts structured diagnostics from rustc-style build
// output by pairing a header line with the location line that follows it.
package matcher

import (
	"fmt"
	"regexp"
)

// headerRe matches the first line of a rustc diagnostic.
// Canonical regex — groups: severity, optional bracketed code, message.
var headerRe = regexp.MustCompile(`^(warning|warn|error)(?:\[(.*?)\])?: (.*)$`)

// locationRe matches the `--> file:line:col` line that follows a header.
// Leading arrow/whitespace decoration is tolerated; digit groups may be
// empty in truncated output and parse as 0.
var locationRe = regexp.MustCompile(`^[\s\->=]*(.*?):(\d*):(\d*)\s*$`)

// cargo-watch cycle markers for the watch-mode def.
var (
	watchBeginsRe = regexp.MustCompile(`^\[Running `)
	watchEndsRe   = regexp.MustCompile(`^(\[Finished running\]|To learn more, run the command again with --verbose\.)$`)
)

// Def declares one two-stage matcher: a header pattern, the location pattern
// expected on the next line, and optional background markers that bound the
// window in which matching is active. Defs are pure data consumed by Matcher;
// the built-in rustc and rustc-watch defs differ only in their markers.
type Def struct {
	Name     string
	Header   *regexp.Regexp
	Location *regexp.Regexp

	// Begins/Ends delimit watch-mode cycles. Both nil means matching is
	// always active.
	Begins *regexp.Regexp
	Ends   *regexp.Regexp
}

// Background reports whether the def tracks begin/end cycle markers.
func (d Def) Background() bool {
	return d.Begins != nil && d.Ends != nil
}

// Built-in defs, mirroring the rustc problem-matcher pair.
var (
	Rustc = Def{
		Name:     "rustc",
		Header:   headerRe,
		Location: locationRe,
	}
	RustcWatch = Def{
		Name:     "rustc-watch",
		Header:   headerRe,
		Location: locationRe,
		Begins:   watchBeginsRe,
		Ends:     watchEndsRe,
	}
)

var builtins = map[string]Def{
	Rustc.Name:      Rustc,
	RustcWatch.Name: RustcWatch,
}

// Lookup returns the built-in def with the given name.
func Lookup(name string) (Def, bool) {
	d, ok := builtins[name]
	return d, ok
}

// Compile builds a Def from pattern source strings, as supplied by
// user-defined matchers in the project config. begins and ends must be
// both empty or both set.
func Compile(name, header, location, begins, ends string) (Def, error) {
	d := Def{Name: name}
	var err error
	if d.Header, err = regexp.Compile(header); err != nil {
		return Def{}, fmt.Errorf("matcher %q: header pattern: %w", name, err)
	}
	if d.Header.NumSubexp() < 3 {
		return Def{}, fmt.Errorf("matcher %q: header pattern needs severity, code, and message groups", name)
	}
	if d.Location, err = regexp.Compile(location); err != nil {
		return Def{}, fmt.Errorf("matcher %q: location pattern: %w", name, err)
	}
	if d.Location.NumSubexp() < 3 {
		return Def{}, fmt.Errorf("matcher %q: location pattern needs file, line, and column groups", name)
	}
	if (begins == "") != (ends == "") {
		return Def{}, fmt.Errorf("matcher %q: begins and ends must be set together", name)
	}
	if begins != "" {
		if d.Begins, err = regexp.Compile(begins); err != nil {
			return Def{}, fmt.Errorf("matcher %q: begins pattern: %w", name, err)
		}
		if d.Ends, err = regexp.Compile(ends); err != nil {
			return Def{}, fmt.Errorf("matcher %q: ends pattern: %w", name, err)
		}
	}
	return d, nil
}
