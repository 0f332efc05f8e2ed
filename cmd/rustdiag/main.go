// rustdiag renders rustc/cargo build output as a structured problems list.
//
// Usage:
//
//	cargo build 2>&1 | rustdiag
//	cargo build --message-format=json | rustdiag
//	cargo watch -x check 2>&1 | rustdiag
//	rustdiag wrap -- cargo build
//	rustdiag watch --ui -- cargo watch -x check
//
// Accepts three input formats on stdin (auto-detected):
//   - plain rustc/cargo human-readable output
//   - cargo --message-format=json NDJSON
//   - cargo-watch output with [Running ...] cycle markers
//
// Output modes (auto-detected):
//
//	terminal  — styled Unicode output (default when TTY)
//	llm       — terse plain text for AI consumption (default when piped)
//	json      — structured JSON for automation
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/gentoo90/rust-analyzer/internal/config"
	"github.com/gentoo90/rust-analyzer/internal/detect"
	"github.com/gentoo90/rust-analyzer/internal/version"
	"github.com/gentoo90/rust-analyzer/pkg/baseline"
	"github.com/gentoo90/rust-analyzer/pkg/cargojson"
	"github.com/gentoo90/rust-analyzer/pkg/diagnostic"
	"github.com/gentoo90/rust-analyzer/pkg/mapper"
	"github.com/gentoo90/rust-analyzer/pkg/matcher"
	"github.com/gentoo90/rust-analyzer/pkg/pattern"
	"github.com/gentoo90/rust-analyzer/pkg/render"
	"github.com/gentoo90/rust-analyzer/pkg/stream"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options are the flags shared by the batch path and the subcommands.
type options struct {
	format       string
	theme        string
	root         string
	matcherName  string
	saveBaseline bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.format, "format", "auto", "Output format: auto, terminal, llm, json")
	fs.StringVar(&o.theme, "theme", "", "Theme: default, orca, mono")
	fs.StringVar(&o.root, "root", ".", "Workspace root for relative paths")
	fs.StringVar(&o.matcherName, "matcher", "", "Matcher name (built-in or from .rustdiag.yaml)")
	fs.BoolVar(&o.saveBaseline, "baseline", false, "Save this run as the comparison baseline")
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// Check for subcommands before flag parsing
	if len(args) > 0 {
		switch args[0] {
		case "wrap":
			return runWrap(args[1:], stdout, stderr)
		case "watch":
			return runWatch(args[1:], stdin, stdout, stderr)
		}
	}

	fs := flag.NewFlagSet("rustdiag", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	opts.register(fs)
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Fprintln(stdout, version.Short())
		return 0
	}

	cfg, def, code := loadSetup(&opts, stderr)
	if code >= 0 {
		return code
	}

	// Peek stdin to detect format without consuming
	br := bufio.NewReaderSize(stdin, 8*1024)
	peeked, _ := br.Peek(4096)
	if len(peeked) == 0 {
		fmt.Fprintf(stderr, "rustdiag: no input on stdin\n")
		return 2
	}

	format := detect.Sniff(peeked)

	// Live path: watch-marker input + TTY stdout + auto format
	if format == detect.WatchStream && isTTYWriter(stdout) && opts.format == "auto" {
		return runLiveStream(stdin, br, stdout, opts.theme, cfg, opts.root)
	}

	diags, code := parseInput(format, br, def, opts.root, stderr)
	if code >= 0 {
		return code
	}

	patterns, code := assemble(diags, &opts, cfg, stderr)
	if code >= 0 {
		return code
	}

	mode := resolveFormat(opts.format, stdout)
	if !validFormat(mode) {
		fmt.Fprintf(stderr, "rustdiag: unknown format %q (expected auto, terminal, llm, json)\n", opts.format)
		return 2
	}
	fmt.Fprint(stdout, selectRenderer(mode, themeName(&opts, cfg), stdout).Render(patterns))
	return mapper.ExitCode(patterns)
}

// loadSetup loads the project config and resolves the matcher def.
// Returns (cfg, def, -1) on success; (nil, zero, exitCode) on error.
func loadSetup(opts *options, stderr io.Writer) (*config.Project, matcher.Def, int) {
	cfg, err := config.Load(opts.root)
	if err != nil {
		fmt.Fprintf(stderr, "rustdiag: %v\n", err)
		return nil, matcher.Def{}, 2
	}
	if opts.root == "." && cfg.Root != "" {
		opts.root = cfg.Root
	}

	name := opts.matcherName
	if name == "" {
		name = cfg.Matcher
	}
	def, err := cfg.ResolveMatcher(name)
	if err != nil {
		fmt.Fprintf(stderr, "rustdiag: %v\n", err)
		return nil, matcher.Def{}, 2
	}
	return cfg, def, -1
}

// parseInput extracts diagnostics from the detected input format.
// Returns (diags, -1) on success; (nil, exitCode) on error.
func parseInput(format detect.Format, br *bufio.Reader, def matcher.Def, root string, stderr io.Writer) ([]diagnostic.Diagnostic, int) {
	switch format {
	case detect.CargoJSON:
		diags, malformed, err := cargojson.ParseStream(br, root)
		if err != nil {
			fmt.Fprintf(stderr, "rustdiag: parsing cargo json: %v\n", err)
			return nil, 2
		}
		if malformed > 0 {
			fmt.Fprintf(stderr, "rustdiag: warning: %d malformed line(s) skipped\n", malformed)
		}
		return diags, -1
	case detect.WatchStream:
		diags, err := matcher.New(matcher.RustcWatch, root).Scan(br)
		if err != nil {
			fmt.Fprintf(stderr, "rustdiag: %v\n", err)
			return nil, 2
		}
		return diags, -1
	case detect.PlainRustc:
		diags, err := matcher.New(def, root).Scan(br)
		if err != nil {
			fmt.Fprintf(stderr, "rustdiag: %v\n", err)
			return nil, 2
		}
		return diags, -1
	default:
		fmt.Fprintf(stderr, "rustdiag: unrecognized input\n")
		return nil, 2
	}
}

// assemble maps diagnostics to patterns, applying baseline comparison and
// snapshot saving when configured.
// Returns (patterns, -1) on success; (nil, exitCode) on error.
func assemble(diags []diagnostic.Diagnostic, opts *options, cfg *config.Project, stderr io.Writer) ([]pattern.Pattern, int) {
	var diff *baseline.Diff
	old, found, err := baseline.Load(cfg.BaselineDir)
	if err != nil {
		fmt.Fprintf(stderr, "rustdiag: warning: %v\n", err)
	} else if found {
		d := baseline.ComputeDiff(old, diags)
		diff = &d
	}

	if opts.saveBaseline {
		if err := baseline.Save(cfg.BaselineDir, diags); err != nil {
			fmt.Fprintf(stderr, "rustdiag: %v\n", err)
			return nil, 2
		}
	}

	return mapper.FromDiagnostics(diags, diff), -1
}

// runLiveStream handles the live streaming path (watch input + TTY).
func runLiveStream(stdin io.Reader, br *bufio.Reader, stdout io.Writer, themeFlag string, cfg *config.Project, root string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// Close the underlying reader on cancel to unblock Stream's scanner goroutine.
	// bufio.Reader doesn't implement io.Closer, so Stream can't close it itself.
	if c, ok := stdin.(io.Closer); ok {
		stopClose := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stopClose()
	}
	width, height := termSize(stdout)
	theme := resolveTheme(pickTheme(themeFlag, cfg))
	return stream.Run(ctx, br, stdout, width, height, themeStyle(theme), matcher.RustcWatch, root)
}

// themeStyle adapts a render theme into a stream styling function.
func themeStyle(theme render.Theme) stream.StyleFunc {
	return func(kind stream.LineKind, text string) string {
		switch kind {
		case stream.KindError:
			return theme.Error.Render(text)
		case stream.KindWarning:
			return theme.Warning.Render(text)
		case stream.KindCycleStart, stream.KindSeparator:
			return theme.Muted.Render(text)
		case stream.KindCycleEnd:
			return theme.Success.Render(text)
		default:
			return text
		}
	}
}

func selectRenderer(mode, themeFlag string, w io.Writer) render.Renderer {
	switch mode {
	case "json":
		return render.NewJSON()
	case "llm":
		return render.NewLLM()
	default:
		width := 80
		if f, ok := w.(*os.File); ok {
			if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
				width = tw
			}
		}
		return render.NewTerminal(resolveTheme(themeFlag), width)
	}
}

// resolveTheme honors NO_COLOR over the named theme.
func resolveTheme(name string) render.Theme {
	if os.Getenv("NO_COLOR") != "" {
		return render.MonoTheme()
	}
	return render.ThemeByName(name)
}

func themeName(opts *options, cfg *config.Project) string {
	return pickTheme(opts.theme, cfg)
}

func pickTheme(flagValue string, cfg *config.Project) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.Theme != "" {
		return cfg.Theme
	}
	return "default"
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	// Auto-detect: TTY = terminal, piped = llm
	if isTTYWriter(w) {
		return "terminal"
	}
	return "llm"
}

func validFormat(mode string) bool {
	switch mode {
	case "terminal", "llm", "json":
		return true
	}
	return false
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions for w, defaulting to 80x24.
func termSize(w io.Writer) (width, height int) {
	width, height = 80, 24
	if f, ok := w.(*os.File); ok {
		if tw, th, err := term.GetSize(int(f.Fd())); err == nil {
			if tw > 0 {
				width = tw
			}
			if th > 0 {
				height = th
			}
		}
	}
	return width, height
}
