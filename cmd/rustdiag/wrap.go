package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gentoo90/rust-analyzer/internal/detect"
	"github.com/gentoo90/rust-analyzer/pkg/diagnostic"
	"github.com/gentoo90/rust-analyzer/pkg/mapper"
	"github.com/gentoo90/rust-analyzer/pkg/runner"
)

// runWrap handles `rustdiag wrap [flags] -- <command> [args...]`:
// spawn the build tool, capture its merged output, render the problems.
func runWrap(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rustdiag wrap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	opts.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cmdline := fs.Args()
	if len(cmdline) == 0 {
		fmt.Fprintf(stderr, "rustdiag wrap: no command given\n")
		fmt.Fprintf(stderr, "Usage: rustdiag wrap [flags] -- <command> [args...]\n")
		return 2
	}

	cfg, def, code := loadSetup(&opts, stderr)
	if code >= 0 {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Capture the merged output, then reuse the batch pipeline: the wrapped
	// tool may emit either plain rustc text or cargo JSON.
	var buf bytes.Buffer
	childCode, err := runner.Run(ctx, cmdline[0], cmdline[1:], func(line string) {
		buf.WriteString(line)
		buf.WriteByte('\n')
	})
	if err != nil {
		fmt.Fprintf(stderr, "rustdiag wrap: %v\n", err)
		return 2
	}
	if ctx.Err() != nil {
		return 130
	}

	var diags []diagnostic.Diagnostic
	if buf.Len() > 0 {
		br := bufio.NewReader(&buf)
		peeked, _ := br.Peek(4096)
		diags, code = parseInput(detect.Sniff(peeked), br, def, opts.root, stderr)
		if code >= 0 {
			return code
		}
	}

	patterns, code := assemble(diags, &opts, cfg, stderr)
	if code >= 0 {
		return code
	}

	mode := resolveFormat(opts.format, stdout)
	if !validFormat(mode) {
		fmt.Fprintf(stderr, "rustdiag wrap: unknown format %q\n", opts.format)
		return 2
	}
	fmt.Fprint(stdout, selectRenderer(mode, themeName(&opts, cfg), stdout).Render(patterns))

	if exit := mapper.ExitCode(patterns); exit != 0 {
		return exit
	}
	// No diagnostics extracted but the child still failed (e.g. link error):
	// propagate its exit code rather than reporting success.
	if childCode > 0 {
		return childCode
	}
	return 0
}
