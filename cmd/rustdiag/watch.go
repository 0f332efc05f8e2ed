package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gentoo90/rust-analyzer/pkg/matcher"
	"github.com/gentoo90/rust-analyzer/pkg/runner"
	"github.com/gentoo90/rust-analyzer/pkg/stream"
	"github.com/gentoo90/rust-analyzer/pkg/watchui"
)

// runWatch handles `rustdiag watch [flags] [-- <command> [args...]]`:
// follow watch-mode output across build cycles, either spawning the watcher
// itself or reading a piped stream. --ui swaps the scrolling display for the
// interactive dashboard.
func runWatch(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rustdiag watch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	opts.register(fs)
	ui := fs.Bool("ui", false, "Interactive dashboard instead of scrolling output")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, def, code := loadSetup(&opts, stderr)
	if code >= 0 {
		return code
	}
	if !def.Background() {
		// Watching needs cycle markers. An explicitly chosen foreground
		// matcher is a usage error; the implicit default falls back to the
		// built-in watch def.
		if opts.matcherName != "" {
			fmt.Fprintf(stderr, "rustdiag watch: matcher %q has no begin/end cycle markers\n", def.Name)
			return 2
		}
		def = matcher.RustcWatch
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	theme := resolveTheme(pickTheme(opts.theme, cfg))
	cmdline := fs.Args()

	if *ui {
		// Quitting the UI leaves nobody draining events; stop the producer
		// before waiting on errs or both sides block forever.
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		events := make(chan matcher.Event, 64)
		errs := make(chan error, 1)
		go func() {
			defer close(events)
			errs <- produceEvents(ctx, def, cmdline, stdin, opts.root, events)
		}()

		exit, err := watchui.Run(ctx, events, theme)
		cancel()
		if err != nil {
			fmt.Fprintf(stderr, "rustdiag watch: %v\n", err)
			return 2
		}
		if err := <-errs; err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(stderr, "rustdiag watch: %v\n", err)
			return 2
		}
		return exit
	}

	width, height := termSize(stdout)
	style := themeStyle(theme)

	if len(cmdline) == 0 {
		if c, ok := stdin.(io.Closer); ok {
			stopClose := context.AfterFunc(ctx, func() { _ = c.Close() })
			defer stopClose()
		}
		return stream.Run(ctx, bufio.NewReader(stdin), stdout, width, height, style, def, opts.root)
	}

	// Spawned watcher: bridge its merged output into the stream display.
	pr, pw := io.Pipe()
	go func() {
		_, err := runner.Run(ctx, cmdline[0], cmdline[1:], func(line string) {
			fmt.Fprintln(pw, line)
		})
		_ = pw.CloseWithError(err)
	}()
	return stream.Run(ctx, pr, stdout, width, height, style, def, opts.root)
}

// produceEvents feeds matcher events from either a spawned watcher or stdin
// into the events channel until the source ends or ctx is cancelled.
func produceEvents(ctx context.Context, def matcher.Def, cmdline []string, stdin io.Reader, root string, events chan<- matcher.Event) error {
	m := matcher.New(def, root)
	emit := func(ev matcher.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	if len(cmdline) == 0 {
		return m.Stream(ctx, stdin, emit)
	}
	_, err := runner.Run(ctx, cmdline[0], cmdline[1:], func(line string) {
		if ev, ok := m.Feed(line); ok {
			emit(ev)
		}
	})
	return err
}
